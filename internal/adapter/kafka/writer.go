package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/climate-viz/internal/config"
	"github.com/couchcryptid/climate-viz/internal/domain"
)

// Writer produces extremes reports to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured extremes topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaExtremesTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes reports in a single WriteMessages call.
// Reports are keyed by ID so republished charts land on the same partition.
func (w *Writer) Publish(ctx context.Context, reports []domain.ExtremeReport) error {
	if len(reports) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(reports))
	for i := range reports {
		msg, err := serializeToMessage(reports[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write extremes: %w", err)
	}
	w.logger.Debug("published extremes", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an ExtremeReport into a Kafka message.
func serializeToMessage(r domain.ExtremeReport) (kafkago.Message, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize extremes report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(r.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "chart", Value: []byte(r.Chart)},
			{Key: "generated_at", Value: []byte(r.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}

// ParseMessage decodes a message produced by Writer.
func ParseMessage(msg kafkago.Message) (domain.ExtremeReport, error) {
	var r domain.ExtremeReport
	if err := json.Unmarshal(msg.Value, &r); err != nil {
		return domain.ExtremeReport{}, fmt.Errorf("parse extremes report: %w", err)
	}
	return r, nil
}
