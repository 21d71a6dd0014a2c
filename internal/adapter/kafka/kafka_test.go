package kafka

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-viz/internal/config"
	"github.com/couchcryptid/climate-viz/internal/domain"
)

func testReport(now time.Time) domain.ExtremeReport {
	return domain.ExtremeReport{
		ID:          "nairobi-temperature-0123456789abcdef",
		Chart:       "nairobi-temperature",
		Series:      "Nairobi",
		Unit:        "°C",
		Count:       3,
		Mean:        17.9,
		Maxima:      []domain.Observation{{Label: "1992", Value: 18.4}},
		Minima:      []domain.Observation{{Label: "1993", Value: 17.5}},
		GeneratedAt: now,
	}
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)

	msg, err := serializeToMessage(testReport(now))
	require.NoError(t, err)

	assert.Equal(t, []byte("nairobi-temperature-0123456789abcdef"), msg.Key)
	assert.Contains(t, string(msg.Value), `"chart":"nairobi-temperature"`)
	assert.Contains(t, string(msg.Value), `"maxima":[{"label":"1992","value":18.4}]`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "chart", msg.Headers[0].Key)
	assert.Equal(t, []byte("nairobi-temperature"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestParseMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	want := testReport(now)

	msg, err := serializeToMessage(want)
	require.NoError(t, err)

	got, err := ParseMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseMessage_Invalid(t *testing.T) {
	_, err := ParseMessage(kafkago.Message{Value: []byte("not json")})
	assert.Error(t, err)
}

func TestWriter_PublishEmpty(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaExtremesTopic: "climate-extremes"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer w.Close()

	require.NoError(t, w.Publish(context.Background(), nil))
	assert.Equal(t, "climate-extremes", w.writer.Topic)
}
