package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	sharedretry "github.com/couchcryptid/storm-data-shared/retry"
	"github.com/google/uuid"

	"github.com/couchcryptid/climate-viz/internal/domain"
	"github.com/couchcryptid/climate-viz/internal/observability"
	"github.com/couchcryptid/climate-viz/internal/report"
)

const (
	initialBackoff  = 200 * time.Millisecond
	maxBackoff      = 5 * time.Second
	publishAttempts = 5
)

// Renderer builds one chart from its spec.
type Renderer interface {
	Render(ctx context.Context, spec report.ChartSpec) (report.Rendered, error)
}

// Sink stores a rendered chart.
type Sink interface {
	Store(ctx context.Context, r report.Rendered) error
}

// Publisher sends extremes reports downstream.
type Publisher interface {
	Publish(ctx context.Context, reports []domain.ExtremeReport) error
}

// Summary describes a finished run.
type Summary struct {
	RunID     string
	Rendered  []string
	Failed    []string
	Published int
	Duration  time.Duration
}

// Pipeline renders every chart of a report, stores it and publishes its extremes.
type Pipeline struct {
	renderer  Renderer
	sink      Sink
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	backoff   time.Duration
}

// New creates a Pipeline. publisher may be nil.
func New(r Renderer, s Sink, pub Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		renderer:  r,
		sink:      s,
		publisher: pub,
		logger:    logger,
		metrics:   metrics,
		backoff:   initialBackoff,
	}
}

// CheckReadiness returns nil once a run has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("report has not been rendered yet")
	}
	return nil
}

// Ready reports whether a run has completed.
func (p *Pipeline) Ready() bool { return p.ready.Load() }

// Run renders specs in order. A chart that fails to render is logged and
// skipped; a sink failure or cancellation stops the run.
func (p *Pipeline) Run(ctx context.Context, specs []report.ChartSpec) (Summary, error) {
	start := time.Now()
	sum := Summary{RunID: uuid.NewString()}
	logger := p.logger.With("run_id", sum.RunID)
	logger.Info("pipeline started", "charts", len(specs))
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	var extremes []domain.ExtremeReport
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			logger.Info("pipeline stopping", "reason", err)
			return sum, err
		}

		renderStart := time.Now()
		r, err := p.renderer.Render(ctx, spec)
		if err != nil {
			logger.Warn("render failed, skipping chart", "chart", spec.Name, "kind", spec.Kind, "error", err)
			p.metrics.RenderErrors.WithLabelValues(spec.Kind).Inc()
			sum.Failed = append(sum.Failed, spec.Name)
			continue
		}
		p.metrics.RenderDuration.WithLabelValues(spec.Kind).Observe(time.Since(renderStart).Seconds())

		if err := p.sink.Store(ctx, r); err != nil {
			return sum, fmt.Errorf("store chart %s: %w", spec.Name, err)
		}
		p.metrics.ChartsRendered.WithLabelValues(spec.Kind).Inc()
		sum.Rendered = append(sum.Rendered, spec.Name)
		extremes = append(extremes, r.Extremes...)
	}

	published, err := p.publish(ctx, logger, extremes)
	sum.Published = published
	if err != nil {
		return sum, err
	}

	sum.Duration = time.Since(start)
	p.ready.Store(true)
	logger.Info("pipeline finished",
		"rendered", len(sum.Rendered),
		"failed", len(sum.Failed),
		"published", sum.Published,
		"duration", sum.Duration,
	)
	return sum, nil
}

// publish sends the finite reports, retrying with exponential backoff.
func (p *Pipeline) publish(ctx context.Context, logger *slog.Logger, reports []domain.ExtremeReport) (int, error) {
	if p.publisher == nil {
		return 0, nil
	}
	batch := make([]domain.ExtremeReport, 0, len(reports))
	for _, r := range reports {
		if !r.Finite() {
			logger.Warn("skipping report with non-finite values", "report_id", r.ID, "chart", r.Chart)
			continue
		}
		batch = append(batch, r)
	}
	if len(batch) == 0 {
		return 0, nil
	}

	backoff := p.backoff
	var err error
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		if err = p.publisher.Publish(ctx, batch); err == nil {
			p.metrics.ExtremesPublished.Add(float64(len(batch)))
			return len(batch), nil
		}
		p.metrics.PublishErrors.Inc()
		logger.Error("publish extremes failed", "error", err, "attempt", attempt, "batch_size", len(batch))
		if attempt == publishAttempts {
			break
		}
		if !sharedretry.SleepWithContext(ctx, backoff) {
			return 0, ctx.Err()
		}
		backoff = sharedretry.NextBackoff(backoff, maxBackoff)
	}
	return 0, fmt.Errorf("publish extremes: %w", err)
}
