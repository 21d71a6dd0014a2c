package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-viz/internal/domain"
	"github.com/couchcryptid/climate-viz/internal/observability"
	"github.com/couchcryptid/climate-viz/internal/pipeline"
	"github.com/couchcryptid/climate-viz/internal/report"
)

// --- mocks ---

type mockRenderer struct {
	fail map[string]error
}

func (m *mockRenderer) Render(_ context.Context, spec report.ChartSpec) (report.Rendered, error) {
	if err := m.fail[spec.Name]; err != nil {
		return report.Rendered{}, err
	}
	return report.Rendered{
		Name:     spec.Name,
		Kind:     spec.Kind,
		HTML:     []byte("<html></html>"),
		Extremes: []domain.ExtremeReport{{ID: "chart-" + spec.Name, Chart: spec.Name, Count: 1, Mean: 1}},
	}, nil
}

type mockSink struct {
	mu     sync.Mutex
	stored []string
	err    error
}

func (m *mockSink) Store(_ context.Context, r report.Rendered) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = append(m.stored, r.Name)
	return nil
}

type mockPublisher struct {
	failures  int
	calls     int
	published []domain.ExtremeReport
}

func (m *mockPublisher) Publish(_ context.Context, reports []domain.ExtremeReport) error {
	m.calls++
	if m.calls <= m.failures {
		return errors.New("broker unavailable")
	}
	m.published = append(m.published, reports...)
	return nil
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func specs(names ...string) []report.ChartSpec {
	out := make([]report.ChartSpec, len(names))
	for i, n := range names {
		out[i] = report.ChartSpec{Name: n, Kind: report.KindLine}
	}
	return out
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	sink := &mockSink{}
	pub := &mockPublisher{}
	metrics := newTestMetrics()

	p := pipeline.New(&mockRenderer{}, sink, pub, slog.Default(), metrics)
	require.Error(t, p.CheckReadiness(context.Background()))

	sum, err := p.Run(context.Background(), specs("a", "b"))
	require.NoError(t, err)

	assert.NotEmpty(t, sum.RunID)
	assert.Equal(t, []string{"a", "b"}, sum.Rendered)
	assert.Empty(t, sum.Failed)
	assert.Equal(t, 2, sum.Published)
	assert.Equal(t, []string{"a", "b"}, sink.stored)
	assert.Len(t, pub.published, 2)
	assert.True(t, p.Ready())
	require.NoError(t, p.CheckReadiness(context.Background()))

	assert.InDelta(t, 2, testutil.ToFloat64(metrics.ChartsRendered.WithLabelValues(report.KindLine)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.ExtremesPublished), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PipelineRunning), 0)
}

func TestPipeline_Run_RenderErrorSkipsChart(t *testing.T) {
	sink := &mockSink{}
	metrics := newTestMetrics()
	r := &mockRenderer{fail: map[string]error{"bad": errors.New("bad data")}}

	p := pipeline.New(r, sink, nil, slog.Default(), metrics)

	sum, err := p.Run(context.Background(), specs("a", "bad", "c"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, sum.Rendered)
	assert.Equal(t, []string{"bad"}, sum.Failed)
	assert.Equal(t, []string{"a", "c"}, sink.stored)
	assert.Zero(t, sum.Published)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RenderErrors.WithLabelValues(report.KindLine)), 0)
	assert.True(t, p.Ready())
}

func TestPipeline_Run_SinkErrorAborts(t *testing.T) {
	sink := &mockSink{err: errors.New("disk full")}

	p := pipeline.New(&mockRenderer{}, sink, nil, slog.Default(), newTestMetrics())

	_, err := p.Run(context.Background(), specs("a", "b"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store chart a")
	assert.False(t, p.Ready())
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	sink := &mockSink{}
	p := pipeline.New(&mockRenderer{}, sink, nil, slog.Default(), newTestMetrics())

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := p.Run(ctx, specs("a"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.stored)
	assert.False(t, p.Ready())
}

func TestPipeline_Run_PublishRetries(t *testing.T) {
	pub := &mockPublisher{failures: 1}
	metrics := newTestMetrics()

	p := pipeline.New(&mockRenderer{}, &mockSink{}, pub, slog.Default(), metrics)

	sum, err := p.Run(context.Background(), specs("a"))
	require.NoError(t, err)
	assert.Equal(t, 2, pub.calls)
	assert.Equal(t, 1, sum.Published)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PublishErrors), 0)
}

func TestPipeline_Run_SkipsNonFiniteReports(t *testing.T) {
	pub := &mockPublisher{}
	r := &nanRenderer{}

	p := pipeline.New(r, &mockSink{}, pub, slog.Default(), newTestMetrics())

	sum, err := p.Run(context.Background(), specs("a"))
	require.NoError(t, err)
	assert.Zero(t, sum.Published)
	assert.Zero(t, pub.calls)
}

type nanRenderer struct{}

func (nanRenderer) Render(_ context.Context, spec report.ChartSpec) (report.Rendered, error) {
	return report.Rendered{
		Name:     spec.Name,
		Extremes: []domain.ExtremeReport{{ID: "chart-nan", Mean: math.NaN()}},
	}, nil
}
