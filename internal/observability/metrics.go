package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "climviz"

// Metrics holds the Prometheus collectors for chart rendering and the web demo.
type Metrics struct {
	ChartsRendered *prometheus.CounterVec   // labels: kind
	RenderErrors   *prometheus.CounterVec   // labels: kind
	RenderDuration *prometheus.HistogramVec // labels: kind

	ExtremesPublished prometheus.Counter
	PublishErrors     prometheus.Counter
	PipelineRunning   prometheus.Gauge

	PageCache   *prometheus.CounterVec // labels: result={hit,miss}
	Checkouts   *prometheus.CounterVec // labels: outcome={selected,empty}
	RateLimited prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		ChartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_rendered_total",
			Help:      "Charts rendered by kind.",
		}, []string{"kind"}),
		RenderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Chart render failures by kind.",
		}, []string{"kind"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time to build and render one chart.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"kind"}),
		ExtremesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extremes_published_total",
			Help:      "Extremes reports written to the report topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed attempts to publish extremes reports.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a report run is in progress.",
		}),
		PageCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_cache_total",
			Help:      "Explore page cache lookups by result.",
		}, []string{"result"}),
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Fruit store checkouts by outcome.",
		}, []string{"outcome"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the checkout rate limiter.",
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ChartsRendered,
		m.RenderErrors,
		m.RenderDuration,
		m.ExtremesPublished,
		m.PublishErrors,
		m.PipelineRunning,
		m.PageCache,
		m.Checkouts,
		m.RateLimited,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics so tests can build as many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
