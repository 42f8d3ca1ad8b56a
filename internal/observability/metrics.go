package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "climate_canvas"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard service.
type Metrics struct {
	// Series and forecast metrics.
	SeriesCache       *prometheus.CounterVec // labels: result={hit,miss}
	SeriesGenerated   prometheus.Counter
	ForecastsComputed prometheus.Counter
	FittingErrors     prometheus.Counter

	// Inference metrics.
	InferenceRequests *prometheus.CounterVec   // labels: task={summarize,answer}, outcome={success,error}
	InferenceDuration *prometheus.HistogramVec // labels: task={summarize,answer}
	AIEnabled         prometheus.Gauge

	// Region data metrics.
	RegionSourceLoads *prometheus.CounterVec // labels: source, outcome={found,not_found,error}

	// Forecast publishing metrics.
	ForecastsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.SeriesCache,
		m.SeriesGenerated,
		m.ForecastsComputed,
		m.FittingErrors,
		m.InferenceRequests,
		m.InferenceDuration,
		m.AIEnabled,
		m.RegionSourceLoads,
		m.ForecastsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SeriesCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "series_cache_total",
			Help:      "Series cache lookups by result.",
		}, []string{"result"}),
		SeriesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "series_generated_total",
			Help:      "Total synthetic series generated.",
		}),
		ForecastsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecasts_computed_total",
			Help:      "Total CO2 forecasts computed.",
		}),
		FittingErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fitting_errors_total",
			Help:      "Total forecasts rejected because the trend could not be fitted.",
		}),
		InferenceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_requests_total",
			Help:      "Remote inference requests by task and outcome.",
		}, []string{"task", "outcome"}),
		InferenceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_duration_seconds",
			Help:      "Remote inference request duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"task"}),
		AIEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ai_enabled",
			Help:      "1 when an inference backend is configured, 0 otherwise.",
		}),
		RegionSourceLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "region_source_loads_total",
			Help:      "Region data source attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		ForecastsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecasts_published_total",
			Help:      "Total forecast reports written to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Total forecast reports that failed to publish.",
		}),
	}
}
