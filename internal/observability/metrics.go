package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// manifest formatting pipeline.
type Metrics struct {
	RunsTotal     *prometheus.CounterVec // labels: outcome={success,user_error,error}
	RowsRead      prometheus.Counter
	RowsSkipped   prometheus.Counter
	StopsProduced prometheus.Counter
	RunDuration   *prometheus.HistogramVec // labels: format={xlsx,pdf}

	// Postal code lookup metrics.
	LookupRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	LookupCache       *prometheus.CounterVec // labels: result={hit,miss}
	LookupAPIDuration prometheus.Histogram
	LookupEnabled     prometheus.Gauge
	LookupOffline     prometheus.Counter

	PublishErrors prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all pipeline metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.RunsTotal,
		m.RowsRead,
		m.RowsSkipped,
		m.StopsProduced,
		m.RunDuration,
		m.LookupRequests,
		m.LookupCache,
		m.LookupAPIDuration,
		m.LookupEnabled,
		m.LookupOffline,
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
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "route_formatter",
			Name:      "runs_total",
			Help:      "Manifest formatting runs by outcome.",
		}, []string{"outcome"}),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "route_formatter",
			Name:      "rows_read_total",
			Help:      "Package rows read from uploaded manifests.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "route_formatter",
			Name:      "rows_skipped_total",
			Help:      "Package rows dropped for lacking a stop number.",
		}),
		StopsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "route_formatter",
			Name:      "stops_produced_total",
			Help:      "Grouped stop rows written to formatted spreadsheets.",
		}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "route_formatter",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete upload-to-spreadsheet run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"format"}),
		LookupRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "route_formatter",
			Name:      "lookup_requests_total",
			Help:      "Postal code lookup API requests by outcome.",
		}, []string{"outcome"}),
		LookupCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "route_formatter",
			Name:      "lookup_cache_total",
			Help:      "Per-run postal code memo lookups by result.",
		}, []string{"result"}),
		LookupAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "route_formatter",
			Name:      "lookup_api_duration_seconds",
			Help:      "Postal code lookup API request duration in seconds, excluding pacing delay.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		LookupEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "route_formatter",
			Name:      "lookup_enabled",
			Help:      "1 when postal code enrichment is enabled, 0 otherwise.",
		}),
		LookupOffline: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "route_formatter",
			Name:      "lookup_offline_total",
			Help:      "Runs whose enrichment was skipped because the connectivity probe failed.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "route_formatter",
			Name:      "publish_errors_total",
			Help:      "Failed attempts to publish grouped stops to Kafka.",
		}),
	}
}
