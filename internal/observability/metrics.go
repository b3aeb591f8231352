package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for rain checks.
type Metrics struct {
	// Upstream MetaWeather metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint={search,location}, outcome={success,remote_error,transport_error}
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint={search,location}
	RateLimitWait    prometheus.Histogram

	// Check metrics.
	Checks           *prometheus.CounterVec // labels: outcome={ok,not_found,too_many,remote_error,error}
	LocationsSkipped prometheus.Counter

	// Report sink metrics.
	ReportsPublished prometheus.Counter
	SinkErrors       prometheus.Counter
	ReportsEnabled   prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.RateLimitWait,
		m.Checks,
		m.LocationsSkipped,
		m.ReportsPublished,
		m.SinkErrors,
		m.ReportsEnabled,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they need without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "will_it_rain",
			Name:      "upstream_requests_total",
			Help:      "MetaWeather API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "will_it_rain",
			Name:      "upstream_duration_seconds",
			Help:      "MetaWeather API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		RateLimitWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "will_it_rain",
			Name:      "rate_limit_wait_seconds",
			Help:      "Time spent waiting for the upstream rate limiter.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5},
		}),
		Checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "will_it_rain",
			Name:      "checks_total",
			Help:      "Rain checks by outcome.",
		}, []string{"outcome"}),
		LocationsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "will_it_rain",
			Name:      "locations_skipped_total",
			Help:      "Resolved locations skipped because they had no forecast for today.",
		}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "will_it_rain",
			Name:      "reports_published_total",
			Help:      "Rain reports written to the report sink.",
		}),
		SinkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "will_it_rain",
			Name:      "sink_errors_total",
			Help:      "Failed report sink writes.",
		}),
		ReportsEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "will_it_rain",
			Name:      "reports_enabled",
			Help:      "1 when the report sink is enabled, 0 otherwise.",
		}),
	}
}
