package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics lives on its own registry: a single invocation exports it once
// through WriteTextfile instead of serving a scrape endpoint.
type Metrics struct {
	registry *prometheus.Registry

	LookupsTotal *prometheus.CounterVec

	FetchRequestsTotal   *prometheus.CounterVec
	FetchRequestDuration prometheus.Histogram

	StripFallbacksTotal prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		LookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gamelookup_lookups_total",
				Help: "Total number of game lookups by outcome",
			},
			[]string{"outcome"},
		),

		FetchRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gamelookup_fetch_requests_total",
				Help: "Total number of upstream search requests",
			},
			[]string{"status"},
		),
		FetchRequestDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gamelookup_fetch_request_duration_seconds",
				Help:    "Upstream search request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
		),

		StripFallbacksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gamelookup_html_strip_fallbacks_total",
				Help: "Descriptions shown unstripped because HTML parsing failed",
			},
		),
	}
}

// Registry exposes the private registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordLookup(outcome string) {
	m.LookupsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordFetchRequest(status string, duration time.Duration) {
	m.FetchRequestsTotal.WithLabelValues(status).Inc()
	m.FetchRequestDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordStripFallback() {
	m.StripFallbacksTotal.Inc()
}

// WriteTextfile writes all metrics in the text exposition format, suitable
// for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
