// Package metrics holds the Prometheus instruments for loading and analysing
// carrier exports.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the analysis service.
type Metrics struct {
	// Export load latency by carrier
	LoadLatency *prometheus.HistogramVec

	// Records normalized by carrier
	RecordsNormalized *prometheus.CounterVec

	// Analyses run by kind ("bts", "contacts") and outcome
	Analyses *prometheus.CounterVec

	// Normalized-batch cache lookups by result ("hit", "miss")
	CacheLookups *prometheus.CounterVec
}

// New registers the instruments with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		LoadLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cdr_load_duration_seconds",
			Help:    "Duration of reading and normalizing one carrier export",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"carrier"}),

		RecordsNormalized: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cdr_records_normalized_total",
			Help: "Total records produced by the normalizer by carrier",
		}, []string{"carrier"}),

		Analyses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cdr_analyses_total",
			Help: "Total analyses by kind and outcome",
		}, []string{"kind", "outcome"}),

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cdr_batch_cache_lookups_total",
			Help: "Normalized batch cache lookups by result",
		}, []string{"result"}),
	}
}

// ObserveLoad records the time taken to load one export and its size.
func (m *Metrics) ObserveLoad(carrier string, d time.Duration, records int) {
	if m != nil {
		m.LoadLatency.WithLabelValues(carrier).Observe(d.Seconds())
		m.RecordsNormalized.WithLabelValues(carrier).Add(float64(records))
	}
}

// IncrementAnalysis records an analysis outcome: "ok", "empty" or "error".
func (m *Metrics) IncrementAnalysis(kind, outcome string) {
	if m != nil {
		m.Analyses.WithLabelValues(kind, outcome).Inc()
	}
}

// IncrementCache records a cache hit or miss.
func (m *Metrics) IncrementCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
