package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveLoad("DIGITEL", 20*time.Millisecond, 42)
	m.IncrementAnalysis("bts", "ok")
	m.IncrementAnalysis("bts", "ok")
	m.IncrementCache(true)
	m.IncrementCache(false)
	m.IncrementCache(false)

	assert.Equal(t, 42.0, testutil.ToFloat64(m.RecordsNormalized.WithLabelValues("DIGITEL")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Analyses.WithLabelValues("bts", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveLoad("MOVISTAR", time.Second, 1)
		m.IncrementAnalysis("contacts", "error")
		m.IncrementCache(true)
	})
}
