// internal/metrics/metrics_test.go
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ScanCycle()
		m.ScanError("apply")
		m.SetScanState(1)
		m.VariableSet()
		m.Inbound("written")
		m.Malformed(2)
		m.Published()
		m.Suppress()
		m.PublishFailed()
		m.StoreError("inbound-state", "read")
	})
}

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Published()
	m.Suppress()
	m.Suppress()
	m.Inbound("rejected")
	m.SetScanState(2)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Publications))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Suppressed))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.InboundResults.WithLabelValues("rejected")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ScanState))
}
