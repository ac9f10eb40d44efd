package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntakeMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIntakeMetrics(reg)

	m.ObserveRegistration("equipment", "created")
	m.ObserveRegistration("equipment", "created")
	m.ObserveRegistration("facility", "rejected")
	m.ObserveBillingItem("equipment_fee")
	m.ObserveDispatch("automation", false, 120*time.Millisecond)
	m.ObserveDispatch("facilities", true, 30*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.registrations.WithLabelValues("equipment", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registrations.WithLabelValues("facility", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.billingItems.WithLabelValues("equipment_fee")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatches.WithLabelValues("automation", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatches.WithLabelValues("facilities", "success")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "intake_dispatch_duration_seconds")
}

func TestIntakeMetricsRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewIntakeMetrics(reg)
	assert.Panics(t, func() { NewIntakeMetrics(reg) })
}
