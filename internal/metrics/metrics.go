// Package metrics exposes intake and fan-out counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "intake"

// IntakeMetrics implements both the registrar recorder and the dispatch observer.
type IntakeMetrics struct {
	registrations    *prometheus.CounterVec
	billingItems     *prometheus.CounterVec
	dispatches       *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
}

func NewIntakeMetrics(registerer prometheus.Registerer) *IntakeMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	registrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Facility and equipment registrations by outcome.",
	}, []string{"entity", "result"})

	billingItems := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "billing_items_total",
		Help:      "Billing ledger rows written.",
	}, []string{"item_type"})

	dispatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatch_total",
		Help:      "Fan-out delivery attempts by target and result.",
	}, []string{"target", "result"})

	dispatchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dispatch_duration_seconds",
		Help:      "Fan-out delivery latency per target.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"target"})

	registerer.MustRegister(registrations, billingItems, dispatches, dispatchDuration)

	return &IntakeMetrics{
		registrations:    registrations,
		billingItems:     billingItems,
		dispatches:       dispatches,
		dispatchDuration: dispatchDuration,
	}
}

func (m *IntakeMetrics) ObserveRegistration(entity, result string) {
	m.registrations.WithLabelValues(entity, result).Inc()
}

func (m *IntakeMetrics) ObserveBillingItem(itemType string) {
	m.billingItems.WithLabelValues(itemType).Inc()
}

func (m *IntakeMetrics) ObserveDispatch(target string, succeeded bool, elapsed time.Duration) {
	result := "success"
	if !succeeded {
		result = "failure"
	}
	m.dispatches.WithLabelValues(target, result).Inc()
	m.dispatchDuration.WithLabelValues(target).Observe(elapsed.Seconds())
}
