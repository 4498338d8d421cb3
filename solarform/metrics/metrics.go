// Package metrics exposes Prometheus counters for the lead form.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// FormMetrics counts wizard traffic and relay deliveries.
type FormMetrics struct {
	stepTotal       *prometheus.CounterVec
	validationTotal *prometheus.CounterVec
	submitTotal     *prometheus.CounterVec
	relayLatency    *prometheus.HistogramVec
}

func NewFormMetrics(reg prometheus.Registerer) *FormMetrics {
	m := &FormMetrics{
		stepTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solarform",
			Subsystem: "wizard",
			Name:      "step_total",
			Help:      "Step transitions by variant, step left and direction",
		}, []string{"variant", "step", "direction"}),
		validationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solarform",
			Subsystem: "wizard",
			Name:      "validation_failures_total",
			Help:      "Validation failures by variant and field",
		}, []string{"variant", "field"}),
		submitTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solarform",
			Subsystem: "relay",
			Name:      "submissions_total",
			Help:      "Relay submissions by variant and outcome",
		}, []string{"variant", "outcome"}),
		relayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "solarform",
			Subsystem: "relay",
			Name:      "latency_seconds",
			Help:      "Latency of relay POSTs",
			Buckets:   prometheus.DefBuckets,
		}, []string{"variant"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.stepTotal, m.validationTotal, m.submitTotal, m.relayLatency)
	return m
}

// ObserveStep records a move away from step; direction is "next" or "back".
func (m *FormMetrics) ObserveStep(variant string, step int, direction string) {
	if m == nil {
		return
	}
	m.stepTotal.WithLabelValues(variant, stepLabel(step), direction).Inc()
}

func (m *FormMetrics) ObserveValidationFailure(variant, field string) {
	if m == nil {
		return
	}
	m.validationTotal.WithLabelValues(variant, field).Inc()
}

// ObserveSubmission records the outcome ("success", "failure", "spam") of a
// submission.
func (m *FormMetrics) ObserveSubmission(variant, outcome string) {
	if m == nil {
		return
	}
	m.submitTotal.WithLabelValues(variant, outcome).Inc()
}

// ObserveRelayLatency records how long one POST to the relay took, queue
// wait excluded.
func (m *FormMetrics) ObserveRelayLatency(variant string, seconds float64) {
	if m == nil {
		return
	}
	m.relayLatency.WithLabelValues(variant).Observe(seconds)
}

func stepLabel(step int) string {
	if step < 1 || step > 9 {
		return "unknown"
	}
	return strconv.Itoa(step)
}
