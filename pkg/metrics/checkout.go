package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Checkout outcome labels.
const (
	OutcomeSatisfied = "satisfied"
	OutcomeShort     = "short"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// CheckoutMetrics records checkout attempts and their outcomes.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, outcomes)
	return &CheckoutMetrics{
		duration: duration,
		outcomes: outcomes,
	}
}

// Observe records one checkout attempt with its outcome and duration.
func (c *CheckoutMetrics) Observe(outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	if c.outcomes != nil {
		c.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
	}
	if c.duration != nil {
		c.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
	}
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
