package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Checkout outcomes.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeDeclined  = "declined"
	OutcomeInvalid   = "invalid"
	OutcomeBusy      = "busy"
)

// CheckoutMetrics records checkout runs and adjustment clamps.
type CheckoutMetrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	clamps   *prometheus.CounterVec
	breaker  *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_runs_total",
		Help: "Checkout runs by draft kind and outcome.",
	}, []string{"kind", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	clamps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "adjustment_clamps_total",
		Help: "Adjustments corrected back into their legal range.",
	}, []string{"field"})
	breaker := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backend_breaker_transitions_total",
		Help: "Backend circuit breaker state transitions.",
	}, []string{"to"})
	reg.MustRegister(runs, duration, clamps, breaker)
	return &CheckoutMetrics{
		runs:     runs,
		duration: duration,
		clamps:   clamps,
		breaker:  breaker,
	}
}

// ObserveRun records one checkout run.
func (c *CheckoutMetrics) ObserveRun(kind, outcome string, duration time.Duration) {
	if c == nil || c.runs == nil {
		return
	}
	c.runs.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
	c.duration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

// IncClamp counts one correction of field.
func (c *CheckoutMetrics) IncClamp(field string) {
	if c == nil || c.clamps == nil {
		return
	}
	c.clamps.WithLabelValues(normalizeLabel(field)).Inc()
}

// IncBreakerTransition counts a breaker moving to state.
func (c *CheckoutMetrics) IncBreakerTransition(state string) {
	if c == nil || c.breaker == nil {
		return
	}
	c.breaker.WithLabelValues(normalizeLabel(state)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
