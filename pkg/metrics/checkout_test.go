package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCheckoutMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCheckoutMetrics(reg)
	metrics.ObserveRun("sale", OutcomeSucceeded, 250*time.Millisecond)
	metrics.ObserveRun("sale", OutcomeSucceeded, 100*time.Millisecond)
	metrics.IncClamp("dp")
	metrics.IncBreakerTransition("open")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "checkout_runs_total", "outcome", OutcomeSucceeded); err != nil {
		t.Fatalf("fetch runs: %v", err)
	} else if got != 2 {
		t.Fatalf("expected runs=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "adjustment_clamps_total", "field", "dp"); err != nil {
		t.Fatalf("fetch clamps: %v", err)
	} else if got != 1 {
		t.Fatalf("expected clamps=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "backend_breaker_transitions_total", "to", "open"); err != nil {
		t.Fatalf("fetch breaker: %v", err)
	} else if got != 1 {
		t.Fatalf("expected breaker transitions=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "checkout_duration_seconds", "kind", "sale"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestNilCheckoutMetricsIsNoop(t *testing.T) {
	var nilMetrics *CheckoutMetrics
	nilMetrics.ObserveRun("sale", OutcomeFailed, time.Second)
	nilMetrics.IncClamp("nego")

	unregistered := NewCheckoutMetrics(nil)
	unregistered.ObserveRun("rental", OutcomeDeclined, time.Second)
	unregistered.IncBreakerTransition("half-open")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
