package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, family := range families {
		byName[family.GetName()] = family
	}
	return byName
}

func TestUpstreamMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewUpstreamMetrics(reg)

	m.ObserveDuration("list_orders", 120*time.Millisecond)
	m.IncFailure("list_orders", "status")
	m.IncFailure("", "")

	families := gather(t, reg)

	duration, ok := families["upstream_request_duration_seconds"]
	if !ok {
		t.Fatal("duration histogram not registered")
	}
	if got := duration.GetMetric()[0].GetHistogram().GetSampleCount(); got != 1 {
		t.Fatalf("sample count = %d, want 1", got)
	}

	failures, ok := families["upstream_request_failures"]
	if !ok {
		t.Fatal("failure counter not registered")
	}
	if len(failures.GetMetric()) != 2 {
		t.Fatalf("expected 2 labelled series, got %d", len(failures.GetMetric()))
	}
	// Empty labels normalize to "unknown" instead of producing blank series.
	seen := false
	for _, metric := range failures.GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetValue() == "unknown" {
				seen = true
			}
			if label.GetValue() == "" {
				t.Fatal("blank label value leaked")
			}
		}
	}
	if !seen {
		t.Fatal("expected an unknown-labelled series")
	}
}

func TestCartMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewCartMetrics(reg)

	for i := 0; i < 5; i++ {
		m.IncEdit()
	}
	m.IncCommit()

	families := gather(t, reg)
	if got := families["cart_quantity_edits"].GetMetric()[0].GetCounter().GetValue(); got != 5 {
		t.Fatalf("edits = %v, want 5", got)
	}
	if got := families["cart_quantity_commits"].GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("commits = %v, want 1", got)
	}
}

func TestNilReceiversAreSafe(t *testing.T) {
	t.Parallel()

	var upstream *UpstreamMetrics
	upstream.ObserveDuration("x", time.Second)
	upstream.IncFailure("x", "y")

	var cart *CartMetrics
	cart.IncEdit()
	cart.IncCommit()

	var payment *PaymentMetrics
	payment.IncOutcome("1", "finalized")

	// Unregistered bundles are also inert.
	NewUpstreamMetrics(nil).IncFailure("x", "y")
	NewCartMetrics(nil).IncEdit()
	NewPaymentMetrics(nil).IncOutcome("1", "failed")
}
