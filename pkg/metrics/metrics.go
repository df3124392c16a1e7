package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics records calls made against the commerce backend.
type UpstreamMetrics struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewUpstreamMetrics registers the upstream call metrics on the provided registerer.
func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	if reg == nil {
		return &UpstreamMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of commerce backend calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_request_failures",
		Help: "Failed commerce backend calls.",
	}, []string{"endpoint", "reason"})
	reg.MustRegister(duration, failures)
	return &UpstreamMetrics{duration: duration, failures: failures}
}

// ObserveDuration records how long the named endpoint call took.
func (u *UpstreamMetrics) ObserveDuration(endpoint string, duration time.Duration) {
	if u == nil || u.duration == nil {
		return
	}
	u.duration.WithLabelValues(normalizeLabel(endpoint)).Observe(duration.Seconds())
}

// IncFailure increments the failure counter for the named endpoint.
func (u *UpstreamMetrics) IncFailure(endpoint, reason string) {
	if u == nil || u.failures == nil {
		return
	}
	u.failures.WithLabelValues(normalizeLabel(endpoint), normalizeLabel(reason)).Inc()
}

// CartMetrics records quantity-debounce behaviour.
type CartMetrics struct {
	edits   prometheus.Counter
	commits prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	edits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_quantity_edits",
		Help: "Quantity edits accepted into the debounce window.",
	})
	commits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_quantity_commits",
		Help: "Coalesced quantity updates dispatched upstream.",
	})
	reg.MustRegister(edits, commits)
	return &CartMetrics{edits: edits, commits: commits}
}

// IncEdit counts one accepted quantity edit.
func (c *CartMetrics) IncEdit() {
	if c == nil || c.edits == nil {
		return
	}
	c.edits.Inc()
}

// IncCommit counts one dispatched quantity commit.
func (c *CartMetrics) IncCommit() {
	if c == nil || c.commits == nil {
		return
	}
	c.commits.Inc()
}

// PaymentMetrics records payment sequence outcomes.
type PaymentMetrics struct {
	outcomes *prometheus.CounterVec
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_sequence_outcomes",
		Help: "Terminal states reached by payment sequences.",
	}, []string{"method", "outcome"})
	reg.MustRegister(outcomes)
	return &PaymentMetrics{outcomes: outcomes}
}

// IncOutcome counts one terminal payment sequence state.
func (p *PaymentMetrics) IncOutcome(method, outcome string) {
	if p == nil || p.outcomes == nil {
		return
	}
	p.outcomes.WithLabelValues(normalizeLabel(method), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
