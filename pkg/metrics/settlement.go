package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	SettlementProtocolCheckout = "checkout"
	SettlementProtocolManual   = "manual"

	SettlementOutcomeSettled  = "settled"
	SettlementOutcomeNotFound = "not_found"
	SettlementOutcomeConflict = "conflict"
	SettlementOutcomeRejected = "rejected"
	SettlementOutcomeError    = "error"
)

// SettlementMetrics tracks booking promotions by protocol and outcome.
type SettlementMetrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewSettlementMetrics registers the settlement metrics on the provided registerer.
func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	if reg == nil {
		return &SettlementMetrics{}
	}
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_total",
		Help: "Settlement attempts by protocol and outcome.",
	}, []string{"protocol", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "settlement_duration_seconds",
		Help:    "Duration of settlement transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"protocol"})
	reg.MustRegister(total, duration)
	return &SettlementMetrics{total: total, duration: duration}
}

// Observe records one settlement attempt.
func (s *SettlementMetrics) Observe(protocol, outcome string, duration time.Duration) {
	if s == nil || s.total == nil {
		return
	}
	s.total.WithLabelValues(normalizeLabel(protocol), normalizeLabel(outcome)).Inc()
	s.duration.WithLabelValues(normalizeLabel(protocol)).Observe(duration.Seconds())
}
