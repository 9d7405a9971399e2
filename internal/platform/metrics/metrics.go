// Package metrics defines the Prometheus instruments for profile operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for profile reads and updates.
type Metrics struct {
	// Profile reads by outcome
	ProfileReads *prometheus.CounterVec

	// Profile updates by outcome and upsert branch
	ProfileUpdates *prometheus.CounterVec

	// Update transaction latency
	UpdateLatency prometheus.Histogram

	// Connected alert stream subscribers
	AlertSubscribers prometheus.Gauge
}

// New registers all profile metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProfileReads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_profile_reads_total",
			Help: "Total profile reads by outcome",
		}, []string{"outcome"}), // outcome: "found", "not_found", "error"

		ProfileUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_profile_updates_total",
			Help: "Total profile updates by outcome and extended record branch",
		}, []string{"outcome", "branch"}), // branch: "insert", "update", "none"

		UpdateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kyc_profile_update_duration_seconds",
			Help:    "Duration of the profile update transaction",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		AlertSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "kyc_alert_subscribers",
			Help: "Number of connected alert stream subscribers",
		}),
	}
}

// IncrementRead records a profile read outcome.
func (m *Metrics) IncrementRead(outcome string) {
	if m != nil {
		m.ProfileReads.WithLabelValues(outcome).Inc()
	}
}

// IncrementUpdate records a profile update outcome.
func (m *Metrics) IncrementUpdate(outcome, branch string) {
	if m != nil {
		m.ProfileUpdates.WithLabelValues(outcome, branch).Inc()
	}
}

// ObserveUpdateLatency records the duration of an update transaction.
func (m *Metrics) ObserveUpdateLatency(d time.Duration) {
	if m != nil {
		m.UpdateLatency.Observe(d.Seconds())
	}
}

// SubscriberConnected tracks an alert stream connecting.
func (m *Metrics) SubscriberConnected() {
	if m != nil {
		m.AlertSubscribers.Inc()
	}
}

// SubscriberDisconnected tracks an alert stream closing.
func (m *Metrics) SubscriberDisconnected() {
	if m != nil {
		m.AlertSubscribers.Dec()
	}
}
