package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"group-verify-bot/internal/models"
)

// StatsSource reports current registry sizes
type StatsSource interface {
	Stats() models.RegistryStats
}

// Metrics holds all Prometheus metrics for the bot. Each instance owns its
// registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	MessagesInspected     prometheus.Counter
	MessagesDeleted       *prometheus.CounterVec
	WarningsSent          prometheus.Counter
	ApplicationsSubmitted prometheus.Counter
	Decisions             *prometheus.CounterVec
	DeliveryFailures      *prometheus.CounterVec
}

// New creates and registers all metrics
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		MessagesInspected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "verifybot_group_messages_inspected_total",
			Help: "Total number of group messages from unverified users inspected by the guard",
		}),
		MessagesDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verifybot_group_messages_deleted_total",
			Help: "Total number of group messages deleted by the guard",
		}, []string{"reason"}),
		WarningsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "verifybot_warnings_sent_total",
			Help: "Total number of verification warnings posted to the group",
		}),
		ApplicationsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "verifybot_applications_submitted_total",
			Help: "Total number of verification applications filed",
		}),
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verifybot_admin_decisions_total",
			Help: "Total number of admin decisions by outcome",
		}, []string{"decision", "result"}),
		DeliveryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verifybot_delivery_failures_total",
			Help: "Total number of failed outbound calls by operation",
		}, []string{"operation"}),
	}

	m.registry.MustRegister(
		m.MessagesInspected,
		m.MessagesDeleted,
		m.WarningsSent,
		m.ApplicationsSubmitted,
		m.Decisions,
		m.DeliveryFailures,
	)
	return m
}

// RegisterRegistryGauges exposes the registry sizes as gauges
func (m *Metrics) RegisterRegistryGauges(source StatsSource) {
	gauge := func(name, help string, value func(models.RegistryStats) int) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, func() float64 {
			return float64(value(source.Stats()))
		})
	}

	m.registry.MustRegister(
		gauge("verifybot_users_verified", "Current number of verified users",
			func(s models.RegistryStats) int { return s.Verified }),
		gauge("verifybot_users_blocked", "Current number of blocked users",
			func(s models.RegistryStats) int { return s.Blocked }),
		gauge("verifybot_users_pending", "Current number of pending applications",
			func(s models.RegistryStats) int { return s.Pending }),
	)
}

// Handler returns the scrape handler for this instance
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncrementInspected increments the inspected messages counter
func (m *Metrics) IncrementInspected() {
	m.MessagesInspected.Inc()
}

// IncrementDeleted increments the deleted messages counter for a reason
func (m *Metrics) IncrementDeleted(reason string) {
	m.MessagesDeleted.WithLabelValues(reason).Inc()
}

// IncrementWarnings increments the warnings counter
func (m *Metrics) IncrementWarnings() {
	m.WarningsSent.Inc()
}

// IncrementSubmitted increments the submitted applications counter
func (m *Metrics) IncrementSubmitted() {
	m.ApplicationsSubmitted.Inc()
}

// IncrementDecision records an admin decision and whether it found a record
func (m *Metrics) IncrementDecision(decision, result string) {
	m.Decisions.WithLabelValues(decision, result).Inc()
}

// IncrementDeliveryFailure records a failed outbound call
func (m *Metrics) IncrementDeliveryFailure(operation string) {
	m.DeliveryFailures.WithLabelValues(operation).Inc()
}
