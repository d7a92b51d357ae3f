// Package metrics exposes Prometheus counters for the notification
// pipeline and an HTTP handler to scrape them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all pipeline counters. Register it once on a Registerer
// and share the instance.
type Metrics struct {
	registry *prometheus.Registry

	NotificationsPersisted prometheus.Counter
	PushesDelivered        prometheus.Counter
	PushesDropped          prometheus.Counter
	SessionsEvicted        prometheus.Counter
	ReminderPasses         prometheus.Counter
	ReminderUserFailures   prometheus.Counter
	QueuePublishFailures   prometheus.Counter
}

// New builds and registers the counter set on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		NotificationsPersisted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nutriguide_notifications_persisted_total",
			Help: "Notifications durably written to the store.",
		}),
		PushesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nutriguide_pushes_delivered_total",
			Help: "Realtime payloads accepted by a session buffer.",
		}),
		PushesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nutriguide_pushes_dropped_total",
			Help: "Realtime payloads dropped because a session buffer was full.",
		}),
		SessionsEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nutriguide_sessions_evicted_total",
			Help: "Sessions cancelled after repeatedly failing to drain.",
		}),
		ReminderPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nutriguide_reminder_passes_total",
			Help: "Reminder evaluation passes that actually ran.",
		}),
		ReminderUserFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nutriguide_reminder_user_failures_total",
			Help: "Per-user failures during a reminder pass.",
		}),
		QueuePublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nutriguide_queue_publish_failures_total",
			Help: "Failed pushes of notification events onto the Redis queue.",
		}),
	}
	reg.MustRegister(
		m.NotificationsPersisted,
		m.PushesDelivered,
		m.PushesDropped,
		m.SessionsEvicted,
		m.ReminderPasses,
		m.ReminderUserFailures,
		m.QueuePublishFailures,
	)
	return m
}

// Handler returns the scrape endpoint for this metric set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
