package metrics

import "github.com/prometheus/client_golang/prometheus"

// NotificationMetrics counts email enqueue attempts.
type NotificationMetrics struct {
	enqueued *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewNotificationMetrics registers the notification metrics on the provided registerer.
func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	if reg == nil {
		return &NotificationMetrics{}
	}
	enqueued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_enqueued_total",
		Help: "Emails handed to the task queue.",
	}, []string{"kind"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_failures_total",
		Help: "Emails that could not be handed to the task queue.",
	}, []string{"kind"})
	reg.MustRegister(enqueued, failures)
	return &NotificationMetrics{enqueued: enqueued, failures: failures}
}

func (n *NotificationMetrics) IncEnqueued(kind string) {
	if n == nil || n.enqueued == nil {
		return
	}
	n.enqueued.WithLabelValues(normalizeLabel(kind)).Inc()
}

func (n *NotificationMetrics) IncFailure(kind string) {
	if n == nil || n.failures == nil {
		return
	}
	n.failures.WithLabelValues(normalizeLabel(kind)).Inc()
}
