// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ContactsCreatedTotal tracks contacts created.
	ContactsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_contacts_created_total",
			Help: "Total contacts created",
		},
	)

	// ConversationsCreatedTotal tracks conversations opened.
	ConversationsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_conversations_created_total",
			Help: "Total conversations created",
		},
	)

	// MessagesTotal tracks messages by direction.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_messages_total",
			Help: "Total messages recorded",
		},
		[]string{"direction"},
	)

	// AssignmentChangesTotal tracks assignment changes by action.
	AssignmentChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_assignment_changes_total",
			Help: "Total conversation assignment changes",
		},
		[]string{"action"},
	)

	// StatusChangesTotal tracks conversation status changes.
	StatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_status_changes_total",
			Help: "Total conversation status changes",
		},
		[]string{"status"},
	)

	// TemplateRendersTotal tracks template renders.
	TemplateRendersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_template_renders_total",
			Help: "Total template renders",
		},
	)

	// AuditEventsPublished tracks audit events published per kind.
	AuditEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_audit_events_published_total",
			Help: "Total audit events published",
		},
		[]string{"kind"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordMessage records a message by direction.
func RecordMessage(incoming bool) {
	direction := "outgoing"
	if incoming {
		direction = "incoming"
	}
	MessagesTotal.WithLabelValues(direction).Inc()
}

// RecordAssignmentChange records an assignment change by action.
func RecordAssignmentChange(action string) {
	AssignmentChangesTotal.WithLabelValues(action).Inc()
}
