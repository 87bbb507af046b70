// Package events publishes conversation audit events.
package events

import (
	"context"
	"time"
)

// Kind tags an audit event with the operation that produced it.
type Kind string

const (
	KindAssigned      Kind = "assigned"
	KindReassigned    Kind = "reassigned"
	KindTransferred   Kind = "transferred"
	KindStatusChanged Kind = "status_changed"
	KindActivity      Kind = "activity"
)

// AuditEvent is the wire payload published for conversation changes.
type AuditEvent struct {
	ConversationID int       `json:"conversation_id"`
	Kind           Kind      `json:"kind"`
	FromAgent      string    `json:"from_agent,omitempty"`
	ToAgent        string    `json:"to_agent,omitempty"`
	Status         string    `json:"status,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Publisher delivers audit events to interested consumers. Publishing
// is best-effort from the caller's point of view; services log and
// continue on failure.
type Publisher interface {
	PublishAudit(ctx context.Context, ev *AuditEvent) error
}

// Noop is a Publisher that discards every event. Used when events are
// disabled and in tests.
type Noop struct{}

// PublishAudit implements Publisher.
func (Noop) PublishAudit(context.Context, *AuditEvent) error { return nil }
