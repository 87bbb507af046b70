package model

import (
	"time"
)

// ConversationStatus represents the workflow state of a conversation.
type ConversationStatus string

const (
	ConversationStatusNew      ConversationStatus = "new"
	ConversationStatusOngoing  ConversationStatus = "ongoing"
	ConversationStatusResolved ConversationStatus = "resolved"
	ConversationStatusClosed   ConversationStatus = "closed"
)

// AssignmentAction tags an assignment-history entry with the kind of
// change that produced it.
type AssignmentAction string

const (
	AssignmentActionAssigned    AssignmentAction = "assigned"
	AssignmentActionReassigned  AssignmentAction = "reassigned"
	AssignmentActionTransferred AssignmentAction = "transferred"
)

// AssignmentEvent is one entry in a conversation's assignment history.
// The history is append-only; entries are never edited or removed.
type AssignmentEvent struct {
	Action    AssignmentAction `json:"action"`
	FromAgent string           `json:"from_agent,omitempty"`
	ToAgent   string           `json:"to_agent"`
	Reason    string           `json:"reason,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// Activity is a free-form audit entry attached to a conversation.
type Activity struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Agent       string            `json:"agent,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// AuditSource identifies which log an audit entry was read from.
type AuditSource string

const (
	AuditSourceHistory  AuditSource = "history"
	AuditSourceActivity AuditSource = "activity"
)

// AuditEntry is one row of a merged audit view. Exactly one of
// Assignment or Activity is set, matching Source.
type AuditEntry struct {
	Source     AuditSource      `json:"source"`
	Timestamp  time.Time        `json:"timestamp"`
	Assignment *AssignmentEvent `json:"assignment,omitempty"`
	Activity   *Activity        `json:"activity,omitempty"`
}

// Conversation represents a messaging thread with a contact.
type Conversation struct {
	ID              int                `json:"id"`
	ContactID       int                `json:"contact_id"`
	Status          ConversationStatus `json:"status"`
	LastMessage     string             `json:"last_message,omitempty"`
	LastMessageTime *time.Time         `json:"last_message_time,omitempty"`
	UnreadCount     int                `json:"unread_count"`

	AssignedTo      string     `json:"assigned_to,omitempty"`
	AssignedAt      *time.Time `json:"assigned_at,omitempty"`
	ReassignedAt    *time.Time `json:"reassigned_at,omitempty"`
	ReassignedFrom  string     `json:"reassigned_from,omitempty"`
	TransferredAt   *time.Time `json:"transferred_at,omitempty"`
	TransferredFrom string     `json:"transferred_from,omitempty"`

	AssignmentHistory []AssignmentEvent `json:"assignment_history,omitempty"`
	Activities        []Activity        `json:"activities,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityID returns the conversation id.
func (c *Conversation) EntityID() int { return c.ID }

// SetEntityID sets the conversation id.
func (c *Conversation) SetEntityID(id int) { c.ID = id }

// StampCreated records the creation time.
func (c *Conversation) StampCreated(t time.Time) { c.CreatedAt = t }

// StampUpdated records the last modification time.
func (c *Conversation) StampUpdated(t time.Time) { c.UpdatedAt = t }

// Clone returns a deep copy of the conversation, including its audit logs.
func (c *Conversation) Clone() *Conversation {
	cp := *c
	cp.LastMessageTime = cloneTime(c.LastMessageTime)
	cp.AssignedAt = cloneTime(c.AssignedAt)
	cp.ReassignedAt = cloneTime(c.ReassignedAt)
	cp.TransferredAt = cloneTime(c.TransferredAt)
	if c.AssignmentHistory != nil {
		cp.AssignmentHistory = append([]AssignmentEvent(nil), c.AssignmentHistory...)
	}
	if c.Activities != nil {
		cp.Activities = make([]Activity, len(c.Activities))
		for i, a := range c.Activities {
			cp.Activities[i] = a
			if a.Metadata != nil {
				md := make(map[string]string, len(a.Metadata))
				for k, v := range a.Metadata {
					md[k] = v
				}
				cp.Activities[i].Metadata = md
			}
		}
	}
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

// CreateConversationRequest is the request to open a new conversation.
type CreateConversationRequest struct {
	ContactID int                `json:"contact_id"`
	Status    ConversationStatus `json:"status,omitempty"`
}

// AssignmentRequest is the request body for assign, reassign and
// transfer operations.
type AssignmentRequest struct {
	Agent  string `json:"agent"`
	Reason string `json:"reason,omitempty"`
}

// UpdateStatusRequest is the request to change a conversation's status.
type UpdateStatusRequest struct {
	Status ConversationStatus `json:"status"`
	Agent  string             `json:"agent,omitempty"`
}

// AddActivityRequest is the request to append an audit activity.
type AddActivityRequest struct {
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Agent       string            `json:"agent,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// ListConversationsResponse is the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []*Conversation `json:"conversations"`
	Total         int             `json:"total"`
}
