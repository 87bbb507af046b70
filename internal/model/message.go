package model

import (
	"time"
)

// MessageStatus represents the delivery state of an outgoing message.
// The store never advances a message through the sent -> delivered ->
// read ladder on its own; only MarkAsRead moves incoming messages.
type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
)

// Message represents a single message within a conversation.
type Message struct {
	ID             int           `json:"id"`
	ConversationID int           `json:"conversation_id"`
	Text           string        `json:"text,omitempty"`
	MediaURL       string        `json:"media_url,omitempty"`
	IsIncoming     bool          `json:"is_incoming"`
	Status         MessageStatus `json:"status"`
	Timestamp      time.Time     `json:"timestamp"`
}

// EntityID returns the message id.
func (m *Message) EntityID() int { return m.ID }

// SetEntityID sets the message id.
func (m *Message) SetEntityID(id int) { m.ID = id }

// Clone returns a copy of the message.
func (m *Message) Clone() *Message {
	cp := *m
	return &cp
}

// SendMessageRequest is the request to send a new message.
type SendMessageRequest struct {
	Text       string `json:"text,omitempty"`
	MediaURL   string `json:"media_url,omitempty"`
	IsIncoming bool   `json:"is_incoming"`
}

// ListMessagesResponse is the response for listing messages.
type ListMessagesResponse struct {
	Messages []*Message `json:"messages"`
	Total    int        `json:"total"`
}
