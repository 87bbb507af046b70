package model

import (
	"time"
)

// ClientStatus represents a client workspace's account state.
type ClientStatus string

const (
	ClientStatusActive    ClientStatus = "active"
	ClientStatusTrial     ClientStatus = "trial"
	ClientStatusSuspended ClientStatus = "suspended"
)

// Client represents a customer workspace managed through the admin panel.
type Client struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Phone     string       `json:"phone,omitempty"`
	Plan      string       `json:"plan"`
	Status    ClientStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// EntityID returns the client id.
func (c *Client) EntityID() int { return c.ID }

// SetEntityID sets the client id.
func (c *Client) SetEntityID(id int) { c.ID = id }

// StampCreated records the creation time.
func (c *Client) StampCreated(t time.Time) { c.CreatedAt = t }

// StampUpdated records the last modification time.
func (c *Client) StampUpdated(t time.Time) { c.UpdatedAt = t }

// Clone returns a copy of the client.
func (c *Client) Clone() *Client {
	cp := *c
	return &cp
}

// CreateClientRequest is the request to register a client workspace.
type CreateClientRequest struct {
	Name   string       `json:"name"`
	Email  string       `json:"email"`
	Phone  string       `json:"phone,omitempty"`
	Plan   string       `json:"plan,omitempty"`
	Status ClientStatus `json:"status,omitempty"`
}

// UpdateClientRequest is the request to update a client. Zero-valued
// fields are left untouched.
type UpdateClientRequest struct {
	Name   string       `json:"name,omitempty"`
	Email  string       `json:"email,omitempty"`
	Phone  string       `json:"phone,omitempty"`
	Plan   string       `json:"plan,omitempty"`
	Status ClientStatus `json:"status,omitempty"`
}

// ListClientsResponse is the response for listing clients.
type ListClientsResponse struct {
	Clients []*Client `json:"clients"`
	Total   int       `json:"total"`
}
