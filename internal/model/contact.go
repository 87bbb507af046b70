// Package model defines data structures for the CRM platform.
package model

import (
	"time"
)

// LeadStatus represents where a contact sits in the sales funnel.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusProposal  LeadStatus = "proposal"
	LeadStatusClosed    LeadStatus = "closed"
)

// Priority represents contact follow-up priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Contact represents a CRM contact.
type Contact struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	LeadStatus    LeadStatus `json:"lead_status,omitempty"`
	Priority      Priority   `json:"priority,omitempty"`
	AssignedTo    string     `json:"assigned_to,omitempty"`
	PipelineStage string     `json:"pipeline_stage,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

// EntityID returns the contact id.
func (c *Contact) EntityID() int { return c.ID }

// SetEntityID sets the contact id.
func (c *Contact) SetEntityID(id int) { c.ID = id }

// StampCreated records the creation time.
func (c *Contact) StampCreated(t time.Time) { c.CreatedAt = t }

// StampUpdated records the last modification time.
func (c *Contact) StampUpdated(t time.Time) { c.UpdatedAt = t }

// Clone returns a deep copy of the contact.
func (c *Contact) Clone() *Contact {
	cp := *c
	if c.Tags != nil {
		cp.Tags = append([]string(nil), c.Tags...)
	}
	if c.LastMessageAt != nil {
		t := *c.LastMessageAt
		cp.LastMessageAt = &t
	}
	return &cp
}

// CreateContactRequest is the request to create a new contact.
type CreateContactRequest struct {
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	LeadStatus    LeadStatus `json:"lead_status,omitempty"`
	Priority      Priority   `json:"priority,omitempty"`
	AssignedTo    string     `json:"assigned_to,omitempty"`
	PipelineStage string     `json:"pipeline_stage,omitempty"`
}

// UpdateContactRequest is the request to update a contact. Zero-valued
// fields are left untouched.
type UpdateContactRequest struct {
	Name          string     `json:"name,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Email         string     `json:"email,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	LeadStatus    LeadStatus `json:"lead_status,omitempty"`
	Priority      Priority   `json:"priority,omitempty"`
	AssignedTo    string     `json:"assigned_to,omitempty"`
	PipelineStage string     `json:"pipeline_stage,omitempty"`
}

// ListContactsResponse is the response for listing contacts.
type ListContactsResponse struct {
	Contacts []*Contact `json:"contacts"`
	Total    int        `json:"total"`
}
