package model

import (
	"time"
)

// Feature is a per-client access flag toggled from the admin panel.
type Feature struct {
	ID        int       `json:"id"`
	ClientID  int       `json:"client_id"`
	Key       string    `json:"key"`
	Enabled   bool      `json:"enabled"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityID returns the feature id.
func (f *Feature) EntityID() int { return f.ID }

// SetEntityID sets the feature id.
func (f *Feature) SetEntityID(id int) { f.ID = id }

// StampUpdated records the last modification time.
func (f *Feature) StampUpdated(t time.Time) { f.UpdatedAt = t }

// Clone returns a copy of the feature flag.
func (f *Feature) Clone() *Feature {
	cp := *f
	return &cp
}

// SetFeatureRequest is the request to toggle a feature flag.
type SetFeatureRequest struct {
	ClientID int    `json:"client_id"`
	Key      string `json:"key"`
	Enabled  bool   `json:"enabled"`
}

// ListFeaturesResponse is the response for listing feature flags.
type ListFeaturesResponse struct {
	Features []*Feature `json:"features"`
	Total    int        `json:"total"`
}
