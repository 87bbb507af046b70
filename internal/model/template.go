package model

import (
	"time"
)

// TemplateType selects which type-specific payload a template carries.
type TemplateType string

const (
	TemplateTypeText        TemplateType = "text"
	TemplateTypeMedia       TemplateType = "media"
	TemplateTypeInteractive TemplateType = "interactive"
	TemplateTypeLocation    TemplateType = "location"
	TemplateTypeContact     TemplateType = "contact"
)

// MediaPayload holds the media attachment of a media template.
type MediaPayload struct {
	URL      string `json:"url"`
	Caption  string `json:"caption,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

// InteractivePayload holds buttons for an interactive template.
type InteractivePayload struct {
	Header  string   `json:"header,omitempty"`
	Footer  string   `json:"footer,omitempty"`
	Buttons []string `json:"buttons,omitempty"`
}

// LocationPayload holds a location pin for a location template.
type LocationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// ContactPayload holds a shared contact card.
type ContactPayload struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Template represents a reusable message template. Content may contain
// {{variable}} placeholders; Variables is derived from Content and is
// recomputed whenever Content changes.
type Template struct {
	ID          int                 `json:"id"`
	Name        string              `json:"name"`
	Content     string              `json:"content"`
	Category    string              `json:"category,omitempty"`
	Type        TemplateType        `json:"type"`
	Variables   []string            `json:"variables,omitempty"`
	Media       *MediaPayload       `json:"media,omitempty"`
	Interactive *InteractivePayload `json:"interactive,omitempty"`
	Location    *LocationPayload    `json:"location,omitempty"`
	Contact     *ContactPayload     `json:"contact,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// EntityID returns the template id.
func (t *Template) EntityID() int { return t.ID }

// SetEntityID sets the template id.
func (t *Template) SetEntityID(id int) { t.ID = id }

// StampCreated records the creation time.
func (t *Template) StampCreated(ts time.Time) { t.CreatedAt = ts }

// StampUpdated records the last modification time.
func (t *Template) StampUpdated(ts time.Time) { t.UpdatedAt = ts }

// Clone returns a deep copy of the template.
func (t *Template) Clone() *Template {
	cp := *t
	if t.Variables != nil {
		cp.Variables = append([]string(nil), t.Variables...)
	}
	if t.Media != nil {
		m := *t.Media
		cp.Media = &m
	}
	if t.Interactive != nil {
		i := *t.Interactive
		if i.Buttons != nil {
			i.Buttons = append([]string(nil), t.Interactive.Buttons...)
		}
		cp.Interactive = &i
	}
	if t.Location != nil {
		l := *t.Location
		cp.Location = &l
	}
	if t.Contact != nil {
		c := *t.Contact
		cp.Contact = &c
	}
	return &cp
}

// CreateTemplateRequest is the request to create a template.
type CreateTemplateRequest struct {
	Name        string              `json:"name"`
	Content     string              `json:"content"`
	Category    string              `json:"category,omitempty"`
	Type        TemplateType        `json:"type,omitempty"`
	Media       *MediaPayload       `json:"media,omitempty"`
	Interactive *InteractivePayload `json:"interactive,omitempty"`
	Location    *LocationPayload    `json:"location,omitempty"`
	Contact     *ContactPayload     `json:"contact,omitempty"`
}

// UpdateTemplateRequest is the request to update a template. Zero-valued
// fields are left untouched.
type UpdateTemplateRequest struct {
	Name        string              `json:"name,omitempty"`
	Content     string              `json:"content,omitempty"`
	Category    string              `json:"category,omitempty"`
	Type        TemplateType        `json:"type,omitempty"`
	Media       *MediaPayload       `json:"media,omitempty"`
	Interactive *InteractivePayload `json:"interactive,omitempty"`
	Location    *LocationPayload    `json:"location,omitempty"`
	Contact     *ContactPayload     `json:"contact,omitempty"`
}

// RenderTemplateRequest is the request to render a template with
// concrete variable values.
type RenderTemplateRequest struct {
	Values map[string]string `json:"values"`
}

// RenderTemplateResponse is the rendered template content.
type RenderTemplateResponse struct {
	Content string   `json:"content"`
	Missing []string `json:"missing,omitempty"`
}

// ListTemplatesResponse is the response for listing templates.
type ListTemplatesResponse struct {
	Templates []*Template `json:"templates"`
	Total     int         `json:"total"`
}
