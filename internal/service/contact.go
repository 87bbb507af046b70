package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/store"
	"github.com/whatsflow/crm-platform/pkg/logger"
	"github.com/whatsflow/crm-platform/pkg/metrics"
)

// ContactService handles contact operations.
type ContactService struct {
	store  *store.Store[*model.Contact]
	logger *logger.Logger
}

// NewContactService creates a new contact service.
func NewContactService(st *store.Store[*model.Contact], log *logger.Logger) *ContactService {
	return &ContactService{store: st, logger: log}
}

// Create creates a new contact.
func (s *ContactService) Create(ctx context.Context, req *model.CreateContactRequest) (*model.Contact, error) {
	contact := &model.Contact{
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		Notes:         req.Notes,
		Tags:          req.Tags,
		LeadStatus:    req.LeadStatus,
		Priority:      req.Priority,
		AssignedTo:    req.AssignedTo,
		PipelineStage: req.PipelineStage,
	}
	if contact.LeadStatus == "" {
		contact.LeadStatus = model.LeadStatusNew
	}

	created, err := s.store.Create(ctx, contact)
	if err != nil {
		return nil, err
	}

	metrics.ContactsCreatedTotal.Inc()
	s.logger.Info("contact created", zap.Int("contact_id", created.ID))
	return created, nil
}

// GetAll retrieves every contact in insertion order.
func (s *ContactService) GetAll(ctx context.Context) ([]*model.Contact, error) {
	return s.store.GetAll(ctx)
}

// GetByID retrieves a contact by id.
func (s *ContactService) GetByID(ctx context.Context, id int) (*model.Contact, error) {
	return s.store.GetByID(ctx, id)
}

// Update applies a patch to a contact. Zero-valued patch fields are
// ignored; the id never changes.
func (s *ContactService) Update(ctx context.Context, id int, req *model.UpdateContactRequest) (*model.Contact, error) {
	return s.store.Update(ctx, id, func(c *model.Contact) {
		if req.Name != "" {
			c.Name = req.Name
		}
		if req.Phone != "" {
			c.Phone = req.Phone
		}
		if req.Email != "" {
			c.Email = req.Email
		}
		if req.Notes != "" {
			c.Notes = req.Notes
		}
		if req.Tags != nil {
			c.Tags = append([]string(nil), req.Tags...)
		}
		if req.LeadStatus != "" {
			c.LeadStatus = req.LeadStatus
		}
		if req.Priority != "" {
			c.Priority = req.Priority
		}
		if req.AssignedTo != "" {
			c.AssignedTo = req.AssignedTo
		}
		if req.PipelineStage != "" {
			c.PipelineStage = req.PipelineStage
		}
	})
}

// Delete permanently removes a contact. Conversations referencing it
// are left untouched.
func (s *ContactService) Delete(ctx context.Context, id int) error {
	return s.store.Delete(ctx, id)
}

// SearchByName finds contacts whose name, phone, notes or tags contain
// the query, case-insensitively. Results are most recent first.
func (s *ContactService) SearchByName(ctx context.Context, query string) ([]*model.Contact, error) {
	needle := strings.ToLower(query)
	found, err := s.store.Find(ctx, func(c *model.Contact) bool {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Phone), needle) ||
			strings.Contains(strings.ToLower(c.Notes), needle) {
			return true
		}
		for _, tag := range c.Tags {
			if strings.Contains(strings.ToLower(tag), needle) {
				return true
			}
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	sortContactsMostRecentFirst(found)
	return found, nil
}

// FilterByLeadStatus returns contacts with the given lead status.
func (s *ContactService) FilterByLeadStatus(ctx context.Context, status model.LeadStatus) ([]*model.Contact, error) {
	found, err := s.store.Find(ctx, func(c *model.Contact) bool {
		return c.LeadStatus == status
	})
	if err != nil {
		return nil, err
	}
	sortContactsMostRecentFirst(found)
	return found, nil
}

// FilterByTag returns contacts carrying the exact tag.
func (s *ContactService) FilterByTag(ctx context.Context, tag string) ([]*model.Contact, error) {
	found, err := s.store.Find(ctx, func(c *model.Contact) bool {
		for _, t := range c.Tags {
			if t == tag {
				return true
			}
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	sortContactsMostRecentFirst(found)
	return found, nil
}

// FilterByAssignee returns contacts assigned to the given agent.
func (s *ContactService) FilterByAssignee(ctx context.Context, agent string) ([]*model.Contact, error) {
	found, err := s.store.Find(ctx, func(c *model.Contact) bool {
		return c.AssignedTo == agent
	})
	if err != nil {
		return nil, err
	}
	sortContactsMostRecentFirst(found)
	return found, nil
}

// CreatedBetween returns contacts created within [start, end], inclusive.
func (s *ContactService) CreatedBetween(ctx context.Context, start, end time.Time) ([]*model.Contact, error) {
	found, err := s.store.Find(ctx, func(c *model.Contact) bool {
		return !c.CreatedAt.Before(start) && !c.CreatedAt.After(end)
	})
	if err != nil {
		return nil, err
	}
	sortContactsMostRecentFirst(found)
	return found, nil
}

// sortContactsMostRecentFirst orders by last message time, falling back
// to creation time for contacts that never messaged.
func sortContactsMostRecentFirst(contacts []*model.Contact) {
	effective := func(c *model.Contact) time.Time {
		if c.LastMessageAt != nil {
			return *c.LastMessageAt
		}
		return c.CreatedAt
	}
	sort.SliceStable(contacts, func(i, j int) bool {
		return effective(contacts[i]).After(effective(contacts[j]))
	})
}
