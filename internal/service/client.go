package service

import (
	"context"

	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/store"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

// ClientService handles client workspace administration.
type ClientService struct {
	store  *store.Store[*model.Client]
	logger *logger.Logger
}

// NewClientService creates a new client service.
func NewClientService(st *store.Store[*model.Client], log *logger.Logger) *ClientService {
	return &ClientService{store: st, logger: log}
}

// Create registers a client workspace. New clients default to a trial
// on the starter plan.
func (s *ClientService) Create(ctx context.Context, req *model.CreateClientRequest) (*model.Client, error) {
	client := &model.Client{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Plan:   req.Plan,
		Status: req.Status,
	}
	if client.Plan == "" {
		client.Plan = "starter"
	}
	if client.Status == "" {
		client.Status = model.ClientStatusTrial
	}
	return s.store.Create(ctx, client)
}

// GetAll retrieves every client.
func (s *ClientService) GetAll(ctx context.Context) ([]*model.Client, error) {
	return s.store.GetAll(ctx)
}

// GetByID retrieves a client by id.
func (s *ClientService) GetByID(ctx context.Context, id int) (*model.Client, error) {
	return s.store.GetByID(ctx, id)
}

// Update applies a patch to a client.
func (s *ClientService) Update(ctx context.Context, id int, req *model.UpdateClientRequest) (*model.Client, error) {
	return s.store.Update(ctx, id, func(c *model.Client) {
		if req.Name != "" {
			c.Name = req.Name
		}
		if req.Email != "" {
			c.Email = req.Email
		}
		if req.Phone != "" {
			c.Phone = req.Phone
		}
		if req.Plan != "" {
			c.Plan = req.Plan
		}
		if req.Status != "" {
			c.Status = req.Status
		}
	})
}

// Delete removes a client.
func (s *ClientService) Delete(ctx context.Context, id int) error {
	return s.store.Delete(ctx, id)
}

// SetStatus changes a client's account state.
func (s *ClientService) SetStatus(ctx context.Context, id int, status model.ClientStatus) (*model.Client, error) {
	return s.store.Update(ctx, id, func(c *model.Client) {
		c.Status = status
	})
}

// FilterByPlan returns clients on the given plan.
func (s *ClientService) FilterByPlan(ctx context.Context, plan string) ([]*model.Client, error) {
	return s.store.Find(ctx, func(c *model.Client) bool {
		return c.Plan == plan
	})
}
