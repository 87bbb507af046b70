package service

import (
	"context"

	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/store"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

// FlowService stores chatbot flow graphs. Flows are editor data only;
// nothing here evaluates or executes a graph.
type FlowService struct {
	store  *store.Store[*model.Flow]
	logger *logger.Logger
}

// NewFlowService creates a new flow service.
func NewFlowService(st *store.Store[*model.Flow], log *logger.Logger) *FlowService {
	return &FlowService{store: st, logger: log}
}

// Create stores a new flow. Flows start inactive.
func (s *FlowService) Create(ctx context.Context, req *model.CreateFlowRequest) (*model.Flow, error) {
	return s.store.Create(ctx, &model.Flow{
		Name:        req.Name,
		Description: req.Description,
		Nodes:       req.Nodes,
		Edges:       req.Edges,
	})
}

// GetAll retrieves every flow.
func (s *FlowService) GetAll(ctx context.Context) ([]*model.Flow, error) {
	return s.store.GetAll(ctx)
}

// GetByID retrieves a flow by id.
func (s *FlowService) GetByID(ctx context.Context, id int) (*model.Flow, error) {
	return s.store.GetByID(ctx, id)
}

// Update applies a patch to a flow. A non-nil node or edge list
// replaces the stored graph wholesale.
func (s *FlowService) Update(ctx context.Context, id int, req *model.UpdateFlowRequest) (*model.Flow, error) {
	return s.store.Update(ctx, id, func(f *model.Flow) {
		if req.Name != "" {
			f.Name = req.Name
		}
		if req.Description != "" {
			f.Description = req.Description
		}
		if req.Nodes != nil {
			f.Nodes = req.Nodes
		}
		if req.Edges != nil {
			f.Edges = req.Edges
		}
	})
}

// Delete removes a flow.
func (s *FlowService) Delete(ctx context.Context, id int) error {
	return s.store.Delete(ctx, id)
}

// SetActive toggles whether a flow is live.
func (s *FlowService) SetActive(ctx context.Context, id int, active bool) (*model.Flow, error) {
	return s.store.Update(ctx, id, func(f *model.Flow) {
		f.Active = active
	})
}

// Duplicate clones a flow under a new name. The copy starts inactive.
func (s *FlowService) Duplicate(ctx context.Context, id int, name string) (*model.Flow, error) {
	src, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	copy := src.Clone()
	copy.Active = false
	if name != "" {
		copy.Name = name
	} else {
		copy.Name = src.Name + " (copy)"
	}
	return s.store.Create(ctx, copy)
}
