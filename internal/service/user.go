package service

import (
	"context"

	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/store"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

// UserService handles workspace member operations.
type UserService struct {
	store  *store.Store[*model.User]
	logger *logger.Logger
}

// NewUserService creates a new user service.
func NewUserService(st *store.Store[*model.User], log *logger.Logger) *UserService {
	return &UserService{store: st, logger: log}
}

// Create registers a user. New users start active with the agent role
// unless the request says otherwise.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	user := &model.User{
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		AvatarURL: req.AvatarURL,
		Active:    true,
	}
	if user.Role == "" {
		user.Role = model.UserRoleAgent
	}
	return s.store.Create(ctx, user)
}

// GetAll retrieves every user.
func (s *UserService) GetAll(ctx context.Context) ([]*model.User, error) {
	return s.store.GetAll(ctx)
}

// GetByID retrieves a user by id.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.store.GetByID(ctx, id)
}

// Update applies a patch to a user.
func (s *UserService) Update(ctx context.Context, id int, req *model.UpdateUserRequest) (*model.User, error) {
	return s.store.Update(ctx, id, func(u *model.User) {
		if req.Name != "" {
			u.Name = req.Name
		}
		if req.Email != "" {
			u.Email = req.Email
		}
		if req.Role != "" {
			u.Role = req.Role
		}
		if req.AvatarURL != "" {
			u.AvatarURL = req.AvatarURL
		}
	})
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id int) error {
	return s.store.Delete(ctx, id)
}

// SetActive toggles whether a user can be assigned work.
func (s *UserService) SetActive(ctx context.Context, id int, active bool) (*model.User, error) {
	return s.store.Update(ctx, id, func(u *model.User) {
		u.Active = active
	})
}

// FilterByRole returns users holding the given role.
func (s *UserService) FilterByRole(ctx context.Context, role model.UserRole) ([]*model.User, error) {
	return s.store.Find(ctx, func(u *model.User) bool {
		return u.Role == role
	})
}
