package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/store"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

// FeatureService handles per-client feature flags.
type FeatureService struct {
	store  *store.Store[*model.Feature]
	logger *logger.Logger
}

// NewFeatureService creates a new feature service.
func NewFeatureService(st *store.Store[*model.Feature], log *logger.Logger) *FeatureService {
	return &FeatureService{store: st, logger: log}
}

// GetAll retrieves every feature flag.
func (s *FeatureService) GetAll(ctx context.Context) ([]*model.Feature, error) {
	return s.store.GetAll(ctx)
}

// ListByClient returns a client's feature flags.
func (s *FeatureService) ListByClient(ctx context.Context, clientID int) ([]*model.Feature, error) {
	return s.store.Find(ctx, func(f *model.Feature) bool {
		return f.ClientID == clientID
	})
}

// IsEnabled reports whether a client has a feature enabled. Unknown
// keys are disabled.
func (s *FeatureService) IsEnabled(ctx context.Context, clientID int, key string) (bool, error) {
	found, err := s.store.Find(ctx, func(f *model.Feature) bool {
		return f.ClientID == clientID && f.Key == key
	})
	if err != nil {
		return false, err
	}
	if len(found) == 0 {
		return false, nil
	}
	return found[0].Enabled, nil
}

// SetEnabled toggles a feature flag, creating it on first use.
func (s *FeatureService) SetEnabled(ctx context.Context, req *model.SetFeatureRequest) (*model.Feature, error) {
	existing, err := s.store.Find(ctx, func(f *model.Feature) bool {
		return f.ClientID == req.ClientID && f.Key == req.Key
	})
	if err != nil {
		return nil, err
	}

	if len(existing) > 0 {
		return s.store.Update(ctx, existing[0].ID, func(f *model.Feature) {
			f.Enabled = req.Enabled
		})
	}

	created, err := s.store.Create(ctx, &model.Feature{
		ClientID: req.ClientID,
		Key:      req.Key,
		Enabled:  req.Enabled,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("feature flag created",
		zap.Int("client_id", req.ClientID),
		zap.String("key", req.Key),
		zap.Bool("enabled", req.Enabled),
	)
	return created, nil
}

// Delete removes a feature flag.
func (s *FeatureService) Delete(ctx context.Context, id int) error {
	return s.store.Delete(ctx, id)
}
