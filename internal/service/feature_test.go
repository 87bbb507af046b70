package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/service"
	"github.com/whatsflow/crm-platform/internal/store"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

func newFeatureService() *service.FeatureService {
	return service.NewFeatureService(store.New[*model.Feature](), logger.NewNop())
}

func TestSetEnabledCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	svc := newFeatureService()

	created, err := svc.SetEnabled(ctx, &model.SetFeatureRequest{ClientID: 1, Key: "broadcast", Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	enabled, err := svc.IsEnabled(ctx, 1, "broadcast")
	require.NoError(t, err)
	assert.True(t, enabled)

	updated, err := svc.SetEnabled(ctx, &model.SetFeatureRequest{ClientID: 1, Key: "broadcast", Enabled: false})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	enabled, err = svc.IsEnabled(ctx, 1, "broadcast")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestIsEnabledUnknownKeyIsDisabled(t *testing.T) {
	ctx := context.Background()
	svc := newFeatureService()

	enabled, err := svc.IsEnabled(ctx, 1, "nonexistent")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestListByClient(t *testing.T) {
	ctx := context.Background()
	svc := newFeatureService()

	_, err := svc.SetEnabled(ctx, &model.SetFeatureRequest{ClientID: 1, Key: "broadcast", Enabled: true})
	require.NoError(t, err)
	_, err = svc.SetEnabled(ctx, &model.SetFeatureRequest{ClientID: 1, Key: "analytics", Enabled: false})
	require.NoError(t, err)
	_, err = svc.SetEnabled(ctx, &model.SetFeatureRequest{ClientID: 2, Key: "broadcast", Enabled: true})
	require.NoError(t, err)

	flags, err := svc.ListByClient(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, flags, 2)
}
