package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/store"
)

func newContactStore(opts ...store.Option) *store.Store[*model.Contact] {
	return store.New[*model.Contact](opts...)
}

func TestCreateThenGetByIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newContactStore()

	created, err := s.Create(ctx, &model.Contact{Name: "Jane Doe", Phone: "+15551234567", Tags: []string{"vip"}})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, []string{"vip"}, got.Tags)
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := newContactStore()

	for i := 1; i <= 3; i++ {
		c, err := s.Create(ctx, &model.Contact{Name: "c"})
		require.NoError(t, err)
		assert.Equal(t, i, c.ID)
	}
}

func TestCreateIgnoresCallerSuppliedID(t *testing.T) {
	ctx := context.Background()
	s := newContactStore()

	c, err := s.Create(ctx, &model.Contact{ID: 99, Name: "c"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.ID)
}

func TestUpdatePreservesID(t *testing.T) {
	ctx := context.Background()
	s := newContactStore()

	created, err := s.Create(ctx, &model.Contact{Name: "before"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, created.ID, func(c *model.Contact) {
		c.Name = "after"
		c.ID = 42 // conflicting id in the patch must not stick
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "after", updated.Name)

	_, err = s.GetByID(ctx, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEmptyUpdateOnlyTouchesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := newContactStore(store.WithClock(func() time.Time { return now }))

	created, err := s.Create(ctx, &model.Contact{Name: "Jane", Phone: "+1555", Tags: []string{"vip"}})
	require.NoError(t, err)

	now = now.Add(time.Hour)
	updated, err := s.Update(ctx, created.ID, func(c *model.Contact) {})
	require.NoError(t, err)

	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, created.UpdatedAt.Add(time.Hour), updated.UpdatedAt)
	updated.UpdatedAt = created.UpdatedAt
	assert.Equal(t, created, updated)
}

func TestDeleteRemovesRecord(t *testing.T) {
	ctx := context.Background()
	s := newContactStore()

	a, err := s.Create(ctx, &model.Contact{Name: "a"})
	require.NoError(t, err)
	_, err = s.Create(ctx, &model.Contact{Name: "b"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, a.ID))

	_, err = s.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "b", all[0].Name)

	assert.ErrorIs(t, s.Delete(ctx, a.ID), store.ErrNotFound)
}

func TestIDNeverReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	s := newContactStore()

	_, err := s.Create(ctx, &model.Contact{Name: "a"})
	require.NoError(t, err)
	b, err := s.Create(ctx, &model.Contact{Name: "b"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, b.ID))

	c, err := s.Create(ctx, &model.Contact{Name: "c"})
	require.NoError(t, err)
	assert.Greater(t, c.ID, b.ID)
}

func TestGetAllIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newContactStore()

	_, err := s.Create(ctx, &model.Contact{Name: "a", Tags: []string{"x"}})
	require.NoError(t, err)
	_, err = s.Create(ctx, &model.Contact{Name: "b"})
	require.NoError(t, err)

	first, err := s.GetAll(ctx)
	require.NoError(t, err)
	second, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Mutating a returned clone must not leak into the store.
	first[0].Name = "mutated"
	first[0].Tags[0] = "mutated"
	third, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", third[0].Name)
	assert.Equal(t, "x", third[0].Tags[0])
}

func TestSeedPrimesAllocator(t *testing.T) {
	ctx := context.Background()
	s := newContactStore()

	s.Seed([]*model.Contact{
		{ID: 3, Name: "seeded-three"},
		{ID: 7, Name: "seeded-seven"},
	})

	created, err := s.Create(ctx, &model.Contact{Name: "fresh"})
	require.NoError(t, err)
	assert.Equal(t, 8, created.ID)

	got, err := s.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "seeded-three", got.Name)
}

func TestParseID(t *testing.T) {
	id, err := store.ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	_, err = store.ParseID("abc")
	assert.ErrorIs(t, err, store.ErrInvalidID)

	_, err = store.ParseID("")
	assert.ErrorIs(t, err, store.ErrInvalidID)
}

func TestLatencyHonorsContextCancellation(t *testing.T) {
	s := newContactStore(store.WithLatency(50 * time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.Create(ctx, &model.Contact{Name: "never"})
	assert.ErrorIs(t, err, context.Canceled)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
