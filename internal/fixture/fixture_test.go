package fixture_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whatsflow/crm-platform/internal/fixture"
	"github.com/whatsflow/crm-platform/internal/store"
)

func TestLoadSeedsStoresFromDirectory(t *testing.T) {
	dir := t.TempDir()
	contacts := `[
		{"id": 1, "name": "Jane Doe", "phone": "+15551234567", "tags": ["vip"]},
		{"id": 5, "name": "Roberto Lima", "phone": "+5511987654321"}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contacts.json"), []byte(contacts), 0o644))

	stores := store.NewStores()
	require.NoError(t, fixture.Load(dir, stores))

	ctx := context.Background()
	all, err := stores.Contacts.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Jane Doe", all[0].Name)

	// Allocator must start past the highest seeded id.
	created, err := stores.Contacts.Create(ctx, all[0].Clone())
	require.NoError(t, err)
	assert.Equal(t, 6, created.ID)

	// Files absent from the directory leave their stores empty.
	users, err := stores.Users.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestLoadRejectsMalformedFixture(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "messages.json"), []byte("{not json"), 0o644))

	err := fixture.Load(dir, store.NewStores())
	assert.Error(t, err)
}

func TestLoadShippedFixtures(t *testing.T) {
	stores := store.NewStores()
	require.NoError(t, fixture.Load(filepath.Join("..", "..", "fixtures"), stores))

	ctx := context.Background()
	convs, err := stores.Conversations.GetAll(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, convs)
	assert.NotEmpty(t, convs[0].AssignmentHistory)

	templates, err := stores.Templates.GetAll(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, templates)
}
