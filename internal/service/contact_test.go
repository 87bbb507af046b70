package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/service"
	"github.com/whatsflow/crm-platform/internal/store"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

func newContactService() (*service.ContactService, *store.Store[*model.Contact]) {
	st := store.New[*model.Contact]()
	return service.NewContactService(st, logger.NewNop()), st
}

func TestSearchByName(t *testing.T) {
	ctx := context.Background()
	svc, st := newContactService()

	st.Seed([]*model.Contact{
		{ID: 1, Name: "Jane Doe", Phone: "+15551234567", Tags: []string{"vip"}},
	})

	found, err := svc.SearchByName(ctx, "jane")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 1, found[0].ID)
	assert.Equal(t, "Jane Doe", found[0].Name)

	found, err = svc.SearchByName(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSearchByNameMatchesPhoneNotesAndTags(t *testing.T) {
	ctx := context.Background()
	svc, st := newContactService()

	st.Seed([]*model.Contact{
		{ID: 1, Name: "Jane Doe", Phone: "+15551234567", Notes: "asked for demo", Tags: []string{"vip"}},
		{ID: 2, Name: "Roberto Lima", Phone: "+5511987654321"},
	})

	byPhone, err := svc.SearchByName(ctx, "5551234")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, 1, byPhone[0].ID)

	byNotes, err := svc.SearchByName(ctx, "DEMO")
	require.NoError(t, err)
	require.Len(t, byNotes, 1)

	byTag, err := svc.SearchByName(ctx, "vip")
	require.NoError(t, err)
	require.Len(t, byTag, 1)
}

func TestContactCreateDefaultsLeadStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newContactService()

	created, err := svc.Create(ctx, &model.CreateContactRequest{Name: "Amelia", Phone: "+55219"})
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusNew, created.LeadStatus)
	assert.Equal(t, 1, created.ID)
}

func TestContactUpdateIgnoresZeroFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newContactService()

	created, err := svc.Create(ctx, &model.CreateContactRequest{
		Name:     "Jane",
		Phone:    "+1555",
		Priority: model.PriorityHigh,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, &model.UpdateContactRequest{Notes: "met at expo"})
	require.NoError(t, err)
	assert.Equal(t, "Jane", updated.Name)
	assert.Equal(t, model.PriorityHigh, updated.Priority)
	assert.Equal(t, "met at expo", updated.Notes)
}

func TestFilterByLeadStatusAndTag(t *testing.T) {
	ctx := context.Background()
	svc, st := newContactService()

	st.Seed([]*model.Contact{
		{ID: 1, Name: "a", LeadStatus: model.LeadStatusQualified, Tags: []string{"vip"}},
		{ID: 2, Name: "b", LeadStatus: model.LeadStatusNew, Tags: []string{"import"}},
		{ID: 3, Name: "c", LeadStatus: model.LeadStatusQualified},
	})

	qualified, err := svc.FilterByLeadStatus(ctx, model.LeadStatusQualified)
	require.NoError(t, err)
	assert.Len(t, qualified, 2)

	vip, err := svc.FilterByTag(ctx, "vip")
	require.NoError(t, err)
	require.Len(t, vip, 1)
	assert.Equal(t, 1, vip[0].ID)

	// Exact tag match only.
	none, err := svc.FilterByTag(ctx, "vi")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreatedBetweenIsInclusive(t *testing.T) {
	ctx := context.Background()
	svc, st := newContactService()

	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }
	st.Seed([]*model.Contact{
		{ID: 1, Name: "before", CreatedAt: day(1)},
		{ID: 2, Name: "start", CreatedAt: day(10)},
		{ID: 3, Name: "inside", CreatedAt: day(15)},
		{ID: 4, Name: "end", CreatedAt: day(20)},
		{ID: 5, Name: "after", CreatedAt: day(25)},
	})

	found, err := svc.CreatedBetween(ctx, day(10), day(20))
	require.NoError(t, err)
	require.Len(t, found, 3)

	ids := []int{found[0].ID, found[1].ID, found[2].ID}
	assert.ElementsMatch(t, []int{2, 3, 4}, ids)
}

func TestDeleteContactLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	svc, _ := newContactService()

	created, err := svc.Create(ctx, &model.CreateContactRequest{Name: "gone", Phone: "+1"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
