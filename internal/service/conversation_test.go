package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whatsflow/crm-platform/internal/events"
	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/service"
	"github.com/whatsflow/crm-platform/internal/store"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

// recordingPublisher captures published audit events for assertions.
type recordingPublisher struct {
	events []*events.AuditEvent
}

func (p *recordingPublisher) PublishAudit(_ context.Context, ev *events.AuditEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func newConversationService(t *testing.T) (*service.ConversationService, *recordingPublisher, *time.Time) {
	t.Helper()
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	pub := &recordingPublisher{}
	svc := service.NewConversationService(
		store.New[*model.Conversation](),
		pub,
		logger.NewNop(),
		service.WithClock(func() time.Time { return now }),
	)
	return svc, pub, &now
}

func TestAssignThenReassignBuildsHistory(t *testing.T) {
	ctx := context.Background()
	svc, pub, now := newConversationService(t)

	conv, err := svc.Create(ctx, &model.CreateConversationRequest{ContactID: 1})
	require.NoError(t, err)
	assert.Equal(t, model.ConversationStatusNew, conv.Status)

	_, err = svc.AssignAgent(ctx, conv.ID, &model.AssignmentRequest{Agent: "A", Reason: "round-robin"})
	require.NoError(t, err)

	*now = now.Add(time.Minute)
	updated, err := svc.ReassignAgent(ctx, conv.ID, &model.AssignmentRequest{Agent: "B"})
	require.NoError(t, err)

	assert.Equal(t, "B", updated.AssignedTo)
	assert.Equal(t, "A", updated.ReassignedFrom)
	require.NotNil(t, updated.ReassignedAt)

	history, err := svc.GetAssignmentHistory(ctx, conv.ID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(history), 2)

	latest := history[0]
	assert.Equal(t, model.AuditSourceHistory, latest.Source)
	require.NotNil(t, latest.Assignment)
	assert.Equal(t, model.AssignmentActionReassigned, latest.Assignment.Action)
	assert.Equal(t, "A", latest.Assignment.FromAgent)
	assert.Equal(t, "B", latest.Assignment.ToAgent)

	first := history[len(history)-1]
	require.NotNil(t, first.Assignment)
	assert.Equal(t, model.AssignmentActionAssigned, first.Assignment.Action)
	assert.Empty(t, first.Assignment.FromAgent)
	assert.Equal(t, "A", first.Assignment.ToAgent)

	// One event per assignment change.
	require.Len(t, pub.events, 2)
	assert.Equal(t, events.KindAssigned, pub.events[0].Kind)
	assert.Equal(t, events.KindReassigned, pub.events[1].Kind)
}

func TestTransferStampsTransferFields(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newConversationService(t)

	conv, err := svc.Create(ctx, &model.CreateConversationRequest{ContactID: 2})
	require.NoError(t, err)

	_, err = svc.AssignAgent(ctx, conv.ID, &model.AssignmentRequest{Agent: "A"})
	require.NoError(t, err)

	updated, err := svc.TransferChat(ctx, conv.ID, &model.AssignmentRequest{Agent: "B", Reason: "shift end"})
	require.NoError(t, err)

	assert.Equal(t, "B", updated.AssignedTo)
	assert.Equal(t, "A", updated.TransferredFrom)
	require.NotNil(t, updated.TransferredAt)
	assert.Nil(t, updated.ReassignedAt)

	last := updated.AssignmentHistory[len(updated.AssignmentHistory)-1]
	assert.Equal(t, model.AssignmentActionTransferred, last.Action)
	assert.Equal(t, "shift end", last.Reason)
}

func TestAssignMissingConversationReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, pub, _ := newConversationService(t)

	_, err := svc.AssignAgent(ctx, 999, &model.AssignmentRequest{Agent: "Agent1"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, pub.events)
}

func TestAssignmentChangesWriteSingleLog(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newConversationService(t)

	conv, err := svc.Create(ctx, &model.CreateConversationRequest{ContactID: 1})
	require.NoError(t, err)

	_, err = svc.AssignAgent(ctx, conv.ID, &model.AssignmentRequest{Agent: "A"})
	require.NoError(t, err)
	_, err = svc.ReassignAgent(ctx, conv.ID, &model.AssignmentRequest{Agent: "B"})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.Len(t, got.AssignmentHistory, 2)
	assert.Empty(t, got.Activities)

	// The merged view reports each logical event exactly once.
	history, err := svc.GetAssignmentHistory(ctx, conv.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestGetAssignmentHistoryMergesAssignmentTypedActivities(t *testing.T) {
	ctx := context.Background()
	svc, _, now := newConversationService(t)

	conv, err := svc.Create(ctx, &model.CreateConversationRequest{ContactID: 1})
	require.NoError(t, err)

	_, err = svc.AssignAgent(ctx, conv.ID, &model.AssignmentRequest{Agent: "A"})
	require.NoError(t, err)

	*now = now.Add(time.Minute)
	_, err = svc.AddActivity(ctx, conv.ID, &model.AddActivityRequest{
		Type:  "transfer",
		Agent: "B",
	})
	require.NoError(t, err)

	*now = now.Add(time.Minute)
	_, err = svc.AddActivity(ctx, conv.ID, &model.AddActivityRequest{
		Type:        "note",
		Description: "customer prefers mornings",
	})
	require.NoError(t, err)

	history, err := svc.GetAssignmentHistory(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.AuditSourceActivity, history[0].Source)
	assert.Equal(t, "transfer", history[0].Activity.Type)
	assert.Equal(t, model.AuditSourceHistory, history[1].Source)

	trail, err := svc.GetAuditTrail(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, trail, 3)
	assert.Equal(t, "note", trail[0].Activity.Type)
}

func TestAddStatusChangeActivity(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newConversationService(t)

	conv, err := svc.Create(ctx, &model.CreateConversationRequest{ContactID: 1})
	require.NoError(t, err)

	updated, err := svc.AddStatusChangeActivity(ctx, conv.ID, model.ConversationStatusNew, model.ConversationStatusOngoing, "A")
	require.NoError(t, err)

	require.Len(t, updated.Activities, 1)
	act := updated.Activities[0]
	assert.Equal(t, "status_change", act.Type)
	assert.Equal(t, "new", act.Metadata["from"])
	assert.Equal(t, "ongoing", act.Metadata["to"])
	assert.NotEmpty(t, act.ID)
}

func TestUpdateStatusAcceptsAnyTransition(t *testing.T) {
	ctx := context.Background()
	svc, pub, _ := newConversationService(t)

	conv, err := svc.Create(ctx, &model.CreateConversationRequest{ContactID: 1, Status: model.ConversationStatusClosed})
	require.NoError(t, err)

	// Reopening a closed conversation is allowed.
	updated, err := svc.UpdateStatus(ctx, conv.ID, &model.UpdateStatusRequest{Status: model.ConversationStatusNew})
	require.NoError(t, err)
	assert.Equal(t, model.ConversationStatusNew, updated.Status)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.KindStatusChanged, pub.events[0].Kind)
	assert.Equal(t, "new", pub.events[0].Status)
}

func TestClosingKeepsAssignment(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newConversationService(t)

	conv, err := svc.Create(ctx, &model.CreateConversationRequest{ContactID: 1})
	require.NoError(t, err)
	_, err = svc.AssignAgent(ctx, conv.ID, &model.AssignmentRequest{Agent: "A"})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, conv.ID, &model.UpdateStatusRequest{Status: model.ConversationStatusClosed})
	require.NoError(t, err)
	assert.Equal(t, "A", updated.AssignedTo)
}

func TestUpdateLastMessageBumpsUnreadForIncoming(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newConversationService(t)

	conv, err := svc.Create(ctx, &model.CreateConversationRequest{ContactID: 1})
	require.NoError(t, err)

	ts := time.Date(2025, 2, 2, 9, 0, 0, 0, time.UTC)
	updated, err := svc.UpdateLastMessage(ctx, conv.ID, &model.Message{Text: "hello", Timestamp: ts, IsIncoming: true})
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.LastMessage)
	assert.Equal(t, 1, updated.UnreadCount)
	require.NotNil(t, updated.LastMessageTime)
	assert.Equal(t, ts, *updated.LastMessageTime)

	updated, err = svc.UpdateLastMessage(ctx, conv.ID, &model.Message{Text: "reply", Timestamp: ts.Add(time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.UnreadCount)

	updated, err = svc.ResetUnread(ctx, conv.ID)
	require.NoError(t, err)
	assert.Zero(t, updated.UnreadCount)
}

func TestFilterByStatusSortsMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newConversationService(t)

	older, err := svc.Create(ctx, &model.CreateConversationRequest{ContactID: 1, Status: model.ConversationStatusOngoing})
	require.NoError(t, err)
	newer, err := svc.Create(ctx, &model.CreateConversationRequest{ContactID: 2, Status: model.ConversationStatusOngoing})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &model.CreateConversationRequest{ContactID: 3, Status: model.ConversationStatusClosed})
	require.NoError(t, err)

	base := time.Date(2025, 2, 2, 9, 0, 0, 0, time.UTC)
	_, err = svc.UpdateLastMessage(ctx, older.ID, &model.Message{Text: "old", Timestamp: base})
	require.NoError(t, err)
	_, err = svc.UpdateLastMessage(ctx, newer.ID, &model.Message{Text: "new", Timestamp: base.Add(time.Hour)})
	require.NoError(t, err)

	found, err := svc.FilterByStatus(ctx, model.ConversationStatusOngoing)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, newer.ID, found[0].ID)
	assert.Equal(t, older.ID, found[1].ID)
}
