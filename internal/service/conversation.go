package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/whatsflow/crm-platform/internal/events"
	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/store"
	"github.com/whatsflow/crm-platform/pkg/logger"
	"github.com/whatsflow/crm-platform/pkg/metrics"
)

// ConversationService handles conversation operations, including the
// assignment audit trail.
//
// Assignment changes write only to the assignment history; free-form
// activities are written only through AddActivity. One logical event
// therefore lands in exactly one log, while the merged read views still
// accept fixture data recorded under either convention.
type ConversationService struct {
	store  *store.Store[*model.Conversation]
	events events.Publisher
	logger *logger.Logger
	clock  func() time.Time
}

// NewConversationService creates a new conversation service.
func NewConversationService(st *store.Store[*model.Conversation], pub events.Publisher, log *logger.Logger, opts ...Option) *ConversationService {
	o := buildOptions(opts)
	return &ConversationService{
		store:  st,
		events: pub,
		logger: log,
		clock:  o.clock,
	}
}

// Create opens a new conversation.
func (s *ConversationService) Create(ctx context.Context, req *model.CreateConversationRequest) (*model.Conversation, error) {
	conv := &model.Conversation{
		ContactID: req.ContactID,
		Status:    req.Status,
	}
	if conv.Status == "" {
		conv.Status = model.ConversationStatusNew
	}

	created, err := s.store.Create(ctx, conv)
	if err != nil {
		return nil, err
	}

	metrics.ConversationsCreatedTotal.Inc()
	s.logger.Info("conversation created",
		zap.Int("conversation_id", created.ID),
		zap.Int("contact_id", created.ContactID),
	)
	return created, nil
}

// GetAll retrieves every conversation in insertion order.
func (s *ConversationService) GetAll(ctx context.Context) ([]*model.Conversation, error) {
	return s.store.GetAll(ctx)
}

// GetByID retrieves a conversation by id.
func (s *ConversationService) GetByID(ctx context.Context, id int) (*model.Conversation, error) {
	return s.store.GetByID(ctx, id)
}

// Delete removes a conversation and its embedded audit logs.
func (s *ConversationService) Delete(ctx context.Context, id int) error {
	return s.store.Delete(ctx, id)
}

// UpdateStatus sets the conversation status. Transitions are not
// validated; the original workflow allows any move, including reopening
// a closed conversation. Closing does not clear the assignment.
func (s *ConversationService) UpdateStatus(ctx context.Context, id int, req *model.UpdateStatusRequest) (*model.Conversation, error) {
	updated, err := s.store.Update(ctx, id, func(c *model.Conversation) {
		c.Status = req.Status
	})
	if err != nil {
		return nil, err
	}

	metrics.StatusChangesTotal.WithLabelValues(string(req.Status)).Inc()
	s.publish(ctx, &events.AuditEvent{
		ConversationID: id,
		Kind:           events.KindStatusChanged,
		ToAgent:        req.Agent,
		Status:         string(req.Status),
		Timestamp:      s.clock(),
	})
	return updated, nil
}

// AssignAgent assigns an agent to a conversation. It may be called on an
// already-assigned conversation; the previous agent is then recorded as
// the origin of the change.
func (s *ConversationService) AssignAgent(ctx context.Context, id int, req *model.AssignmentRequest) (*model.Conversation, error) {
	return s.changeAssignment(ctx, id, model.AssignmentActionAssigned, req.Agent, req.Reason)
}

// ReassignAgent moves a conversation to a new agent.
func (s *ConversationService) ReassignAgent(ctx context.Context, id int, req *model.AssignmentRequest) (*model.Conversation, error) {
	return s.changeAssignment(ctx, id, model.AssignmentActionReassigned, req.Agent, req.Reason)
}

// TransferChat transfers a conversation to a new agent. Structurally a
// reassignment with a different audit tag and timestamp fields.
func (s *ConversationService) TransferChat(ctx context.Context, id int, req *model.AssignmentRequest) (*model.Conversation, error) {
	return s.changeAssignment(ctx, id, model.AssignmentActionTransferred, req.Agent, req.Reason)
}

// changeAssignment is the single code path behind assign, reassign and
// transfer. The action selects which per-kind fields are stamped; the
// history entry shape is identical.
func (s *ConversationService) changeAssignment(ctx context.Context, id int, action model.AssignmentAction, agent, reason string) (*model.Conversation, error) {
	now := s.clock()
	var fromAgent string

	updated, err := s.store.Update(ctx, id, func(c *model.Conversation) {
		fromAgent = c.AssignedTo
		c.AssignmentHistory = append(c.AssignmentHistory, model.AssignmentEvent{
			Action:    action,
			FromAgent: fromAgent,
			ToAgent:   agent,
			Reason:    reason,
			Timestamp: now,
		})
		c.AssignedTo = agent

		switch action {
		case model.AssignmentActionAssigned:
			t := now
			c.AssignedAt = &t
		case model.AssignmentActionReassigned:
			t := now
			c.ReassignedAt = &t
			c.ReassignedFrom = fromAgent
		case model.AssignmentActionTransferred:
			t := now
			c.TransferredAt = &t
			c.TransferredFrom = fromAgent
		}
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordAssignmentChange(string(action))
	s.logger.Info("conversation assignment changed",
		zap.Int("conversation_id", id),
		zap.String("action", string(action)),
		zap.String("from_agent", fromAgent),
		zap.String("to_agent", agent),
	)
	s.publish(ctx, &events.AuditEvent{
		ConversationID: id,
		Kind:           events.Kind(action),
		FromAgent:      fromAgent,
		ToAgent:        agent,
		Reason:         reason,
		Timestamp:      now,
	})
	return updated, nil
}

// AddActivity appends a free-form audit activity to a conversation.
func (s *ConversationService) AddActivity(ctx context.Context, id int, req *model.AddActivityRequest) (*model.Conversation, error) {
	activity := model.Activity{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Type:        req.Type,
		Description: req.Description,
		Agent:       req.Agent,
		Metadata:    req.Metadata,
		Timestamp:   s.clock(),
	}

	updated, err := s.store.Update(ctx, id, func(c *model.Conversation) {
		c.Activities = append(c.Activities, activity)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &events.AuditEvent{
		ConversationID: id,
		Kind:           events.KindActivity,
		ToAgent:        req.Agent,
		Reason:         req.Type,
		Timestamp:      activity.Timestamp,
	})
	return updated, nil
}

// AddStatusChangeActivity records a status change as an audit activity.
func (s *ConversationService) AddStatusChangeActivity(ctx context.Context, id int, from, to model.ConversationStatus, agent string) (*model.Conversation, error) {
	return s.AddActivity(ctx, id, &model.AddActivityRequest{
		Type:        "status_change",
		Description: "status changed from " + string(from) + " to " + string(to),
		Agent:       agent,
		Metadata: map[string]string{
			"from": string(from),
			"to":   string(to),
		},
	})
}

// assignmentActivityTypes are the activity types treated as assignment
// events by the merged history view.
var assignmentActivityTypes = map[string]bool{
	"assignment":   true,
	"reassignment": true,
	"transfer":     true,
}

// GetAssignmentHistory returns the merged assignment log: explicit
// history entries plus assignment-typed activities, each tagged with
// its source, newest first.
func (s *ConversationService) GetAssignmentHistory(ctx context.Context, id int) ([]model.AuditEntry, error) {
	conv, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var entries []model.AuditEntry
	for i := range conv.AssignmentHistory {
		ev := conv.AssignmentHistory[i]
		entries = append(entries, model.AuditEntry{
			Source:     model.AuditSourceHistory,
			Timestamp:  ev.Timestamp,
			Assignment: &ev,
		})
	}
	for i := range conv.Activities {
		act := conv.Activities[i]
		if !assignmentActivityTypes[act.Type] {
			continue
		}
		entries = append(entries, model.AuditEntry{
			Source:    model.AuditSourceActivity,
			Timestamp: act.Timestamp,
			Activity:  &act,
		})
	}

	sortAuditNewestFirst(entries)
	return entries, nil
}

// GetAuditTrail returns every activity plus the explicit assignment
// history, newest first.
func (s *ConversationService) GetAuditTrail(ctx context.Context, id int) ([]model.AuditEntry, error) {
	conv, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var entries []model.AuditEntry
	for i := range conv.AssignmentHistory {
		ev := conv.AssignmentHistory[i]
		entries = append(entries, model.AuditEntry{
			Source:     model.AuditSourceHistory,
			Timestamp:  ev.Timestamp,
			Assignment: &ev,
		})
	}
	for i := range conv.Activities {
		act := conv.Activities[i]
		entries = append(entries, model.AuditEntry{
			Source:    model.AuditSourceActivity,
			Timestamp: act.Timestamp,
			Activity:  &act,
		})
	}

	sortAuditNewestFirst(entries)
	return entries, nil
}

// sortAuditNewestFirst orders entries by timestamp descending. Entries
// sharing a timestamp keep reverse append order so the latest write
// still comes out first.
func sortAuditNewestFirst(entries []model.AuditEntry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}

// UpdateLastMessage records a conversation's latest message and bumps
// the unread counter for incoming traffic.
func (s *ConversationService) UpdateLastMessage(ctx context.Context, id int, msg *model.Message) (*model.Conversation, error) {
	return s.store.Update(ctx, id, func(c *model.Conversation) {
		c.LastMessage = msg.Text
		t := msg.Timestamp
		c.LastMessageTime = &t
		if msg.IsIncoming {
			c.UnreadCount++
		}
	})
}

// ResetUnread clears the unread counter, typically when an agent opens
// the conversation.
func (s *ConversationService) ResetUnread(ctx context.Context, id int) (*model.Conversation, error) {
	return s.store.Update(ctx, id, func(c *model.Conversation) {
		c.UnreadCount = 0
	})
}

// FilterByStatus returns conversations with the given status, most
// recent message first.
func (s *ConversationService) FilterByStatus(ctx context.Context, status model.ConversationStatus) ([]*model.Conversation, error) {
	found, err := s.store.Find(ctx, func(c *model.Conversation) bool {
		return c.Status == status
	})
	if err != nil {
		return nil, err
	}
	sortConversationsMostRecentFirst(found)
	return found, nil
}

// FilterByAssignee returns conversations assigned to the given agent,
// most recent message first.
func (s *ConversationService) FilterByAssignee(ctx context.Context, agent string) ([]*model.Conversation, error) {
	found, err := s.store.Find(ctx, func(c *model.Conversation) bool {
		return c.AssignedTo == agent
	})
	if err != nil {
		return nil, err
	}
	sortConversationsMostRecentFirst(found)
	return found, nil
}

func sortConversationsMostRecentFirst(convs []*model.Conversation) {
	effective := func(c *model.Conversation) time.Time {
		if c.LastMessageTime != nil {
			return *c.LastMessageTime
		}
		return c.CreatedAt
	}
	sort.SliceStable(convs, func(i, j int) bool {
		return effective(convs[i]).After(effective(convs[j]))
	})
}

func (s *ConversationService) publish(ctx context.Context, ev *events.AuditEvent) {
	if err := s.events.PublishAudit(ctx, ev); err != nil {
		s.logger.Warn("failed to publish audit event",
			zap.Int("conversation_id", ev.ConversationID),
			zap.String("kind", string(ev.Kind)),
			zap.Error(err),
		)
		return
	}
	metrics.AuditEventsPublished.WithLabelValues(string(ev.Kind)).Inc()
}
