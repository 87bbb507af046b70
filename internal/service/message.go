package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/store"
	"github.com/whatsflow/crm-platform/pkg/logger"
	"github.com/whatsflow/crm-platform/pkg/metrics"
)

// MessageService handles message operations. Sending never simulates
// delivery: outgoing messages stay "sent" until something external
// moves them, and only MarkAsRead advances incoming ones.
type MessageService struct {
	store         *store.Store[*model.Message]
	conversations *ConversationService
	logger        *logger.Logger
	clock         func() time.Time
}

// NewMessageService creates a new message service.
func NewMessageService(st *store.Store[*model.Message], convs *ConversationService, log *logger.Logger, opts ...Option) *MessageService {
	o := buildOptions(opts)
	return &MessageService{
		store:         st,
		conversations: convs,
		logger:        log,
		clock:         o.clock,
	}
}

// Send records a message on a conversation and updates the
// conversation's last-message fields. The conversation must exist.
func (s *MessageService) Send(ctx context.Context, conversationID int, req *model.SendMessageRequest) (*model.Message, error) {
	// Reject unknown conversations up front so no orphan message is
	// stored.
	if _, err := s.conversations.GetByID(ctx, conversationID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		ConversationID: conversationID,
		Text:           req.Text,
		MediaURL:       req.MediaURL,
		IsIncoming:     req.IsIncoming,
		Status:         model.MessageStatusSent,
		Timestamp:      s.clock(),
	}

	created, err := s.store.Create(ctx, msg)
	if err != nil {
		return nil, err
	}

	if _, err := s.conversations.UpdateLastMessage(ctx, conversationID, created); err != nil {
		s.logger.Warn("failed to update conversation last message",
			zap.Int("conversation_id", conversationID),
			zap.Error(err),
		)
	}

	metrics.RecordMessage(created.IsIncoming)
	return created, nil
}

// GetByID retrieves a message by id.
func (s *MessageService) GetByID(ctx context.Context, id int) (*model.Message, error) {
	return s.store.GetByID(ctx, id)
}

// ListByConversation returns a conversation's messages in timestamp
// order, oldest first.
func (s *MessageService) ListByConversation(ctx context.Context, conversationID int) ([]*model.Message, error) {
	found, err := s.store.Find(ctx, func(m *model.Message) bool {
		return m.ConversationID == conversationID
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Timestamp.Before(found[j].Timestamp)
	})
	return found, nil
}

// MarkAsRead marks every incoming message of a conversation as read and
// clears the conversation's unread counter.
func (s *MessageService) MarkAsRead(ctx context.Context, conversationID int) (int, error) {
	msgs, err := s.store.Find(ctx, func(m *model.Message) bool {
		return m.ConversationID == conversationID && m.IsIncoming && m.Status != model.MessageStatusRead
	})
	if err != nil {
		return 0, err
	}

	for _, msg := range msgs {
		if _, err := s.store.Update(ctx, msg.ID, func(m *model.Message) {
			m.Status = model.MessageStatusRead
		}); err != nil {
			return 0, err
		}
	}

	if _, err := s.conversations.ResetUnread(ctx, conversationID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return 0, err
	}
	return len(msgs), nil
}

// SearchByText finds messages containing the query, case-insensitively,
// newest first.
func (s *MessageService) SearchByText(ctx context.Context, query string) ([]*model.Message, error) {
	needle := strings.ToLower(query)
	found, err := s.store.Find(ctx, func(m *model.Message) bool {
		return strings.Contains(strings.ToLower(m.Text), needle)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Timestamp.After(found[j].Timestamp)
	})
	return found, nil
}

// SentBetween returns messages with timestamp in [start, end], inclusive.
func (s *MessageService) SentBetween(ctx context.Context, start, end time.Time) ([]*model.Message, error) {
	found, err := s.store.Find(ctx, func(m *model.Message) bool {
		return !m.Timestamp.Before(start) && !m.Timestamp.After(end)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Timestamp.After(found[j].Timestamp)
	})
	return found, nil
}
