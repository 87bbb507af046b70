package handler

import (
	"encoding/json"
	"net/http"

	"github.com/whatsflow/crm-platform/internal/middleware"
	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/service"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

// MessageHandler handles message endpoints.
type MessageHandler struct {
	service *service.MessageService
	logger  *logger.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(svc *service.MessageService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		service: svc,
		logger:  log,
	}
}

// Send handles POST /api/v1/conversations/{id}/messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	conversationID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Media-only messages are allowed; text-bearing ones are validated.
	if req.MediaURL == "" {
		if err := middleware.ValidateMessageText(req.Text); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	msg, err := h.service.Send(r.Context(), conversationID, &req)
	if err != nil {
		writeStoreError(w, err, "conversation not found")
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

// List handles GET /api/v1/conversations/{id}/messages
//
// Messages are returned oldest first, the order a chat window renders.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	conversationID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	msgs, err := h.service.ListByConversation(r.Context(), conversationID)
	if err != nil {
		h.logger.Error("failed to list messages")
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}

	writeJSON(w, http.StatusOK, model.ListMessagesResponse{
		Messages: msgs,
		Total:    len(msgs),
	})
}

// MarkAsRead handles POST /api/v1/conversations/{id}/messages/read
func (h *MessageHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	conversationID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	count, err := h.service.MarkAsRead(r.Context(), conversationID)
	if err != nil {
		writeStoreError(w, err, "conversation not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"marked_read": count,
	})
}

// Search handles GET /api/v1/messages/search
func (h *MessageHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if query := q.Get("q"); query != "" {
		msgs, err := h.service.SearchByText(ctx, query)
		if err != nil {
			h.logger.Error("failed to search messages")
			writeError(w, http.StatusInternalServerError, "failed to search messages")
			return
		}
		writeJSON(w, http.StatusOK, model.ListMessagesResponse{Messages: msgs, Total: len(msgs)})
		return
	}

	if q.Get("sent_after") != "" || q.Get("sent_before") != "" {
		start, end, err := parseDateRange(q.Get("sent_after"), q.Get("sent_before"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		msgs, err := h.service.SentBetween(ctx, start, end)
		if err != nil {
			h.logger.Error("failed to search messages")
			writeError(w, http.StatusInternalServerError, "failed to search messages")
			return
		}
		writeJSON(w, http.StatusOK, model.ListMessagesResponse{Messages: msgs, Total: len(msgs)})
		return
	}

	writeError(w, http.StatusBadRequest, "q or a sent_after/sent_before range is required")
}
