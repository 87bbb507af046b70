package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/whatsflow/crm-platform/internal/middleware"
	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/service"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

// ConversationHandler handles conversation endpoints.
type ConversationHandler struct {
	service *service.ConversationService
	logger  *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(svc *service.ConversationService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: svc,
		logger:  log,
	}
}

// Create handles POST /api/v1/conversations
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ContactID <= 0 {
		writeError(w, http.StatusBadRequest, "contact_id is required")
		return
	}

	conv, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create conversation")
		writeError(w, http.StatusInternalServerError, "failed to create conversation")
		return
	}

	writeJSON(w, http.StatusCreated, conv)
}

// List handles GET /api/v1/conversations
//
// Supports status and assigned_to query filters. Results are ordered
// most recent activity first.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		convs []*model.Conversation
		err   error
	)

	switch {
	case q.Get("status") != "":
		convs, err = h.service.FilterByStatus(ctx, model.ConversationStatus(q.Get("status")))
	case q.Get("assigned_to") != "":
		convs, err = h.service.FilterByAssignee(ctx, q.Get("assigned_to"))
	default:
		convs, err = h.service.GetAll(ctx)
	}

	if err != nil {
		h.logger.Error("failed to list conversations")
		writeError(w, http.StatusInternalServerError, "failed to list conversations")
		return
	}

	writeJSON(w, http.StatusOK, model.ListConversationsResponse{
		Conversations: convs,
		Total:         len(convs),
	})
}

// Get handles GET /api/v1/conversations/{id}
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	conv, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "conversation not found")
		return
	}

	writeJSON(w, http.StatusOK, conv)
}

// Delete handles DELETE /api/v1/conversations/{id}
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "conversation not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateStatus handles PUT /api/v1/conversations/{id}/status
func (h *ConversationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req model.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	conv, err := h.service.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		writeStoreError(w, err, "conversation not found")
		return
	}

	writeJSON(w, http.StatusOK, conv)
}

// Assign handles POST /api/v1/conversations/{id}/assign
func (h *ConversationHandler) Assign(w http.ResponseWriter, r *http.Request) {
	h.changeAssignment(w, r, h.service.AssignAgent)
}

// Reassign handles POST /api/v1/conversations/{id}/reassign
func (h *ConversationHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	h.changeAssignment(w, r, h.service.ReassignAgent)
}

// Transfer handles POST /api/v1/conversations/{id}/transfer
func (h *ConversationHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	h.changeAssignment(w, r, h.service.TransferChat)
}

type assignmentOp func(ctx context.Context, id int, req *model.AssignmentRequest) (*model.Conversation, error)

func (h *ConversationHandler) changeAssignment(w http.ResponseWriter, r *http.Request, op assignmentOp) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req model.AssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateAgentName(req.Agent); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := op(r.Context(), id, &req)
	if err != nil {
		writeStoreError(w, err, "conversation not found")
		return
	}

	writeJSON(w, http.StatusOK, conv)
}

// AddActivity handles POST /api/v1/conversations/{id}/activities
func (h *ConversationHandler) AddActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req model.AddActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, "type is required")
		return
	}

	conv, err := h.service.AddActivity(r.Context(), id, &req)
	if err != nil {
		writeStoreError(w, err, "conversation not found")
		return
	}

	writeJSON(w, http.StatusCreated, conv)
}

// AssignmentHistory handles GET /api/v1/conversations/{id}/assignment-history
func (h *ConversationHandler) AssignmentHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	entries, err := h.service.GetAssignmentHistory(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "conversation not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   len(entries),
	})
}

// AuditTrail handles GET /api/v1/conversations/{id}/audit
func (h *ConversationHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	entries, err := h.service.GetAuditTrail(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "conversation not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   len(entries),
	})
}

// MarkRead handles POST /api/v1/conversations/{id}/read
func (h *ConversationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	conv, err := h.service.ResetUnread(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "conversation not found")
		return
	}

	writeJSON(w, http.StatusOK, conv)
}
