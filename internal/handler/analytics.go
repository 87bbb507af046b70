package handler

import (
	"net/http"

	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/store"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

// AnalyticsHandler serves dashboard summary counts.
type AnalyticsHandler struct {
	stores *store.Stores
	logger *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(stores *store.Stores, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		stores: stores,
		logger: log,
	}
}

// Summary handles GET /api/v1/analytics/summary
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	contacts, err := h.stores.Contacts.Count(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}
	messages, err := h.stores.Messages.Count(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}
	templates, err := h.stores.Templates.Count(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}
	flows, err := h.stores.Flows.Count(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	convs, err := h.stores.Conversations.GetAll(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	byStatus := map[model.ConversationStatus]int{}
	unread := 0
	for _, c := range convs {
		byStatus[c.Status]++
		unread += c.UnreadCount
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"contacts":                contacts,
		"conversations":           len(convs),
		"conversations_by_status": byStatus,
		"unread_messages":         unread,
		"messages":                messages,
		"templates":               templates,
		"flows":                   flows,
	})
}
