package handler

import (
	"net/http"

	"github.com/whatsflow/crm-platform/internal/events"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	publisher events.Publisher
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(pub events.Publisher) *HealthHandler {
	return &HealthHandler{
		publisher: pub,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	// Event publishing is optional; only a configured NATS publisher
	// gates readiness.
	if np, ok := h.publisher.(*events.NATSPublisher); ok && !np.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "NATS not connected",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
