package handler

import (
	"encoding/json"
	"net/http"

	"github.com/whatsflow/crm-platform/internal/middleware"
	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/service"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

// FlowHandler handles chatbot flow endpoints.
type FlowHandler struct {
	service *service.FlowService
	logger  *logger.Logger
}

// NewFlowHandler creates a new flow handler.
func NewFlowHandler(svc *service.FlowService, log *logger.Logger) *FlowHandler {
	return &FlowHandler{
		service: svc,
		logger:  log,
	}
}

// Create handles POST /api/v1/flows
func (h *FlowHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateName(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flow, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create flow")
		writeError(w, http.StatusInternalServerError, "failed to create flow")
		return
	}

	writeJSON(w, http.StatusCreated, flow)
}

// List handles GET /api/v1/flows
func (h *FlowHandler) List(w http.ResponseWriter, r *http.Request) {
	flows, err := h.service.GetAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list flows")
		writeError(w, http.StatusInternalServerError, "failed to list flows")
		return
	}

	writeJSON(w, http.StatusOK, model.ListFlowsResponse{
		Flows: flows,
		Total: len(flows),
	})
}

// Get handles GET /api/v1/flows/{id}
func (h *FlowHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	flow, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "flow not found")
		return
	}

	writeJSON(w, http.StatusOK, flow)
}

// Update handles PUT /api/v1/flows/{id}
func (h *FlowHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req model.UpdateFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flow, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeStoreError(w, err, "flow not found")
		return
	}

	writeJSON(w, http.StatusOK, flow)
}

// Delete handles DELETE /api/v1/flows/{id}
func (h *FlowHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "flow not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetActive handles PUT /api/v1/flows/{id}/active
func (h *FlowHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var body struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flow, err := h.service.SetActive(r.Context(), id, body.Active)
	if err != nil {
		writeStoreError(w, err, "flow not found")
		return
	}

	writeJSON(w, http.StatusOK, flow)
}

// Duplicate handles POST /api/v1/flows/{id}/duplicate
func (h *FlowHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var body struct {
		Name string `json:"name,omitempty"`
	}
	// An empty body is fine; the copy gets a derived name.
	json.NewDecoder(r.Body).Decode(&body)

	flow, err := h.service.Duplicate(r.Context(), id, body.Name)
	if err != nil {
		writeStoreError(w, err, "flow not found")
		return
	}

	writeJSON(w, http.StatusCreated, flow)
}
