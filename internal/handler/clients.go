package handler

import (
	"encoding/json"
	"net/http"

	"github.com/whatsflow/crm-platform/internal/middleware"
	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/service"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

// ClientHandler handles client workspace endpoints.
type ClientHandler struct {
	service *service.ClientService
	logger  *logger.Logger
}

// NewClientHandler creates a new client handler.
func NewClientHandler(svc *service.ClientService, log *logger.Logger) *ClientHandler {
	return &ClientHandler{
		service: svc,
		logger:  log,
	}
}

// Create handles POST /api/v1/clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateName(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	client, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create client")
		writeError(w, http.StatusInternalServerError, "failed to create client")
		return
	}

	writeJSON(w, http.StatusCreated, client)
}

// List handles GET /api/v1/clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		clients []*model.Client
		err     error
	)

	if plan := r.URL.Query().Get("plan"); plan != "" {
		clients, err = h.service.FilterByPlan(ctx, plan)
	} else {
		clients, err = h.service.GetAll(ctx)
	}

	if err != nil {
		h.logger.Error("failed to list clients")
		writeError(w, http.StatusInternalServerError, "failed to list clients")
		return
	}

	writeJSON(w, http.StatusOK, model.ListClientsResponse{
		Clients: clients,
		Total:   len(clients),
	})
}

// Get handles GET /api/v1/clients/{id}
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	client, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "client not found")
		return
	}

	writeJSON(w, http.StatusOK, client)
}

// Update handles PUT /api/v1/clients/{id}
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req model.UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	client, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeStoreError(w, err, "client not found")
		return
	}

	writeJSON(w, http.StatusOK, client)
}

// Delete handles DELETE /api/v1/clients/{id}
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "client not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetStatus handles PUT /api/v1/clients/{id}/status
func (h *ClientHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var body struct {
		Status model.ClientStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	client, err := h.service.SetStatus(r.Context(), id, body.Status)
	if err != nil {
		writeStoreError(w, err, "client not found")
		return
	}

	writeJSON(w, http.StatusOK, client)
}
