package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/service"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

// FeatureHandler handles feature flag endpoints.
type FeatureHandler struct {
	service *service.FeatureService
	logger  *logger.Logger
}

// NewFeatureHandler creates a new feature handler.
func NewFeatureHandler(svc *service.FeatureService, log *logger.Logger) *FeatureHandler {
	return &FeatureHandler{
		service: svc,
		logger:  log,
	}
}

// List handles GET /api/v1/features
func (h *FeatureHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		features []*model.Feature
		err      error
	)

	if c := r.URL.Query().Get("client_id"); c != "" {
		clientID, perr := strconv.Atoi(c)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid client_id")
			return
		}
		features, err = h.service.ListByClient(ctx, clientID)
	} else {
		features, err = h.service.GetAll(ctx)
	}

	if err != nil {
		h.logger.Error("failed to list features")
		writeError(w, http.StatusInternalServerError, "failed to list features")
		return
	}

	writeJSON(w, http.StatusOK, model.ListFeaturesResponse{
		Features: features,
		Total:    len(features),
	})
}

// Check handles GET /api/v1/clients/{id}/features/{key}
func (h *FeatureHandler) Check(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	key := chi.URLParam(r, "key")

	enabled, err := h.service.IsEnabled(r.Context(), clientID, key)
	if err != nil {
		h.logger.Error("failed to check feature")
		writeError(w, http.StatusInternalServerError, "failed to check feature")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"key":     key,
		"enabled": enabled,
	})
}

// Set handles PUT /api/v1/features
//
// Upserts the flag for the client and key in the request body.
func (h *FeatureHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req model.SetFeatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ClientID <= 0 || req.Key == "" {
		writeError(w, http.StatusBadRequest, "client_id and key are required")
		return
	}

	feature, err := h.service.SetEnabled(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to set feature")
		writeError(w, http.StatusInternalServerError, "failed to set feature")
		return
	}

	writeJSON(w, http.StatusOK, feature)
}

// Delete handles DELETE /api/v1/features/{id}
func (h *FeatureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "feature not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
