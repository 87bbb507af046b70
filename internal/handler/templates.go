package handler

import (
	"encoding/json"
	"net/http"

	"github.com/whatsflow/crm-platform/internal/middleware"
	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/service"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

// TemplateHandler handles message template endpoints.
type TemplateHandler struct {
	service *service.TemplateService
	logger  *logger.Logger
}

// NewTemplateHandler creates a new template handler.
func NewTemplateHandler(svc *service.TemplateService, log *logger.Logger) *TemplateHandler {
	return &TemplateHandler{
		service: svc,
		logger:  log,
	}
}

// Create handles POST /api/v1/templates
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateName(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateTemplateContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tpl, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create template")
		writeError(w, http.StatusInternalServerError, "failed to create template")
		return
	}

	writeJSON(w, http.StatusCreated, tpl)
}

// List handles GET /api/v1/templates
//
// Supports category and q (content substring) query filters.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		tpls []*model.Template
		err  error
	)

	switch {
	case q.Get("category") != "":
		tpls, err = h.service.FilterByCategory(ctx, q.Get("category"))
	case q.Get("q") != "":
		tpls, err = h.service.SearchByContent(ctx, q.Get("q"))
	default:
		tpls, err = h.service.GetAll(ctx)
	}

	if err != nil {
		h.logger.Error("failed to list templates")
		writeError(w, http.StatusInternalServerError, "failed to list templates")
		return
	}

	writeJSON(w, http.StatusOK, model.ListTemplatesResponse{
		Templates: tpls,
		Total:     len(tpls),
	})
}

// Get handles GET /api/v1/templates/{id}
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	tpl, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "template not found")
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// Update handles PUT /api/v1/templates/{id}
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req model.UpdateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Content != "" {
		if err := middleware.ValidateTemplateContent(req.Content); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	tpl, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeStoreError(w, err, "template not found")
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// Delete handles DELETE /api/v1/templates/{id}
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "template not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Render handles POST /api/v1/templates/{id}/render
func (h *TemplateHandler) Render(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req model.RenderTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rendered, err := h.service.Render(r.Context(), id, req.Values)
	if err != nil {
		writeStoreError(w, err, "template not found")
		return
	}

	writeJSON(w, http.StatusOK, rendered)
}
