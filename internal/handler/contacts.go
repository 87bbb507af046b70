// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/whatsflow/crm-platform/internal/middleware"
	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/service"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

// ContactHandler handles contact endpoints.
type ContactHandler struct {
	service *service.ContactService
	logger  *logger.Logger
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(svc *service.ContactService, log *logger.Logger) *ContactHandler {
	return &ContactHandler{
		service: svc,
		logger:  log,
	}
}

// Create handles POST /api/v1/contacts
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateName(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidatePhone(req.Phone); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contact, err := h.service.Create(ctx, &req)
	if err != nil {
		h.logger.Error("failed to create contact")
		writeError(w, http.StatusInternalServerError, "failed to create contact")
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

// List handles GET /api/v1/contacts
//
// Supports q (name, phone, notes, tag substring search), lead_status,
// tag, assigned_to, created_after and created_before query filters.
// Filters are applied one at a time, first match wins.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		contacts []*model.Contact
		err      error
	)

	switch {
	case q.Get("q") != "":
		contacts, err = h.service.SearchByName(ctx, q.Get("q"))
	case q.Get("lead_status") != "":
		contacts, err = h.service.FilterByLeadStatus(ctx, model.LeadStatus(q.Get("lead_status")))
	case q.Get("tag") != "":
		contacts, err = h.service.FilterByTag(ctx, q.Get("tag"))
	case q.Get("assigned_to") != "":
		contacts, err = h.service.FilterByAssignee(ctx, q.Get("assigned_to"))
	case q.Get("created_after") != "" || q.Get("created_before") != "":
		var start, end time.Time
		if start, end, err = parseDateRange(q.Get("created_after"), q.Get("created_before")); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		contacts, err = h.service.CreatedBetween(ctx, start, end)
	default:
		contacts, err = h.service.GetAll(ctx)
	}

	if err != nil {
		h.logger.Error("failed to list contacts")
		writeError(w, http.StatusInternalServerError, "failed to list contacts")
		return
	}

	writeJSON(w, http.StatusOK, model.ListContactsResponse{
		Contacts: contacts,
		Total:    len(contacts),
	})
}

// Get handles GET /api/v1/contacts/{id}
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	contact, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "contact not found")
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// Update handles PUT /api/v1/contacts/{id}
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req model.UpdateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Phone != "" {
		if err := middleware.ValidatePhone(req.Phone); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	contact, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeStoreError(w, err, "contact not found")
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// Delete handles DELETE /api/v1/contacts/{id}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "contact not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseDateRange parses RFC 3339 or date-only bounds. A missing bound
// defaults to the zero time or far future respectively.
func parseDateRange(after, before string) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

	var err error
	if after != "" {
		if start, err = parseTimeParam(after); err != nil {
			return start, end, err
		}
	}
	if before != "" {
		if end, err = parseTimeParam(before); err != nil {
			return start, end, err
		}
	}
	return start, end, nil
}

func parseTimeParam(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
