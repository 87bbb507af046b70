package handler

import (
	"encoding/json"
	"net/http"

	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/service"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

// BillingHandler handles billing account endpoints.
type BillingHandler struct {
	service *service.BillingService
	logger  *logger.Logger
}

// NewBillingHandler creates a new billing handler.
func NewBillingHandler(svc *service.BillingService, log *logger.Logger) *BillingHandler {
	return &BillingHandler{
		service: svc,
		logger:  log,
	}
}

// Get handles GET /api/v1/billing/{id}
func (h *BillingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	acct, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "billing account not found")
		return
	}

	writeJSON(w, http.StatusOK, acct)
}

// GetByClient handles GET /api/v1/clients/{id}/billing
func (h *BillingHandler) GetByClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	acct, err := h.service.GetByClient(r.Context(), clientID)
	if err != nil {
		writeStoreError(w, err, "billing account not found")
		return
	}

	writeJSON(w, http.StatusOK, acct)
}

// ListInvoices handles GET /api/v1/billing/{id}/invoices
func (h *BillingHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	invoices, err := h.service.ListInvoices(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "billing account not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"total":    len(invoices),
	})
}

// AddPaymentMethod handles POST /api/v1/billing/{id}/payment-methods
func (h *BillingHandler) AddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req model.AddPaymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	acct, err := h.service.AddPaymentMethod(r.Context(), id, &req)
	if err != nil {
		writeStoreError(w, err, "billing account not found")
		return
	}

	writeJSON(w, http.StatusCreated, acct)
}

// SetDefaultPaymentMethod handles PUT /api/v1/billing/{id}/payment-methods/default
func (h *BillingHandler) SetDefaultPaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	acct, err := h.service.SetDefaultPaymentMethod(r.Context(), id, body.Token)
	if err != nil {
		writeStoreError(w, err, "payment method not found")
		return
	}

	writeJSON(w, http.StatusOK, acct)
}

// ChangePlan handles PUT /api/v1/billing/{id}/plan
func (h *BillingHandler) ChangePlan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req model.ChangePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Plan == "" {
		writeError(w, http.StatusBadRequest, "plan is required")
		return
	}

	acct, err := h.service.ChangePlan(r.Context(), id, req.Plan)
	if err != nil {
		writeStoreError(w, err, "billing account not found")
		return
	}

	writeJSON(w, http.StatusOK, acct)
}

// CancelSubscription handles POST /api/v1/billing/{id}/cancel
func (h *BillingHandler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	acct, err := h.service.CancelSubscription(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "billing account not found")
		return
	}

	writeJSON(w, http.StatusOK, acct)
}
