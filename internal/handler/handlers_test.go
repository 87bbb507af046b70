package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whatsflow/crm-platform/internal/events"
	"github.com/whatsflow/crm-platform/internal/handler"
	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/service"
	"github.com/whatsflow/crm-platform/internal/store"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	log := logger.NewNop()
	stores := store.NewStores()

	contactSvc := service.NewContactService(stores.Contacts, log)
	conversationSvc := service.NewConversationService(stores.Conversations, events.Noop{}, log)
	messageSvc := service.NewMessageService(stores.Messages, conversationSvc, log)
	templateSvc := service.NewTemplateService(stores.Templates, log)

	contactHandler := handler.NewContactHandler(contactSvc, log)
	conversationHandler := handler.NewConversationHandler(conversationSvc, log)
	messageHandler := handler.NewMessageHandler(messageSvc, log)
	templateHandler := handler.NewTemplateHandler(templateSvc, log)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/contacts", func(r chi.Router) {
			r.Post("/", contactHandler.Create)
			r.Get("/", contactHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", contactHandler.Get)
				r.Put("/", contactHandler.Update)
				r.Delete("/", contactHandler.Delete)
			})
		})
		r.Route("/conversations", func(r chi.Router) {
			r.Post("/", conversationHandler.Create)
			r.Get("/", conversationHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", conversationHandler.Get)
				r.Post("/assign", conversationHandler.Assign)
				r.Post("/reassign", conversationHandler.Reassign)
				r.Get("/assignment-history", conversationHandler.AssignmentHistory)
				r.Get("/messages", messageHandler.List)
				r.Post("/messages", messageHandler.Send)
			})
		})
		r.Route("/templates", func(r chi.Router) {
			r.Post("/", templateHandler.Create)
			r.Post("/{id}/render", templateHandler.Render)
		})
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestContactCRUDOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/contacts", model.CreateContactRequest{
		Name:  "Jane Doe",
		Phone: "+15551234567",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Contact
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, model.LeadStatusNew, created.LeadStatus)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/contacts/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPut, "/api/v1/contacts/1", model.UpdateContactRequest{Notes: "vip"})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.Contact
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
	assert.Equal(t, "vip", updated.Notes)
	assert.Equal(t, "Jane Doe", updated.Name)

	rec = doJSON(t, r, http.MethodDelete, "/api/v1/contacts/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/contacts/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContactValidationErrors(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/contacts", model.CreateContactRequest{
		Name:  "No Phone",
		Phone: "not-a-number",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/contacts/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignmentRoutesOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/conversations", model.CreateConversationRequest{ContactID: 1})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/v1/conversations/1/assign", model.AssignmentRequest{Agent: "A"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/v1/conversations/1/reassign", model.AssignmentRequest{Agent: "B", Reason: "shift change"})
	require.Equal(t, http.StatusOK, rec.Code)

	var conv model.Conversation
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&conv))
	assert.Equal(t, "B", conv.AssignedTo)
	assert.Equal(t, "A", conv.ReassignedFrom)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/conversations/1/assignment-history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var history struct {
		Entries []model.AuditEntry `json:"entries"`
		Total   int                `json:"total"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&history))
	assert.Equal(t, 2, history.Total)

	// Blank agent is rejected before touching the store.
	rec = doJSON(t, r, http.MethodPost, "/api/v1/conversations/1/assign", model.AssignmentRequest{Agent: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/v1/conversations/99/assign", model.AssignmentRequest{Agent: "C"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendMessageOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/conversations", model.CreateConversationRequest{ContactID: 1})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/v1/conversations/1/messages", model.SendMessageRequest{Text: "hello"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/conversations/1/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list model.ListMessagesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "hello", list.Messages[0].Text)

	// Sending into a conversation that does not exist is a 404.
	rec = doJSON(t, r, http.MethodPost, "/api/v1/conversations/42/messages", model.SendMessageRequest{Text: "hi"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The conversation preview follows the latest message.
	rec = doJSON(t, r, http.MethodGet, "/api/v1/conversations/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var conv model.Conversation
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&conv))
	assert.Equal(t, "hello", conv.LastMessage)
}

func TestRenderTemplateOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/templates", model.CreateTemplateRequest{
		Name:    "greeting",
		Content: "Hi {{name}}, your order {{order_id}} shipped.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var tpl model.Template
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tpl))
	assert.Equal(t, []string{"name", "order_id"}, tpl.Variables)

	rec = doJSON(t, r, http.MethodPost, "/api/v1/templates/1/render", model.RenderTemplateRequest{
		Values: map[string]string{"name": "Jane"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var rendered model.RenderTemplateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rendered))
	assert.Equal(t, "Hi Jane, your order {{order_id}} shipped.", rendered.Content)
	assert.Equal(t, []string{"order_id"}, rendered.Missing)
}
