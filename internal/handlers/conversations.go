// File: internal/handlers/conversations.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"llmgate/internal/domain"
	"llmgate/internal/engine"
	"llmgate/internal/logging"
	"llmgate/internal/router"
	"llmgate/internal/store"
)

const defaultConversationTitle = "New Conversation"

// ConversationHandler is the thin mapping from HTTP-shaped requests to
// store operations.
type ConversationHandler struct {
	store  store.Store
	handle *engine.Handle
	logger logging.Logger
}

func NewConversationHandler(s store.Store, handle *engine.Handle, logger logging.Logger) *ConversationHandler {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	return &ConversationHandler{store: s, handle: handle, logger: logger}
}

// List handles GET /v1/conversations.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request, _ router.Params) {
	convs, err := h.store.ListConversations(r.Context())
	if err != nil {
		h.logger.Error("failed to list conversations", "error", err)
		writeError(w, http.StatusInternalServerError, ErrTypeServer, "", "could not list conversations")
		return
	}
	if convs == nil {
		convs = []domain.Conversation{}
	}
	writeJSON(w, http.StatusOK, ListEnvelope{Object: "list", Data: convs})
}

// Create handles POST /v1/conversations.
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request, _ router.Params) {
	var req CreateConversationRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, "", "request body is not valid JSON")
			return
		}
	}

	if req.Title == "" {
		req.Title = defaultConversationTitle
	}
	if req.ModelID == "" {
		req.ModelID = h.handle.ModelID()
	}

	conv, err := h.store.CreateConversation(r.Context(), req.Title, req.ModelID)
	if err != nil {
		h.logger.Error("failed to create conversation", "error", err)
		writeError(w, http.StatusInternalServerError, ErrTypeServer, "", "could not create conversation")
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

// Get handles GET /v1/conversations/{id}.
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request, p router.Params) {
	conv, err := h.store.GetConversation(r.Context(), p["id"])
	if err != nil {
		h.logger.Error("failed to get conversation", "id", p["id"], "error", err)
		writeError(w, http.StatusInternalServerError, ErrTypeServer, "", "could not get conversation")
		return
	}
	if conv == nil {
		writeError(w, http.StatusNotFound, ErrTypeNotFound, "", "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// Update handles PATCH /v1/conversations/{id}.
func (h *ConversationHandler) Update(w http.ResponseWriter, r *http.Request, p router.Params) {
	var req UpdateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, "", "request body is not valid JSON")
		return
	}

	conv, err := h.store.UpdateConversation(r.Context(), p["id"], store.ConversationUpdate{
		Title:   req.Title,
		ModelID: req.ModelID,
	})
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrTypeNotFound, "", "conversation not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to update conversation", "id", p["id"], "error", err)
		writeError(w, http.StatusInternalServerError, ErrTypeServer, "", "could not update conversation")
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// Delete handles DELETE /v1/conversations/{id}. Deleting a nonexistent
// id still reports success.
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request, p router.Params) {
	if err := h.store.DeleteConversation(r.Context(), p["id"]); err != nil {
		h.logger.Error("failed to delete conversation", "id", p["id"], "error", err)
		writeError(w, http.StatusInternalServerError, ErrTypeServer, "", "could not delete conversation")
		return
	}
	writeJSON(w, http.StatusOK, DeleteResponse{
		ID:      p["id"],
		Object:  "conversation.deleted",
		Deleted: true,
	})
}

// Messages handles GET /v1/conversations/{id}/messages.
func (h *ConversationHandler) Messages(w http.ResponseWriter, r *http.Request, p router.Params) {
	conv, err := h.store.GetConversation(r.Context(), p["id"])
	if err != nil {
		h.logger.Error("failed to get conversation", "id", p["id"], "error", err)
		writeError(w, http.StatusInternalServerError, ErrTypeServer, "", "could not get conversation")
		return
	}
	if conv == nil {
		writeError(w, http.StatusNotFound, ErrTypeNotFound, "", "conversation not found")
		return
	}

	msgs, err := h.store.GetMessages(r.Context(), p["id"])
	if err != nil {
		h.logger.Error("failed to get messages", "id", p["id"], "error", err)
		writeError(w, http.StatusInternalServerError, ErrTypeServer, "", "could not get messages")
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	writeJSON(w, http.StatusOK, MessageListEnvelope{
		Object:         "list",
		ConversationID: p["id"],
		Data:           msgs,
	})
}
