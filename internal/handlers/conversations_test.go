// File: internal/handlers/conversations_test.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"llmgate/internal/domain"
)

func TestCreateConversationWithBody(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/v1/conversations",
		`{"title":"Planning","model_id":"other-model"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var conv domain.Conversation
	json.Unmarshal(rec.Body.Bytes(), &conv)
	if conv.ID == "" {
		t.Fatal("created conversation has no id")
	}
	if conv.Title != "Planning" || conv.ModelID != "other-model" {
		t.Errorf("body fields not applied: %+v", conv)
	}
}

func TestCreateConversationDefaults(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/v1/conversations", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var conv domain.Conversation
	json.Unmarshal(rec.Body.Bytes(), &conv)
	if conv.Title != "New Conversation" {
		t.Errorf("expected default title, got %q", conv.Title)
	}
	if conv.ModelID != "test-model" {
		t.Errorf("expected the active model, got %q", conv.ModelID)
	}
}

func TestListConversationsEmptyIsArray(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/v1/conversations", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var env ListEnvelope
	json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Object != "list" {
		t.Errorf("expected list envelope, got %q", env.Object)
	}
	if env.Data == nil {
		t.Error("empty list must serialize as [], not null")
	}
}

func TestGetConversationNotFound(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/v1/conversations/no-such-id", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var env ErrorEnvelope
	json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Error.Type != ErrTypeNotFound {
		t.Errorf("expected not_found, got %q", env.Error.Type)
	}
}

func TestUpdateConversation(t *testing.T) {
	api := newTestAPI(t)
	conv, _ := api.store.CreateConversation(context.Background(), "before", "test-model")

	rec := api.do(t, http.MethodPatch, "/v1/conversations/"+conv.ID, `{"title":"after"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated domain.Conversation
	json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.Title != "after" {
		t.Errorf("title not updated: %q", updated.Title)
	}
	if updated.ModelID != "test-model" {
		t.Errorf("omitted field must be untouched: %q", updated.ModelID)
	}
}

func TestUpdateConversationNotFound(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPatch, "/v1/conversations/missing", `{"title":"x"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteConversationThenGetIs404(t *testing.T) {
	api := newTestAPI(t)
	conv, _ := api.store.CreateConversation(context.Background(), "doomed", "test-model")

	rec := api.do(t, http.MethodDelete, "/v1/conversations/"+conv.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var del DeleteResponse
	json.Unmarshal(rec.Body.Bytes(), &del)
	if !del.Deleted || del.ID != conv.ID || del.Object != "conversation.deleted" {
		t.Errorf("unexpected delete response: %+v", del)
	}

	if rec := api.do(t, http.MethodGet, "/v1/conversations/"+conv.ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("deleted conversation still retrievable: %d", rec.Code)
	}
}

func TestDeleteConversationIdempotent(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodDelete, "/v1/conversations/never-existed", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown id, got %d", rec.Code)
	}
	var del DeleteResponse
	json.Unmarshal(rec.Body.Bytes(), &del)
	if !del.Deleted {
		t.Error("delete of unknown id must still report deleted")
	}
}

func TestConversationMessages(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()
	conv, _ := api.store.CreateConversation(ctx, "chat", "test-model")
	api.store.SaveMessage(ctx, &domain.Message{ConversationID: conv.ID, Role: domain.RoleUser, Content: "q"})
	api.store.SaveMessage(ctx, &domain.Message{ConversationID: conv.ID, Role: domain.RoleAssistant, Content: "a"})

	rec := api.do(t, http.MethodGet, "/v1/conversations/"+conv.ID+"/messages", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var env MessageListEnvelope
	json.Unmarshal(rec.Body.Bytes(), &env)
	if env.ConversationID != conv.ID {
		t.Errorf("envelope conversation id wrong: %q", env.ConversationID)
	}
	if len(env.Data) != 2 || env.Data[0].Content != "q" || env.Data[1].Content != "a" {
		t.Errorf("messages not returned in order: %+v", env.Data)
	}
}

func TestConversationMessagesUnknownConversation(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/v1/conversations/missing/messages", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListModels(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/v1/models", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var env struct {
		Object string        `json:"object"`
		Data   []ModelObject `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Object != "list" || len(env.Data) != 1 {
		t.Fatalf("unexpected models envelope: %s", rec.Body.String())
	}
	m := env.Data[0]
	if m.ID != "test-model" || m.Object != "model" || m.OwnedBy != "local" {
		t.Errorf("model object wrong: %+v", m)
	}
	if m.VRAMRequiredMB != 4096 {
		t.Errorf("vram field not carried through: %v", m.VRAMRequiredMB)
	}
}
