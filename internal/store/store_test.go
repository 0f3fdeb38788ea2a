// File: internal/store/store_test.go
package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"llmgate/internal/domain"
	"llmgate/internal/logging"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	s := New(filepath.Join(t.TempDir(), "llmgate.db"), &logging.NoOpLogger{})
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
}

func TestCreateConversationSetsTimestamps(t *testing.T) {
	s := newTestStore(t)

	conv, err := s.CreateConversation(context.Background(), "Test Conv", "m1")
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}

	if conv.ID == "" {
		t.Error("expected a generated id")
	}
	if conv.Title != "Test Conv" || conv.ModelID != "m1" {
		t.Errorf("unexpected record: %+v", conv)
	}
	if !conv.UpdatedAt.Equal(conv.CreatedAt) {
		t.Errorf("expected UpdatedAt == CreatedAt, got %v and %v", conv.UpdatedAt, conv.CreatedAt)
	}
}

func TestGetConversationAbsent(t *testing.T) {
	s := newTestStore(t)

	conv, err := s.GetConversation(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("absent lookup should not error, got %v", err)
	}
	if conv != nil {
		t.Errorf("expected nil for absent conversation, got %+v", conv)
	}
}

func TestListConversationsOrderedByActivity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, _ := s.CreateConversation(ctx, "first", "m1")
	second, _ := s.CreateConversation(ctx, "second", "m1")

	// Touch the first conversation by saving a message into it.
	if _, err := s.SaveMessage(ctx, &domain.Message{
		ConversationID: first.ID,
		Role:           domain.RoleUser,
		Content:        "hello",
		Timestamp:      time.Now().UTC().Add(time.Second),
	}); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}

	convs, err := s.ListConversations(ctx)
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(convs))
	}
	if convs[0].ID != first.ID || convs[1].ID != second.ID {
		t.Errorf("expected most recently active first, got %s then %s", convs[0].ID, convs[1].ID)
	}
}

func TestUpdateConversation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	conv, _ := s.CreateConversation(ctx, "old title", "m1")

	title := "new title"
	updated, err := s.UpdateConversation(ctx, conv.ID, ConversationUpdate{Title: &title})
	if err != nil {
		t.Fatalf("UpdateConversation failed: %v", err)
	}
	if updated.Title != "new title" {
		t.Errorf("title not updated: %q", updated.Title)
	}
	if updated.ModelID != "m1" {
		t.Errorf("model id should be untouched: %q", updated.ModelID)
	}
	if updated.UpdatedAt.Before(conv.UpdatedAt) {
		t.Error("UpdatedAt should advance on metadata change")
	}
}

func TestUpdateConversationNotFound(t *testing.T) {
	s := newTestStore(t)

	title := "x"
	_, err := s.UpdateConversation(context.Background(), "missing", ConversationUpdate{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// The failed update must not create a record as a side effect.
	conv, _ := s.GetConversation(context.Background(), "missing")
	if conv != nil {
		t.Error("update of a missing id created a record")
	}
}

func TestDeleteConversationIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.DeleteConversation(ctx, "never-existed"); err != nil {
		t.Fatalf("deleting a nonexistent id should succeed, got %v", err)
	}

	conv, _ := s.CreateConversation(ctx, "doomed", "m1")
	s.SaveMessage(ctx, &domain.Message{ConversationID: conv.ID, Role: domain.RoleUser, Content: "hi"})

	if err := s.DeleteConversation(ctx, conv.ID); err != nil {
		t.Fatalf("DeleteConversation failed: %v", err)
	}
	if err := s.DeleteConversation(ctx, conv.ID); err != nil {
		t.Fatalf("second delete should succeed, got %v", err)
	}

	got, _ := s.GetConversation(ctx, conv.ID)
	if got != nil {
		t.Error("conversation still visible after delete")
	}
	count, _ := s.GetMessageCount(ctx, conv.ID)
	if count != 0 {
		t.Errorf("expected 0 messages after delete, got %d", count)
	}
}

func TestMessageOrderingMatchesSaveOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	conv, _ := s.CreateConversation(ctx, "ordered", "m1")
	base := time.Now().UTC()
	contents := []string{"one", "two", "three", "four"}
	for i, c := range contents {
		if _, err := s.SaveMessage(ctx, &domain.Message{
			ConversationID: conv.ID,
			Role:           domain.RoleUser,
			Content:        c,
			Timestamp:      base.Add(time.Duration(i) * time.Millisecond),
		}); err != nil {
			t.Fatalf("SaveMessage failed: %v", err)
		}
	}

	msgs, err := s.GetMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	if len(msgs) != len(contents) {
		t.Fatalf("expected %d messages, got %d", len(contents), len(msgs))
	}
	for i, m := range msgs {
		if m.Content != contents[i] {
			t.Errorf("position %d: expected %q, got %q", i, contents[i], m.Content)
		}
		if i > 0 && m.Timestamp.Before(msgs[i-1].Timestamp) {
			t.Errorf("timestamps out of order at position %d", i)
		}
	}
}

func TestMessagesAreScopedToConversation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, _ := s.CreateConversation(ctx, "a", "m1")
	b, _ := s.CreateConversation(ctx, "b", "m1")

	s.SaveMessage(ctx, &domain.Message{ConversationID: a.ID, Role: domain.RoleUser, Content: "for a"})
	s.SaveMessage(ctx, &domain.Message{ConversationID: b.ID, Role: domain.RoleUser, Content: "for b"})

	msgs, _ := s.GetMessages(ctx, b.ID)
	if len(msgs) != 1 || msgs[0].Content != "for b" {
		t.Errorf("conversation b leaked messages: %+v", msgs)
	}
}

func TestSaveMessageTouchesConversation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	conv, _ := s.CreateConversation(ctx, "touched", "m1")
	before := conv.UpdatedAt

	stamp := time.Now().UTC().Add(2 * time.Second)
	msg, err := s.SaveMessage(ctx, &domain.Message{
		ConversationID: conv.ID,
		Role:           domain.RoleUser,
		Content:        "tick",
		Timestamp:      stamp,
	})
	if err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}

	got, _ := s.GetConversation(ctx, conv.ID)
	if !got.UpdatedAt.Equal(msg.Timestamp) {
		t.Errorf("UpdatedAt %v does not match message timestamp %v", got.UpdatedAt, msg.Timestamp)
	}
	if !got.UpdatedAt.After(before) {
		t.Error("UpdatedAt did not advance after save")
	}
}

func TestSaveMessageWithoutParentStillSucceeds(t *testing.T) {
	s := newTestStore(t)

	msg, err := s.SaveMessage(context.Background(), &domain.Message{
		ConversationID: "orphan-parent",
		Role:           domain.RoleUser,
		Content:        "stray",
	})
	if err != nil {
		t.Fatalf("SaveMessage should succeed with the touch as a no-op, got %v", err)
	}
	if msg.ID == "" {
		t.Error("expected a generated message id")
	}
}

func TestClearAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	conv, _ := s.CreateConversation(ctx, "gone", "m1")
	s.SaveMessage(ctx, &domain.Message{ConversationID: conv.ID, Role: domain.RoleUser, Content: "x"})

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	convs, _ := s.ListConversations(ctx)
	if len(convs) != 0 {
		t.Errorf("expected empty store, got %d conversations", len(convs))
	}
}

func TestOperationsFailAfterClose(t *testing.T) {
	s := newTestStore(t)
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := s.CreateConversation(context.Background(), "t", "m"); !errors.Is(err, ErrNotOpen) {
		t.Errorf("CreateConversation after Close: expected ErrNotOpen, got %v", err)
	}
	if _, err := s.ListConversations(context.Background()); !errors.Is(err, ErrNotOpen) {
		t.Errorf("ListConversations after Close: expected ErrNotOpen, got %v", err)
	}
	if err := s.DeleteConversation(context.Background(), "x"); !errors.Is(err, ErrNotOpen) {
		t.Errorf("DeleteConversation after Close: expected ErrNotOpen, got %v", err)
	}
}
