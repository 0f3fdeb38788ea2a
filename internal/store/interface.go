// File: internal/store/interface.go
package store

import (
	"context"

	"llmgate/internal/domain"
)

// Store is the single writer surface for Conversation and Message
// records. All reads reflect completed writes at call time.
type Store interface {
	// Open creates the underlying database and indexes if absent.
	// Idempotent; fails with ErrStorageUnavailable if the platform
	// denies storage access.
	Open(ctx context.Context) error

	CreateConversation(ctx context.Context, title, modelID string) (*domain.Conversation, error)

	// ListConversations returns all conversations ordered by UpdatedAt
	// descending, most recently active first.
	ListConversations(ctx context.Context) ([]domain.Conversation, error)

	// GetConversation returns (nil, nil) when the id does not exist.
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)

	// UpdateConversation merges the provided fields into an existing
	// record. Returns ErrNotFound if the id does not exist; never
	// creates a record.
	UpdateConversation(ctx context.Context, id string, fields ConversationUpdate) (*domain.Conversation, error)

	// DeleteConversation removes the conversation and every message it
	// owns in one atomic unit. Deleting a nonexistent id is not an error.
	DeleteConversation(ctx context.Context, id string) error

	// SaveMessage generates the message id and, in the same atomic unit,
	// sets the parent conversation's UpdatedAt to the message timestamp.
	// If the parent vanished concurrently the touch becomes a no-op.
	SaveMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error)

	// GetMessages returns the conversation's messages in ascending
	// timestamp order.
	GetMessages(ctx context.Context, conversationID string) ([]domain.Message, error)

	GetMessageCount(ctx context.Context, conversationID string) (int64, error)

	// ClearAll wipes every conversation and message. For test/reset use.
	ClearAll(ctx context.Context) error

	// Close releases the database handle. Subsequent operations fail
	// with ErrNotOpen until Open is called again.
	Close() error
}

// ConversationUpdate carries the mutable conversation fields for a
// partial update. Nil pointers leave the stored value unchanged.
type ConversationUpdate struct {
	Title   *string
	ModelID *string
}
