// File: internal/domain/conversation.go
package domain

import "time"

// Conversation represents a single chat thread tracked by the gateway.
type Conversation struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title"`                      // Derived from the first user message if not set explicitly
	ModelID   string    `json:"model_id"`                   // Model active when the conversation was created
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}
