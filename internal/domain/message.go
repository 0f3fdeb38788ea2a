// File: internal/domain/message.go
package domain

import "time"

// Message roles. Assistant messages are written once after a stream
// completes; saved messages are never updated.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message within a conversation. Ordering
// within a conversation is by ascending Timestamp, ID breaking ties.
type Message struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	ConversationID string    `json:"conversation_id" gorm:"index;index:idx_conversation_timestamp,priority:1"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp" gorm:"index:idx_conversation_timestamp,priority:2"`
}
