// File: internal/handlers/types.go
package handlers

import (
	openai "github.com/sashabaranov/go-openai"

	"llmgate/internal/domain"
)

// ChatCompletionRequest is the accepted completions body: the OpenAI
// fields plus the gateway's conversation-tracking extensions. The model
// field is accepted but never forces a model swap; the currently active
// model is always used.
type ChatCompletionRequest struct {
	openai.ChatCompletionRequest
	ConversationID string `json:"conversation_id,omitempty"`
	Persist        bool   `json:"persist,omitempty"`
	SystemPrompt   string `json:"system_prompt,omitempty"`
}

// persistent reports whether this request asked for conversation
// tracking.
func (r *ChatCompletionRequest) persistent() bool {
	return r.Persist || r.ConversationID != ""
}

// ConversationStreamResponse is a streamed chunk augmented with the
// conversation id, so a caller who did not supply one learns the
// generated id from the very first frame.
type ConversationStreamResponse struct {
	openai.ChatCompletionStreamResponse
	ConversationID string `json:"conversation_id"`
}

// ConversationCompletionResponse is the buffered completion object for
// the persistent non-streaming path.
type ConversationCompletionResponse struct {
	openai.ChatCompletionResponse
	ConversationID string `json:"conversation_id"`
}

// ListEnvelope wraps listing responses.
type ListEnvelope struct {
	Object string      `json:"object"`
	Data   interface{} `json:"data"`
}

// MessageListEnvelope wraps a conversation's message listing.
type MessageListEnvelope struct {
	Object         string           `json:"object"`
	ConversationID string           `json:"conversation_id"`
	Data           []domain.Message `json:"data"`
}

// DeleteResponse confirms a conversation delete.
type DeleteResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// CreateConversationRequest is the accepted create body.
type CreateConversationRequest struct {
	Title   string `json:"title,omitempty"`
	ModelID string `json:"model_id,omitempty"`
}

// UpdateConversationRequest carries the partial fields of an update.
type UpdateConversationRequest struct {
	Title   *string `json:"title,omitempty"`
	ModelID *string `json:"model_id,omitempty"`
}

// ModelObject is one entry of the models listing.
type ModelObject struct {
	ID                  string  `json:"id"`
	Object              string  `json:"object"`
	Created             int64   `json:"created"`
	OwnedBy             string  `json:"owned_by"`
	Root                string  `json:"root"`
	Parent              *string `json:"parent"`
	VRAMRequiredMB      float64 `json:"vram_required_mb,omitempty"`
	LowResourceRequired bool    `json:"low_resource_required,omitempty"`
}
