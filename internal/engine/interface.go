// File: internal/engine/interface.go

// Package engine defines the contract the gateway consumes from an
// inference engine and the adapter for OpenAI-compatible upstreams.
package engine

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// Stream yields incremental completion chunks in emission order.
// Recv returns io.EOF after the terminal chunk.
type Stream interface {
	Recv() (openai.ChatCompletionStreamResponse, error)
	Close() error
}

// Engine is the opaque inference capability behind the gateway. It
// accepts an OpenAI-shaped chat-completion request and returns either a
// single completion object or a stream of delta chunks.
type Engine interface {
	Complete(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CompleteStream(ctx context.Context, req openai.ChatCompletionRequest) (Stream, error)
}
