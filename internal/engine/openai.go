// File: internal/engine/openai.go
package engine

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// Config holds the connection settings for an OpenAI-compatible
// upstream (llama.cpp, ollama, vLLM and friends on loopback).
type Config struct {
	BaseURL string
	APIKey  string
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return NewConfigError("UPSTREAM_BASE_URL is required")
	}
	return nil
}

// OpenAIEngine adapts an OpenAI-compatible HTTP upstream to the Engine
// interface.
type OpenAIEngine struct {
	config *Config
	client *openai.Client
}

func NewOpenAIEngine(config *Config) (*OpenAIEngine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = config.BaseURL
	client := openai.NewClientWithConfig(clientConfig)

	return &OpenAIEngine{config: config, client: client}, nil
}

func (e *OpenAIEngine) Complete(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return openai.ChatCompletionResponse{}, NewProviderError("completion", "failed to create completion", err)
	}
	return resp, nil
}

func (e *OpenAIEngine) CompleteStream(ctx context.Context, req openai.ChatCompletionRequest) (Stream, error) {
	req.Stream = true
	stream, err := e.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, NewProviderError("streaming", "failed to create stream", err)
	}
	return stream, nil
}
