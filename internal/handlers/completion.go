// File: internal/handlers/completion.go
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"llmgate/internal/domain"
	"llmgate/internal/engine"
	"llmgate/internal/logging"
	"llmgate/internal/router"
	"llmgate/internal/store"
	"llmgate/internal/window"
)

// titleRuneLimit bounds the conversation title derived from the first
// user message.
const titleRuneLimit = 50

// CompletionHandler orchestrates a completion request: load history,
// apply the sliding window, invoke the engine, stream or buffer the
// response, persist the result.
type CompletionHandler struct {
	store     store.Store
	handle    *engine.Handle
	maxWindow int
	logger    logging.Logger
}

func NewCompletionHandler(s store.Store, handle *engine.Handle, maxWindow int, logger logging.Logger) *CompletionHandler {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	return &CompletionHandler{store: s, handle: handle, maxWindow: maxWindow, logger: logger}
}

// ChatCompletions handles POST /v1/chat/completions.
func (h *CompletionHandler) ChatCompletions(w http.ResponseWriter, r *http.Request, _ router.Params) {
	if !h.handle.Ready() {
		writeError(w, http.StatusServiceUnavailable, ErrTypeServer, CodeEngineNotReady,
			"no model is loaded; load a model before requesting completions")
		return
	}

	var req ChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, "",
			"request body is not valid JSON: "+err.Error())
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, "", "messages is required")
		return
	}

	if req.persistent() {
		h.persistentCompletion(w, r, &req)
		return
	}
	h.plainCompletion(w, r, &req)
}

// plainCompletion serves the stateless path: no conversation tracking,
// the engine's output is returned verbatim.
func (h *CompletionHandler) plainCompletion(w http.ResponseWriter, r *http.Request, req *ChatCompletionRequest) {
	engineReq := h.engineRequest(req, req.Messages, req.Stream)

	if !req.Stream {
		resp, err := h.handle.Engine().Complete(r.Context(), engineReq)
		if err != nil {
			h.logger.Error("completion failed", "error", err)
			writeError(w, http.StatusInternalServerError, ErrTypeServer, "", "completion failed: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	stream, err := h.handle.Engine().CompleteStream(r.Context(), engineReq)
	if err != nil {
		h.logger.Error("failed to start stream", "error", err)
		writeError(w, http.StatusInternalServerError, ErrTypeServer, "", "completion failed: "+err.Error())
		return
	}
	defer stream.Close()

	sse := newSSEWriter(w)
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			sse.SendDone()
			return
		}
		if err != nil {
			h.logger.Error("stream receive failed", "error", err)
			sse.SendError(ErrTypeServer, "", "stream failed: "+err.Error())
			return
		}
		if err := sse.SendJSON(chunk); err != nil {
			return
		}
	}
}

// persistentCompletion serves the conversation-tracking path. Once the
// user message has been saved, later failures surface as server errors
// without rolling it back: a partial conversation stays usable for a
// retry.
func (h *CompletionHandler) persistentCompletion(w http.ResponseWriter, r *http.Request, req *ChatCompletionRequest) {
	ctx := r.Context()

	userContent, ok := lastUserContent(req.Messages)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, "", "no user message found in messages")
		return
	}

	convID := req.ConversationID
	if convID == "" {
		conv, err := h.store.CreateConversation(ctx, deriveTitle(userContent), h.handle.ModelID())
		if err != nil {
			h.logger.Error("failed to create conversation", "error", err)
			writeError(w, http.StatusInternalServerError, ErrTypeServer, "", "could not create conversation")
			return
		}
		convID = conv.ID
	}

	if _, err := h.store.SaveMessage(ctx, &domain.Message{
		ConversationID: convID,
		Role:           domain.RoleUser,
		Content:        userContent,
		Timestamp:      time.Now().UTC(),
	}); err != nil {
		h.logger.Error("failed to save user message", "conversation_id", convID, "error", err)
		writeError(w, http.StatusInternalServerError, ErrTypeServer, "", "could not save message")
		return
	}

	history, err := h.store.GetMessages(ctx, convID)
	if err != nil {
		h.logger.Error("failed to load history", "conversation_id", convID, "error", err)
		writeError(w, http.StatusInternalServerError, ErrTypeServer, "", "could not load conversation history")
		return
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	for _, m := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	msgs = window.Apply(msgs, h.maxWindow)

	engineReq := h.engineRequest(req, msgs, true)
	engineReq.StreamOptions = &openai.StreamOptions{IncludeUsage: true}

	stream, err := h.handle.Engine().CompleteStream(ctx, engineReq)
	if err != nil {
		h.logger.Error("failed to start stream", "conversation_id", convID, "error", err)
		writeError(w, http.StatusInternalServerError, ErrTypeServer, "", "completion failed: "+err.Error())
		return
	}
	defer stream.Close()

	if req.Stream {
		h.relayStream(w, stream, convID)
		return
	}
	h.bufferStream(w, stream, convID)
}

// relayStream forwards each chunk to the caller as an SSE frame,
// augmented with the conversation id, while accumulating the full text
// for the assistant message persisted after the terminal chunk.
func (h *CompletionHandler) relayStream(w http.ResponseWriter, stream engine.Stream, convID string) {
	sse := newSSEWriter(w)
	var acc accumulator

	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			h.logger.Error("stream receive failed", "conversation_id", convID, "error", err)
			sse.SendError(ErrTypeServer, "", "stream failed: "+err.Error())
			return
		}

		acc.consume(chunk)
		if err := sse.SendJSON(ConversationStreamResponse{
			ChatCompletionStreamResponse: chunk,
			ConversationID:               convID,
		}); err != nil {
			// The caller stopped reading; the assistant message is
			// still persisted below once the engine finishes.
			h.logger.Warn("caller stopped reading stream", "conversation_id", convID)
		}
	}

	if err := h.persistAssistant(convID, acc.text()); err != nil {
		sse.SendError(ErrTypeServer, "", "could not persist assistant message")
		return
	}
	sse.SendDone()
}

// bufferStream drains the engine stream internally and returns a single
// synthetic completion object once the assistant message is persisted.
func (h *CompletionHandler) bufferStream(w http.ResponseWriter, stream engine.Stream, convID string) {
	var acc accumulator

	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			h.logger.Error("stream receive failed", "conversation_id", convID, "error", err)
			writeError(w, http.StatusInternalServerError, ErrTypeServer, "", "completion failed: "+err.Error())
			return
		}
		acc.consume(chunk)
	}

	if err := h.persistAssistant(convID, acc.text()); err != nil {
		writeError(w, http.StatusInternalServerError, ErrTypeServer, "", "could not persist assistant message")
		return
	}

	finishReason := acc.finishReason
	if finishReason == "" {
		finishReason = openai.FinishReasonStop
	}
	resp := ConversationCompletionResponse{
		ChatCompletionResponse: openai.ChatCompletionResponse{
			ID:      "chatcmpl-" + uuid.NewString(),
			Object:  "chat.completion",
			Created: time.Now().Unix(),
			Model:   h.handle.ModelID(),
			Choices: []openai.ChatCompletionChoice{{
				Index: 0,
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: acc.text(),
				},
				FinishReason: finishReason,
			}},
		},
		ConversationID: convID,
	}
	if acc.usage != nil {
		resp.Usage = *acc.usage
	}
	writeJSON(w, http.StatusOK, resp)
}

// dbSaveTimeout bounds the background persistence of the assistant
// message once the stream has finished.
const dbSaveTimeout = 5 * time.Second

func contextWithSaveTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbSaveTimeout)
}

// persistAssistant writes exactly one assistant message containing the
// accumulated text, stamped with the time the stream finished. The save
// runs on a background context so a caller that disconnected mid-stream
// does not cancel it.
func (h *CompletionHandler) persistAssistant(convID, content string) error {
	ctx, cancel := contextWithSaveTimeout()
	defer cancel()

	_, err := h.store.SaveMessage(ctx, &domain.Message{
		ConversationID: convID,
		Role:           domain.RoleAssistant,
		Content:        content,
		Timestamp:      time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error("failed to save assistant message", "conversation_id", convID, "error", err)
	}
	return err
}

// engineRequest maps the accepted body onto the engine request. The
// request's model field is ignored in favor of the active model.
func (h *CompletionHandler) engineRequest(req *ChatCompletionRequest, msgs []openai.ChatCompletionMessage, stream bool) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:            h.handle.ModelID(),
		Messages:         msgs,
		Temperature:      req.Temperature,
		TopP:             req.TopP,
		MaxTokens:        req.MaxTokens,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
		Stop:             req.Stop,
		N:                req.N,
		Stream:           stream,
		StreamOptions:    req.StreamOptions,
	}
}

// accumulator gathers the text deltas, finish reason and usage from a
// chunk stream.
type accumulator struct {
	builder      strings.Builder
	finishReason openai.FinishReason
	usage        *openai.Usage
}

func (a *accumulator) consume(chunk openai.ChatCompletionStreamResponse) {
	if len(chunk.Choices) > 0 {
		a.builder.WriteString(chunk.Choices[0].Delta.Content)
		if chunk.Choices[0].FinishReason != "" {
			a.finishReason = chunk.Choices[0].FinishReason
		}
	}
	if chunk.Usage != nil {
		a.usage = chunk.Usage
	}
}

func (a *accumulator) text() string { return a.builder.String() }

// lastUserContent returns the content of the last role=user message.
func lastUserContent(msgs []openai.ChatCompletionMessage) (string, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == openai.ChatMessageRoleUser {
			return msgs[i].Content, true
		}
	}
	return "", false
}

// deriveTitle builds a conversation title from the first user message:
// the first 50 runes, with a truncation marker when longer.
func deriveTitle(content string) string {
	if utf8.RuneCountInString(content) <= titleRuneLimit {
		return content
	}
	runes := []rune(content)
	return string(runes[:titleRuneLimit]) + "..."
}
