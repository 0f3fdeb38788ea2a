// File: internal/window/window.go

// Package window implements the message-count sliding-window policy
// applied to a conversation history before every inference call.
package window

import openai "github.com/sashabaranov/go-openai"

// Apply trims a chronologically ordered history to fit a context budget
// expressed as a maximum number of non-system messages. System messages
// are always preserved, in their original relative order, and placed
// first in the output. Of the remaining messages only the most recent
// maxNonSystem are kept, in original order. Whole messages are evicted;
// content is never truncated. The input slice is not modified.
func Apply(messages []openai.ChatCompletionMessage, maxNonSystem int) []openai.ChatCompletionMessage {
	var system, rest []openai.ChatCompletionMessage
	for _, m := range messages {
		if m.Role == openai.ChatMessageRoleSystem {
			system = append(system, m)
		} else {
			rest = append(rest, m)
		}
	}

	if maxNonSystem < 0 {
		maxNonSystem = 0
	}
	if len(rest) > maxNonSystem {
		rest = rest[len(rest)-maxNonSystem:]
	}

	out := make([]openai.ChatCompletionMessage, 0, len(system)+len(rest))
	out = append(out, system...)
	out = append(out, rest...)
	return out
}
