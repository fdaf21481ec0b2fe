/*
Package assistant implements the backend proxy for the AI assistant dashboard.

It forwards chat messages to a third-party AI provider (Perplexity or Groq) and
persists the chat history in PostgreSQL. The wire contract toward the UI is the
original dashboard contract: errors surface as {error: string} with plain HTTP
status codes, and assistant replies may carry source citations.
*/
package assistant

import (
	"errors"
	"time"
)

// Message types as stored and returned to the UI.
const (
	MessageTypeUser      = "user"
	MessageTypeAssistant = "assistant"
)

// maxTitleLength caps the chat title derived from the first user message.
const maxTitleLength = 60

// ErrChatNotFound is returned when the referenced chat id does not exist.
var ErrChatNotFound = errors.New("chat not found")

// ErrProviderUnavailable is returned when the upstream AI provider call fails.
var ErrProviderUnavailable = errors.New("assistant provider unavailable")

// Message is a single chat turn.
type Message struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Sources   []string  `json:"sources,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Chat is a full conversation with its messages in chronological order.
type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ChatSummary is the listing view of a chat, without messages.
type ChatSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// titleFromMessage derives a chat title from the first user message.
func titleFromMessage(text string) string {
	runes := []rune(text)
	if len(runes) <= maxTitleLength {
		return text
	}
	return string(runes[:maxTitleLength])
}
