/*
Package handler provides HTTP handler functions for the AI assistant proxy.

The assistant surface keeps the dashboard's original wire contract: JSON bodies,
plain HTTP status codes, and failures reported as {error: string}. It does not
use the unified response envelope the rest of the API speaks.
*/
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"commhub/internal/app/assistant"
	"commhub/internal/pkg/logx"

	"github.com/go-chi/chi/v5"
)

// writeAssistantJSON writes a plain JSON payload for the assistant surface.
func writeAssistantJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logx.Error(err, "Failed to encode assistant response.")
	}
}

// writeAssistantError reports a failure in the assistant surface's own format.
func writeAssistantError(w http.ResponseWriter, status int, message string) {
	writeAssistantJSON(w, status, map[string]string{"error": message})
}

type AssistantChatInput struct {
	Message string `json:"message"`
	ChatID  string `json:"chatId,omitempty"`
}

// HandleAssistantChat forwards a user message to the configured provider and
// returns the assistant reply. An empty chatId starts a new conversation.
func HandleAssistantChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input AssistantChatInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeAssistantError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if strings.TrimSpace(input.Message) == "" {
			writeAssistantError(w, http.StatusBadRequest, "Message is required")
			return
		}

		chatID, reply, err := deps.Assistant.SendMessage(r.Context(), input.ChatID, input.Message)
		if err != nil {
			switch {
			case errors.Is(err, assistant.ErrChatNotFound):
				writeAssistantError(w, http.StatusNotFound, "Chat not found")
			case errors.Is(err, assistant.ErrProviderUnavailable):
				writeAssistantError(w, http.StatusInternalServerError, "Failed to get response from AI")
			default:
				writeAssistantError(w, http.StatusInternalServerError, "Failed to process message")
			}
			return
		}

		writeAssistantJSON(w, http.StatusOK, map[string]any{
			"chatId":  chatID,
			"message": reply,
		})
	}
}

// HandleAssistantNewChat creates an empty conversation and returns its id.
func HandleAssistantNewChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID, err := deps.Assistant.NewChat(r.Context())
		if err != nil {
			writeAssistantError(w, http.StatusInternalServerError, "Failed to create chat")
			return
		}

		writeAssistantJSON(w, http.StatusOK, map[string]string{"chatId": chatID})
	}
}

// HandleAssistantHistory returns a full conversation with its messages.
func HandleAssistantHistory(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := chi.URLParam(r, "chatId")

		chat, err := deps.Assistant.History(r.Context(), chatID)
		if err != nil {
			if errors.Is(err, assistant.ErrChatNotFound) {
				writeAssistantError(w, http.StatusNotFound, "Chat not found")
				return
			}
			writeAssistantError(w, http.StatusInternalServerError, "Failed to load chat history")
			return
		}

		writeAssistantJSON(w, http.StatusOK, chat)
	}
}

// HandleAssistantChats lists all conversations, most recently updated first.
func HandleAssistantChats(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chats, err := deps.Assistant.List(r.Context())
		if err != nil {
			writeAssistantError(w, http.StatusInternalServerError, "Failed to list chats")
			return
		}

		if chats == nil {
			chats = []assistant.ChatSummary{}
		}

		writeAssistantJSON(w, http.StatusOK, map[string]any{"chats": chats})
	}
}

// HandleAssistantDeleteChat removes a conversation and its messages.
func HandleAssistantDeleteChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := chi.URLParam(r, "chatId")

		deleted, err := deps.Assistant.Delete(r.Context(), chatID)
		if err != nil {
			writeAssistantError(w, http.StatusInternalServerError, "Failed to delete chat")
			return
		}
		if !deleted {
			writeAssistantError(w, http.StatusNotFound, "Chat not found")
			return
		}

		writeAssistantJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
