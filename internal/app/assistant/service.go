package assistant

import (
	"context"
	"errors"
	"time"

	"commhub/internal/pkg/logx"
	"commhub/internal/pkg/randx"

	"github.com/rs/zerolog"
)

// systemPrompt frames the assistant for the community's finance dashboard.
const systemPrompt = "You are the built-in research assistant of a community " +
	"finance dashboard. Answer concisely, cite sources when you have them, and " +
	"never present market commentary as financial advice."

// Service orchestrates provider calls and history persistence.
type Service struct {
	provider Provider
	history  HistoryRepo
	logger   zerolog.Logger
}

// NewService returns an assistant Service over the given provider and history repo.
func NewService(provider Provider, history HistoryRepo) *Service {
	serviceLogger := logx.Logger().With().
		Str("component", "AssistantService").
		Str("provider", provider.Name()).
		Logger()

	return &Service{
		provider: provider,
		history:  history,
		logger:   serviceLogger,
	}
}

// NewChat creates a new empty chat and returns its id.
func (s *Service) NewChat(ctx context.Context) (string, error) {
	chat := Chat{
		ID:        randx.ChatID(),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.history.CreateChat(ctx, chat); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create chat.")
		return "", err
	}

	return chat.ID, nil
}

// SendMessage appends the user message to the chat (creating the chat first
// when chatID is empty), forwards the conversation to the provider, persists
// the assistant reply, and returns the chat id and the reply.
func (s *Service) SendMessage(ctx context.Context, chatID, text string) (string, Message, error) {
	now := time.Now().UTC()

	var history []Message

	if chatID == "" {
		chat := Chat{
			ID:        randx.ChatID(),
			Title:     titleFromMessage(text),
			CreatedAt: now,
		}
		if err := s.history.CreateChat(ctx, chat); err != nil {
			s.logger.Error().Err(err).Msg("Failed to create chat for first message.")
			return "", Message{}, err
		}
		chatID = chat.ID
	} else {
		chat, err := s.history.GetChat(ctx, chatID)
		if err != nil {
			if !errors.Is(err, ErrChatNotFound) {
				s.logger.Error().Err(err).Str("chat_id", chatID).Msg("Failed to load chat history.")
			}
			return "", Message{}, err
		}
		history = chat.Messages
	}

	userMsg := Message{
		ID:        randx.MessageID(),
		Type:      MessageTypeUser,
		Content:   text,
		CreatedAt: now,
	}
	if err := s.history.AppendMessage(ctx, chatID, userMsg); err != nil {
		s.logger.Error().Err(err).Str("chat_id", chatID).Msg("Failed to persist user message.")
		return "", Message{}, err
	}

	providerMessages := make([]ProviderMessage, 0, len(history)+2)
	providerMessages = append(providerMessages, ProviderMessage{Role: "system", Content: systemPrompt})
	for _, msg := range history {
		role := "user"
		if msg.Type == MessageTypeAssistant {
			role = "assistant"
		}
		providerMessages = append(providerMessages, ProviderMessage{Role: role, Content: msg.Content})
	}
	providerMessages = append(providerMessages, ProviderMessage{Role: "user", Content: text})

	reply, err := s.provider.Complete(ctx, providerMessages)
	if err != nil {
		s.logger.Error().Err(err).Str("chat_id", chatID).Msg("Provider call failed.")
		return "", Message{}, ErrProviderUnavailable
	}

	assistantMsg := Message{
		ID:        randx.MessageID(),
		Type:      MessageTypeAssistant,
		Content:   reply.Content,
		Sources:   reply.Sources,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.history.AppendMessage(ctx, chatID, assistantMsg); err != nil {
		// The reply is already paid for; return it even though it will be
		// missing from history.
		s.logger.Error().Err(err).Str("chat_id", chatID).Msg("Failed to persist assistant reply.")
	}

	return chatID, assistantMsg, nil
}

// History returns the full chat, or ErrChatNotFound.
func (s *Service) History(ctx context.Context, chatID string) (*Chat, error) {
	return s.history.GetChat(ctx, chatID)
}

// List returns all chat summaries, most recently updated first.
func (s *Service) List(ctx context.Context) ([]ChatSummary, error) {
	return s.history.ListChats(ctx)
}

// Delete removes the chat, reporting whether it existed.
func (s *Service) Delete(ctx context.Context, chatID string) (bool, error) {
	return s.history.DeleteChat(ctx, chatID)
}
