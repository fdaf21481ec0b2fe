package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeProvider implements Provider with overridable behavior.
type fakeProvider struct {
	completeFn func(ctx context.Context, messages []ProviderMessage) (ProviderReply, error)
	gotMsgs    []ProviderMessage
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, messages []ProviderMessage) (ProviderReply, error) {
	f.gotMsgs = messages
	if f.completeFn != nil {
		return f.completeFn(ctx, messages)
	}
	return ProviderReply{Content: "ok"}, nil
}

// memoryHistory implements HistoryRepo in memory for tests.
type memoryHistory struct {
	chats map[string]*Chat
	order []string

	createErr error
	appendErr error
}

func newMemoryHistory() *memoryHistory {
	return &memoryHistory{chats: make(map[string]*Chat)}
}

func (m *memoryHistory) CreateChat(_ context.Context, chat Chat) error {
	if m.createErr != nil {
		return m.createErr
	}
	c := chat
	c.Messages = []Message{}
	c.UpdatedAt = c.CreatedAt
	m.chats[c.ID] = &c
	m.order = append(m.order, c.ID)
	return nil
}

func (m *memoryHistory) AppendMessage(_ context.Context, chatID string, msg Message) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	chat, ok := m.chats[chatID]
	if !ok {
		return ErrChatNotFound
	}
	chat.Messages = append(chat.Messages, msg)
	chat.UpdatedAt = msg.CreatedAt
	return nil
}

func (m *memoryHistory) GetChat(_ context.Context, chatID string) (*Chat, error) {
	chat, ok := m.chats[chatID]
	if !ok {
		return nil, ErrChatNotFound
	}
	c := *chat
	return &c, nil
}

func (m *memoryHistory) ListChats(_ context.Context) ([]ChatSummary, error) {
	summaries := []ChatSummary{}
	for i := len(m.order) - 1; i >= 0; i-- {
		chat := m.chats[m.order[i]]
		summaries = append(summaries, ChatSummary{ID: chat.ID, Title: chat.Title, UpdatedAt: chat.UpdatedAt})
	}
	return summaries, nil
}

func (m *memoryHistory) DeleteChat(_ context.Context, chatID string) (bool, error) {
	if _, ok := m.chats[chatID]; !ok {
		return false, nil
	}
	delete(m.chats, chatID)
	return true, nil
}

func TestSendMessageStartsNewChat(t *testing.T) {
	provider := &fakeProvider{
		completeFn: func(_ context.Context, _ []ProviderMessage) (ProviderReply, error) {
			return ProviderReply{Content: "answer", Sources: []string{"https://example.com"}}, nil
		},
	}
	history := newMemoryHistory()
	svc := NewService(provider, history)

	chatID, reply, err := svc.SendMessage(context.Background(), "", "What moved the market today?")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if chatID == "" {
		t.Fatalf("no chat id returned")
	}

	if reply.Type != MessageTypeAssistant || reply.Content != "answer" {
		t.Errorf("reply = %+v", reply)
	}
	if len(reply.Sources) != 1 {
		t.Errorf("sources lost: %v", reply.Sources)
	}

	chat, err := history.GetChat(context.Background(), chatID)
	if err != nil {
		t.Fatalf("GetChat: %v", err)
	}
	if chat.Title != "What moved the market today?" {
		t.Errorf("title = %q", chat.Title)
	}
	if len(chat.Messages) != 2 {
		t.Fatalf("persisted %d messages; want user + assistant", len(chat.Messages))
	}
	if chat.Messages[0].Type != MessageTypeUser || chat.Messages[1].Type != MessageTypeAssistant {
		t.Errorf("message order wrong: %+v", chat.Messages)
	}
}

func TestSendMessageTruncatesLongTitle(t *testing.T) {
	provider := &fakeProvider{}
	history := newMemoryHistory()
	svc := NewService(provider, history)

	long := strings.Repeat("x", 200)
	chatID, _, err := svc.SendMessage(context.Background(), "", long)
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	chat, _ := history.GetChat(context.Background(), chatID)
	if len([]rune(chat.Title)) != 60 {
		t.Errorf("title length = %d; want 60", len([]rune(chat.Title)))
	}
}

func TestSendMessageForwardsHistory(t *testing.T) {
	provider := &fakeProvider{}
	history := newMemoryHistory()
	svc := NewService(provider, history)

	now := time.Now().UTC()
	seed := Chat{ID: "chat-1", Title: "Earlier", CreatedAt: now}
	if err := history.CreateChat(context.Background(), seed); err != nil {
		t.Fatalf("seed chat: %v", err)
	}
	history.AppendMessage(context.Background(), "chat-1", Message{ID: "m1", Type: MessageTypeUser, Content: "first question", CreatedAt: now})
	history.AppendMessage(context.Background(), "chat-1", Message{ID: "m2", Type: MessageTypeAssistant, Content: "first answer", CreatedAt: now})

	chatID, _, err := svc.SendMessage(context.Background(), "chat-1", "follow-up")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if chatID != "chat-1" {
		t.Errorf("chat id = %q; want chat-1", chatID)
	}

	// system + two prior turns + the new user message
	if len(provider.gotMsgs) != 4 {
		t.Fatalf("provider saw %d messages; want 4", len(provider.gotMsgs))
	}
	if provider.gotMsgs[0].Role != "system" {
		t.Errorf("first forwarded message role = %q; want system", provider.gotMsgs[0].Role)
	}
	if provider.gotMsgs[2].Role != "assistant" || provider.gotMsgs[2].Content != "first answer" {
		t.Errorf("history turn mangled: %+v", provider.gotMsgs[2])
	}
	if provider.gotMsgs[3].Content != "follow-up" {
		t.Errorf("new turn missing: %+v", provider.gotMsgs[3])
	}
}

func TestSendMessageUnknownChat(t *testing.T) {
	svc := NewService(&fakeProvider{}, newMemoryHistory())

	_, _, err := svc.SendMessage(context.Background(), "nope", "hello")
	if !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("err = %v; want ErrChatNotFound", err)
	}
}

func TestSendMessageProviderFailure(t *testing.T) {
	provider := &fakeProvider{
		completeFn: func(_ context.Context, _ []ProviderMessage) (ProviderReply, error) {
			return ProviderReply{}, errors.New("upstream 500")
		},
	}
	history := newMemoryHistory()
	svc := NewService(provider, history)

	chatIDBefore, _ := func() (string, error) {
		chat := Chat{ID: "chat-1", CreatedAt: time.Now().UTC()}
		return chat.ID, history.CreateChat(context.Background(), chat)
	}()

	_, _, err := svc.SendMessage(context.Background(), chatIDBefore, "question")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("err = %v; want ErrProviderUnavailable", err)
	}

	// The user message is already persisted when the provider fails.
	chat, _ := history.GetChat(context.Background(), "chat-1")
	if len(chat.Messages) != 1 || chat.Messages[0].Type != MessageTypeUser {
		t.Errorf("persisted messages after failure: %+v", chat.Messages)
	}
}

func TestNewChatAndDelete(t *testing.T) {
	history := newMemoryHistory()
	svc := NewService(&fakeProvider{}, history)

	chatID, err := svc.NewChat(context.Background())
	if err != nil || chatID == "" {
		t.Fatalf("NewChat = %q, %v", chatID, err)
	}

	deleted, err := svc.Delete(context.Background(), chatID)
	if err != nil || !deleted {
		t.Fatalf("Delete = %v, %v; want true, nil", deleted, err)
	}

	deleted, err = svc.Delete(context.Background(), chatID)
	if err != nil || deleted {
		t.Fatalf("second Delete = %v, %v; want false, nil", deleted, err)
	}
}

func TestListOrdering(t *testing.T) {
	history := newMemoryHistory()
	svc := NewService(&fakeProvider{}, history)

	first, _ := svc.NewChat(context.Background())
	second, _ := svc.NewChat(context.Background())

	chats, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("List returned %d chats", len(chats))
	}
	if chats[0].ID != second || chats[1].ID != first {
		t.Errorf("ordering = %q, %q; want newest first", chats[0].ID, chats[1].ID)
	}
}

func TestTitleFromMessage(t *testing.T) {
	if got := titleFromMessage("short"); got != "short" {
		t.Errorf("titleFromMessage(short) = %q", got)
	}

	// Rune-safe truncation must not split multibyte characters.
	long := strings.Repeat("é", 100)
	got := titleFromMessage(long)
	if len([]rune(got)) != 60 {
		t.Errorf("truncated title has %d runes; want 60", len([]rune(got)))
	}
	if !strings.HasPrefix(long, got) {
		t.Errorf("truncation corrupted runes: %q", got)
	}
}
