package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryRepo is the persistence contract for assistant chat history.
type HistoryRepo interface {
	// CreateChat inserts a new empty chat.
	CreateChat(ctx context.Context, chat Chat) error

	// AppendMessage appends a message to the chat and bumps its updated_at.
	AppendMessage(ctx context.Context, chatID string, msg Message) error

	// GetChat returns the chat with its messages in chronological order, or
	// ErrChatNotFound.
	GetChat(ctx context.Context, chatID string) (*Chat, error)

	// ListChats returns all chat summaries, most recently updated first.
	ListChats(ctx context.Context) ([]ChatSummary, error)

	// DeleteChat removes the chat and its messages, reporting whether the
	// chat existed.
	DeleteChat(ctx context.Context, chatID string) (bool, error)
}

// PostgresHistory implements HistoryRepo on a pgx connection pool.
type PostgresHistory struct {
	pool *pgxpool.Pool
}

// NewPostgresHistory returns a PostgresHistory over the given pool.
func NewPostgresHistory(pool *pgxpool.Pool) *PostgresHistory {
	return &PostgresHistory{pool: pool}
}

// CreateChat inserts a new empty chat.
func (h *PostgresHistory) CreateChat(ctx context.Context, chat Chat) error {
	_, err := h.pool.Exec(ctx,
		`INSERT INTO ai_chats (id, title, created_at, updated_at) VALUES ($1, $2, $3, $3)`,
		chat.ID, chat.Title, chat.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create chat: %w", err)
	}
	return nil
}

// AppendMessage appends a message to the chat and bumps its updated_at.
func (h *PostgresHistory) AppendMessage(ctx context.Context, chatID string, msg Message) error {
	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE ai_chats SET updated_at = $2 WHERE id = $1`,
		chatID, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrChatNotFound
	}

	var sources []byte
	if len(msg.Sources) > 0 {
		sources, err = json.Marshal(msg.Sources)
		if err != nil {
			return fmt.Errorf("append message: encode sources: %w", err)
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO ai_messages (id, chat_id, type, content, sources, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID, chatID, msg.Type, msg.Content, sources, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	return tx.Commit(ctx)
}

// GetChat returns the chat with its messages in chronological order.
func (h *PostgresHistory) GetChat(ctx context.Context, chatID string) (*Chat, error) {
	var chat Chat

	err := h.pool.QueryRow(ctx,
		`SELECT id, title, created_at, updated_at FROM ai_chats WHERE id = $1`,
		chatID,
	).Scan(&chat.ID, &chat.Title, &chat.CreatedAt, &chat.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChatNotFound
		}
		return nil, fmt.Errorf("get chat: %w", err)
	}

	rows, err := h.pool.Query(ctx,
		`SELECT id, type, content, sources, created_at
		 FROM ai_messages WHERE chat_id = $1 ORDER BY created_at, id`,
		chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("get chat messages: %w", err)
	}
	defer rows.Close()

	chat.Messages = []Message{}
	for rows.Next() {
		var msg Message
		var sources []byte
		if err := rows.Scan(&msg.ID, &msg.Type, &msg.Content, &sources, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		if len(sources) > 0 {
			if err := json.Unmarshal(sources, &msg.Sources); err != nil {
				return nil, fmt.Errorf("decode message sources: %w", err)
			}
		}
		chat.Messages = append(chat.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get chat messages: %w", err)
	}

	return &chat, nil
}

// ListChats returns all chat summaries, most recently updated first.
func (h *PostgresHistory) ListChats(ctx context.Context) ([]ChatSummary, error) {
	rows, err := h.pool.Query(ctx,
		`SELECT id, title, updated_at FROM ai_chats ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	summaries := []ChatSummary{}
	for rows.Next() {
		var s ChatSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan chat summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	return summaries, nil
}

// DeleteChat removes the chat and its messages.
func (h *PostgresHistory) DeleteChat(ctx context.Context, chatID string) (bool, error) {
	tag, err := h.pool.Exec(ctx, `DELETE FROM ai_chats WHERE id = $1`, chatID)
	if err != nil {
		return false, fmt.Errorf("delete chat: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
