package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/shutterboard/internal/domain/chat"
	"github.com/rpggio/shutterboard/internal/repository"
)

// MessageRepository implements repository.MessageRepository for SQLite
type MessageRepository struct {
	db *DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append stores a transcript message
func (r *MessageRepository) Append(ctx context.Context, msg *chat.Message) error {
	if msg == nil || msg.ID == "" {
		return repository.ErrInvalidInput
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, text, from_user, created_at) VALUES (?, ?, ?, ?)`,
		msg.ID, msg.Text, msg.FromUser, msg.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: message %s", repository.ErrConflict, msg.ID)
		}
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// List returns the newest limit messages in the order they were appended
func (r *MessageRepository) List(ctx context.Context, limit int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `
		SELECT id, text, from_user, created_at FROM (
			SELECT seq, id, text, from_user, created_at
			FROM chat_messages
			ORDER BY seq DESC
			LIMIT ?
		) ORDER BY seq ASC
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []chat.Message{}
	for rows.Next() {
		var msg chat.Message
		if err := rows.Scan(&msg.ID, &msg.Text, &msg.FromUser, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	return messages, nil
}
