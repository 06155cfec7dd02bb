package postgres

import (
	"context"
	"fmt"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/storage"
)

type MessageRepository struct {
	db storage.DBTX
}

func NewMessageRepository(db storage.DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) CreateMessage(ctx context.Context, m models.Message) (*models.Message, error) {
	query := `INSERT INTO messages (name, email, subject, message, read, created_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW())
		RETURNING id, name, email, subject, message, read, created_at`

	var created models.Message
	err := r.db.QueryRowContext(ctx, query, m.Name, m.Email, m.Subject, m.Message).Scan(
		&created.ID,
		&created.Name,
		&created.Email,
		&created.Subject,
		&created.Message,
		&created.Read,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	return &created, nil
}

func (r *MessageRepository) ListMessages(ctx context.Context, limit, offset int) ([]models.Message, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	query := `SELECT id, name, email, subject, message, read, created_at FROM messages
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Read, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, total, rows.Err()
}

func (r *MessageRepository) MarkMessageRead(ctx context.Context, id int64, read bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET read = $1 WHERE id = $2`, read, id)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("message %d: %w", id, storage.ErrMessageNotFound)
	}
	return nil
}

func (r *MessageRepository) DeleteMessage(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("message %d: %w", id, storage.ErrMessageNotFound)
	}
	return nil
}
