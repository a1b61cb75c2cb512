package postgres

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageColumns = `
	id, sender_id, receiver_id, subject, content, thread_id, reply_to,
	course_id, assignment_id, is_read, read_at, created_at`

type MessagePostgres struct {
	db *pgxpool.Pool
}

func NewMessagePostgres(db *pgxpool.Pool) *MessagePostgres {
	return &MessagePostgres{db: db}
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Subject, &m.Content, &m.ThreadID, &m.ReplyTo,
		&m.CourseID, &m.AssignmentID, &m.IsRead, &m.ReadAt, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrMessageNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MessagePostgres) Create(ctx context.Context, m *models.Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, subject, content, thread_id, reply_to,
		                      course_id, assignment_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, $10)
	`
	_, err := r.db.Exec(ctx, query, m.ID, m.SenderID, m.ReceiverID, m.Subject, m.Content, m.ThreadID, m.ReplyTo,
		m.CourseID, m.AssignmentID, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (r *MessagePostgres) ByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	return scanMessage(r.db.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
}

// Conversations returns every message the user sent or received, newest first.
func (r *MessagePostgres) Conversations(ctx context.Context, userID string) ([]models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		  FROM messages
		 WHERE sender_id = $1 OR receiver_id = $1
		 ORDER BY created_at DESC
	`
	return r.query(ctx, query, userID)
}

// Thread returns the messages of a thread the user takes part in, oldest first.
func (r *MessagePostgres) Thread(ctx context.Context, userID string, threadID uuid.UUID) ([]models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		  FROM messages
		 WHERE (id = $2 OR thread_id = $2)
		   AND (sender_id = $1 OR receiver_id = $1)
		 ORDER BY created_at
	`
	return r.query(ctx, query, userID, threadID)
}

func (r *MessagePostgres) query(ctx context.Context, query string, args ...any) ([]models.Message, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

// MarkRead stamps read_at the first time only.
func (r *MessagePostgres) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (*models.Message, error) {
	query := `
		UPDATE messages
		   SET is_read = TRUE, read_at = COALESCE(read_at, $2)
		 WHERE id = $1
	 RETURNING ` + messageColumns
	return scanMessage(r.db.QueryRow(ctx, query, id, at))
}

func (r *MessagePostgres) UnreadCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND NOT is_read`, userID).Scan(&n)
	return n, err
}
