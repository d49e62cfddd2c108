package whatsapp

import (
	"context"
	"fmt"
	"time"

	"raf_pnp_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists the message log.
type Store interface {
	Create(ctx context.Context, m Message) (Message, error)
	MarkSent(ctx context.Context, id uuid.UUID, externalID string, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	ListRecent(ctx context.Context, limit int) ([]Message, error)
	ListByPhone(ctx context.Context, phoneNumber string) ([]Message, error)
}

// Repository is the Postgres message log.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new message log repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const messageColumns = `id, to_phone_number, message_body, status, is_simulated, external_message_id,
	error_message, task_id, case_id, user_id, created_at, sent_at, delivered_at, read_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (Message, error) {
	var m Message
	var status string
	err := row.Scan(&m.ID, &m.ToPhoneNumber, &m.MessageBody, &status, &m.IsSimulated, &m.ExternalMessageID,
		&m.ErrorMessage, &m.TaskID, &m.CaseID, &m.UserID, &m.CreatedAt, &m.SentAt, &m.DeliveredAt, &m.ReadAt)
	m.Status = Status(status)
	return m, err
}

func (r *Repository) Create(ctx context.Context, m Message) (Message, error) {
	created, err := scanMessage(db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO whatsapp_messages (to_phone_number, message_body, status, is_simulated,
			external_message_id, error_message, task_id, case_id, user_id, sent_at, delivered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+messageColumns,
		m.ToPhoneNumber, m.MessageBody, string(m.Status), m.IsSimulated,
		m.ExternalMessageID, m.ErrorMessage, m.TaskID, m.CaseID, m.UserID, m.SentAt, m.DeliveredAt))
	if err != nil {
		return Message{}, fmt.Errorf("create whatsapp message: %w", err)
	}
	return created, nil
}

func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, externalID string, at time.Time) error {
	var ext *string
	if externalID != "" {
		ext = &externalID
	}
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE whatsapp_messages SET status = 'Sent', external_message_id = $2, sent_at = $3
		WHERE id = $1`, id, ext, at)
	if err != nil {
		return fmt.Errorf("mark whatsapp message sent: %w", err)
	}
	return nil
}

func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE whatsapp_messages SET status = 'Failed', error_message = $2
		WHERE id = $1`, id, reason)
	if err != nil {
		return fmt.Errorf("mark whatsapp message failed: %w", err)
	}
	return nil
}

// ListRecent returns the newest messages first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Message, error) {
	return r.query(ctx, `SELECT `+messageColumns+` FROM whatsapp_messages ORDER BY created_at DESC LIMIT $1`, limit)
}

// ListByPhone returns every message sent to phoneNumber, newest first.
func (r *Repository) ListByPhone(ctx context.Context, phoneNumber string) ([]Message, error) {
	return r.query(ctx, `SELECT `+messageColumns+` FROM whatsapp_messages WHERE to_phone_number = $1 ORDER BY created_at DESC`, phoneNumber)
}

func (r *Repository) query(ctx context.Context, sql string, args ...any) ([]Message, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list whatsapp messages: %w", err)
	}
	defer rows.Close()

	items := make([]Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan whatsapp message: %w", err)
		}
		items = append(items, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate whatsapp messages: %w", rows.Err())
	}
	return items, nil
}

var _ Store = (*Repository)(nil)
