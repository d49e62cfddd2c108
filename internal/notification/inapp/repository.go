package inapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate      = "notification.inapp.repository.create"
	opList        = "notification.inapp.repository.list"
	opCountUnread = "notification.inapp.repository.count_unread"
	opMarkRead    = "notification.inapp.repository.mark_read"
	opMarkAllRead = "notification.inapp.repository.mark_all_read"
	opDelete      = "notification.inapp.repository.delete"

	errUserIDRequired   = "userId is required"
	errNotificationGone = "notification not found"

	// ListLimit caps how many notifications a user listing returns.
	ListLimit = 50
)

// Type classifies a notification.
type Type string

const (
	TypeTaskAssigned        Type = "TaskAssigned"
	TypeTaskDueSoon         Type = "TaskDueSoon"
	TypeTaskOverdue         Type = "TaskOverdue"
	TypeTaskCompleted       Type = "TaskCompleted"
	TypeTaskCommented       Type = "TaskCommented"
	TypeCaseStatusChanged   Type = "CaseStatusChanged"
	TypeDeadlineApproaching Type = "DeadlineApproaching"
	TypeTeamUpdate          Type = "TeamUpdate"
	TypeSystemUpdate        Type = "SystemUpdate"
)

type Notification struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"userId"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	Type           Type       `json:"type"`
	TaskID         *uuid.UUID `json:"taskId,omitempty"`
	CaseID         *uuid.UUID `json:"caseId,omitempty"`
	ActionURL      *string    `json:"actionUrl,omitempty"`
	RequiresAction bool       `json:"requiresAction"`
	IsRead         bool       `json:"isRead"`
	ReadAt         *time.Time `json:"readDate,omitempty"`
	CreatedAt      time.Time  `json:"createdDate"`
}

type CreateParams struct {
	UserID    uuid.UUID
	Title     string
	Message   string
	Type      Type
	TaskID    *uuid.UUID
	CaseID    *uuid.UUID
	ActionURL string
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const notificationColumns = `id, user_id, title, message, type, task_id, case_id, action_url,
	requires_action, is_read, read_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (Notification, error) {
	var n Notification
	var typ string
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &typ, &n.TaskID, &n.CaseID, &n.ActionURL,
		&n.RequiresAction, &n.IsRead, &n.ReadAt, &n.CreatedAt)
	n.Type = Type(typ)
	return n, err
}

// Create inserts a notification on the unit of work bound to ctx.
func (r *Repository) Create(ctx context.Context, p CreateParams) (Notification, error) {
	if p.UserID == uuid.Nil {
		return Notification{}, apperr.Validation(errUserIDRequired).WithOp(opCreate)
	}
	if p.Title == "" || p.Message == "" {
		return Notification{}, apperr.Validation("title and message are required").WithOp(opCreate)
	}

	var actionURL *string
	if p.ActionURL != "" {
		actionURL = &p.ActionURL
	}

	n, err := scanNotification(db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO notifications (user_id, title, message, type, task_id, case_id, action_url, requires_action)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+notificationColumns,
		p.UserID, p.Title, p.Message, string(p.Type), p.TaskID, p.CaseID, actionURL, actionURL != nil))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Notification{}, apperr.Validation("invalid userId, taskId or caseId").WithOp(opCreate)
		}
		return Notification{}, apperr.Internal(fmt.Sprintf("create notification failed: %v", err)).WithOp(opCreate)
	}

	return n, nil
}

// ListForUser returns the newest notifications first, at most limit rows.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]Notification, error) {
	if userID == uuid.Nil {
		return nil, apperr.Validation(errUserIDRequired).WithOp(opList)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_id = $1 AND ($2::boolean = false OR is_read = false)
		ORDER BY created_at DESC
		LIMIT $3
	`, userID, unreadOnly, limit)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list notifications query failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	items := make([]Notification, 0, limit)
	for rows.Next() {
		n, scanErr := scanNotification(rows)
		if scanErr != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan notifications failed: %v", scanErr)).WithOp(opList)
		}
		items = append(items, n)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate notifications failed: %v", rowsErr)).WithOp(opList)
	}

	return items, nil
}

func (r *Repository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, apperr.Validation(errUserIDRequired).WithOp(opCountUnread)
	}

	var count int
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND is_read = false
	`, userID).Scan(&count)
	if err != nil {
		return 0, apperr.Internal(fmt.Sprintf("count unread notifications failed: %v", err)).WithOp(opCountUnread)
	}

	return count, nil
}

// MarkRead stamps the read date. An already read notification keeps its
// original date.
func (r *Repository) MarkRead(ctx context.Context, notificationID uuid.UUID, at time.Time) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE notifications
		SET is_read = true, read_at = COALESCE(read_at, $2)
		WHERE id = $1
	`, notificationID, at)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark notification read failed: %v", err)).WithOp(opMarkRead)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(errNotificationGone).WithOp(opMarkRead)
	}

	return nil
}

// MarkAllRead returns how many notifications changed.
func (r *Repository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	if userID == uuid.Nil {
		return 0, apperr.Validation(errUserIDRequired).WithOp(opMarkAllRead)
	}

	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE notifications
		SET is_read = true, read_at = $2
		WHERE user_id = $1 AND is_read = false
	`, userID, at)
	if err != nil {
		return 0, apperr.Internal(fmt.Sprintf("mark all notifications read failed: %v", err)).WithOp(opMarkAllRead)
	}

	return tag.RowsAffected(), nil
}

func (r *Repository) Delete(ctx context.Context, notificationID uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM notifications WHERE id = $1`, notificationID)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("delete notification failed: %v", err)).WithOp(opDelete)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(errNotificationGone).WithOp(opDelete)
	}

	return nil
}
