package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	casedomain "raf_pnp_backend/internal/cases/domain"
	"raf_pnp_backend/internal/tasks/domain"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskNotFoundMsg = "task not found"

// Repository handles task and comment persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new tasks repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListParams filters List. Nil fields are ignored.
type ListParams struct {
	Status     *domain.Status
	AssigneeID *uuid.UUID
	TeamID     *uuid.UUID
	CaseID     *uuid.UUID
}

const taskSelect = `
	SELECT t.id, t.title, t.description, t.case_id, c.case_number, t.team_id, tm.name,
		t.assigned_to_user_id, u.full_name, t.created_by_user_id, t.created_by_name,
		t.status, t.priority, t.related_case_status, t.is_workflow_task,
		t.created_at, t.due_date, t.completed_date, t.overdue_notified_at, t.updated_at
	FROM tasks t
	LEFT JOIN cases c ON c.id = t.case_id
	LEFT JOIN teams tm ON tm.id = t.team_id
	LEFT JOIN users u ON u.id = t.assigned_to_user_id`

const taskOrder = `
	ORDER BY CASE t.priority WHEN 'Urgent' THEN 3 WHEN 'High' THEN 2 WHEN 'Medium' THEN 1 ELSE 0 END DESC,
		t.due_date ASC NULLS LAST`

const openOnly = `t.status NOT IN ('Completed', 'Cancelled')`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (domain.Task, error) {
	var t domain.Task
	var status, priority string
	var related *string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.CaseID, &t.CaseNumber, &t.TeamID, &t.TeamName,
		&t.AssignedToUserID, &t.AssigneeName, &t.CreatedByUserID, &t.CreatedByName,
		&status, &priority, &related, &t.IsWorkflowTask,
		&t.CreatedAt, &t.DueDate, &t.CompletedDate, &t.OverdueNotifiedAt, &t.UpdatedAt)
	t.Status = domain.Status(status)
	t.Priority = domain.Priority(priority)
	if related != nil {
		s := casedomain.Status(*related)
		t.RelatedCaseStatus = &s
	}
	return t, err
}

func (r *Repository) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	var related *string
	if t.RelatedCaseStatus != nil {
		s := string(*t.RelatedCaseStatus)
		related = &s
	}

	var id uuid.UUID
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO tasks (title, description, case_id, team_id, assigned_to_user_id,
			created_by_user_id, created_by_name, status, priority, related_case_status,
			is_workflow_task, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		t.Title, t.Description, t.CaseID, t.TeamID, t.AssignedToUserID,
		t.CreatedByUserID, t.CreatedByName, string(t.Status), string(t.Priority), related,
		t.IsWorkflowTask, t.DueDate,
	).Scan(&id)
	if err != nil {
		return domain.Task{}, mapWriteError(err)
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	t, err := scanTask(db.Conn(ctx, r.pool).QueryRow(ctx, taskSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, apperr.NotFound(taskNotFoundMsg)
		}
		return domain.Task{}, fmt.Errorf("get task by id: %w", err)
	}
	return t, nil
}

// List returns tasks matching params, highest priority first then earliest due.
func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Task, error) {
	whereClauses := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)
	addFilter := func(clause string, value interface{}) {
		args = append(args, value)
		whereClauses = append(whereClauses, fmt.Sprintf(clause, len(args)))
	}

	if params.Status != nil {
		addFilter("t.status = $%d", string(*params.Status))
	}
	if params.AssigneeID != nil {
		addFilter("t.assigned_to_user_id = $%d", *params.AssigneeID)
	}
	if params.TeamID != nil {
		addFilter("t.team_id = $%d", *params.TeamID)
	}
	if params.CaseID != nil {
		addFilter("t.case_id = $%d", *params.CaseID)
	}

	query := taskSelect
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	return r.queryTasks(ctx, query+taskOrder, args...)
}

// ListOpenForUser returns the user's tasks that are not completed or cancelled.
func (r *Repository) ListOpenForUser(ctx context.Context, userID uuid.UUID) ([]domain.Task, error) {
	return r.queryTasks(ctx, taskSelect+` WHERE t.assigned_to_user_id = $1 AND `+openOnly+taskOrder, userID)
}

// ListOverdue returns open tasks due before now, earliest first.
func (r *Repository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Task, error) {
	return r.queryTasks(ctx, taskSelect+` WHERE t.due_date < $1 AND `+openOnly+` ORDER BY t.due_date`, now)
}

// ListOverdueNotNotifiedSince returns overdue open tasks whose last overdue
// notice is older than since.
func (r *Repository) ListOverdueNotNotifiedSince(ctx context.Context, now, since time.Time) ([]domain.Task, error) {
	return r.queryTasks(ctx, taskSelect+`
		WHERE t.due_date < $1 AND `+openOnly+`
			AND t.assigned_to_user_id IS NOT NULL
			AND (t.overdue_notified_at IS NULL OR t.overdue_notified_at < $2)
		ORDER BY t.due_date`, now, since)
}

func (r *Repository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]domain.Task, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		items = append(items, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate tasks: %w", rows.Err())
	}
	return items, nil
}

// Update writes the mutable fields of t.
func (r *Repository) Update(ctx context.Context, t domain.Task) (domain.Task, error) {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE tasks SET
			title = $2, description = $3, priority = $4, due_date = $5, status = $6,
			assigned_to_user_id = $7, completed_date = $8, updated_at = now()
		WHERE id = $1`,
		t.ID, t.Title, t.Description, string(t.Priority), t.DueDate, string(t.Status),
		t.AssignedToUserID, t.CompletedDate)
	if err != nil {
		return domain.Task{}, mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Task{}, apperr.NotFound(taskNotFoundMsg)
	}
	return r.GetByID(ctx, t.ID)
}

// MarkOverdueNotified records when the overdue notice went out.
func (r *Repository) MarkOverdueNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `UPDATE tasks SET overdue_notified_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("mark task overdue notified: %w", err)
	}
	return nil
}

func (r *Repository) AddComment(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO task_comments (task_id, user_id, author_name, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`, c.TaskID, c.UserID, c.AuthorName, c.Comment,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			if pgErr.ConstraintName == "task_comments_user_id_fkey" {
				return domain.Comment{}, apperr.Validation("user does not exist")
			}
			return domain.Comment{}, apperr.NotFound(taskNotFoundMsg)
		}
		return domain.Comment{}, fmt.Errorf("add task comment: %w", err)
	}
	return c, nil
}

// ListComments returns a task's comments, newest first.
func (r *Repository) ListComments(ctx context.Context, taskID uuid.UUID) ([]domain.Comment, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT id, task_id, user_id, author_name, comment, created_at
		FROM task_comments
		WHERE task_id = $1
		ORDER BY created_at DESC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list task comments: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Comment, 0)
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.AuthorName, &c.Comment, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task comment: %w", err)
		}
		items = append(items, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate task comments: %w", rows.Err())
	}
	return items, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		switch pgErr.ConstraintName {
		case "tasks_case_id_fkey":
			return apperr.Validation("case does not exist")
		case "tasks_team_id_fkey":
			return apperr.Validation("team does not exist")
		default:
			return apperr.Validation("user does not exist")
		}
	}
	return fmt.Errorf("write task: %w", err)
}
