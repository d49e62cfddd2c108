package repository

import (
	"context"
	"errors"
	"fmt"

	"raf_pnp_backend/internal/cases/domain"
	"raf_pnp_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const activityColumns = `
	id, case_id, activity_type, title, description, activity_date,
	created_by, is_reminder, reminder_date, reminder_completed`

func scanActivity(row rowScanner) (domain.Activity, error) {
	var a domain.Activity
	var activityType string
	var createdBy *string
	err := row.Scan(
		&a.ID, &a.CaseID, &activityType, &a.Title, &a.Description, &a.ActivityDate,
		&createdBy, &a.IsReminder, &a.ReminderDate, &a.ReminderCompleted,
	)
	a.Type = domain.ActivityType(activityType)
	if createdBy != nil {
		a.CreatedBy = *createdBy
	}
	return a, err
}

// CreateActivity appends an entry to a case log.
func (r *Repo) CreateActivity(ctx context.Context, params CreateActivityParams) (domain.Activity, error) {
	query := `
		INSERT INTO case_activities (
			case_id, activity_type, title, description, activity_date, created_by, is_reminder, reminder_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + activityColumns

	var description *string
	if params.Draft.Description != "" {
		description = &params.Draft.Description
	}

	a, err := scanActivity(r.conn(ctx).QueryRow(ctx, query,
		params.CaseID, string(params.Draft.Type), params.Draft.Title, description,
		params.ActivityDate, params.CreatedBy, params.Draft.IsReminder, params.Draft.ReminderDate,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return domain.Activity{}, apperr.NotFound(caseNotFoundMessage)
		}
		return domain.Activity{}, fmt.Errorf("create activity: %w", err)
	}
	return a, nil
}

// ListActivities returns a case log, newest first.
func (r *Repo) ListActivities(ctx context.Context, caseID uuid.UUID) ([]domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM case_activities WHERE case_id = $1 ORDER BY activity_date DESC`
	rows, err := r.conn(ctx).Query(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		items = append(items, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate activities: %w", rows.Err())
	}
	return items, nil
}

// CompleteReminder marks a reminder activity as done.
func (r *Repo) CompleteReminder(ctx context.Context, activityID uuid.UUID) (domain.Activity, error) {
	query := `
		UPDATE case_activities SET reminder_completed = true
		WHERE id = $1 AND is_reminder = true
		RETURNING ` + activityColumns
	a, err := scanActivity(r.conn(ctx).QueryRow(ctx, query, activityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Activity{}, apperr.NotFound(activityNotFoundMessage)
		}
		return domain.Activity{}, fmt.Errorf("complete reminder: %w", err)
	}
	return a, nil
}
