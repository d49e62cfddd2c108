// Package repository runs the read-only aggregate queries behind reports and
// the deadline scan.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"raf_pnp_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deadline kinds, labelled as on the report screen.
const (
	DeadlineMmi       = "MMI Date"
	DeadlineStatutory = "120-Day Expiry"
)

// CaseFilter narrows a case count. Empty fields do not filter.
type CaseFilter struct {
	Statuses        []string
	ExcludeStatuses []string
	ClosedSince     *time.Time
}

// CaseSummary is a short case row for dashboards.
type CaseSummary struct {
	ID           uuid.UUID
	CaseNumber   string
	ClientName   string
	Status       string
	AccidentDate time.Time
	MmiDate      *time.Time
}

// StatusCount is the number of cases at one status.
type StatusCount struct {
	Status string
	Count  int
}

// DeadlineRow is a milestone date falling inside a window.
type DeadlineRow struct {
	CaseID         uuid.UUID
	CaseNumber     string
	ClientName     string
	Kind           string
	Date           time.Time
	AssignedTeamID *uuid.UUID
}

// Repository runs report queries.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CountCases(ctx context.Context, f CaseFilter) (int, error) {
	var where []string
	var args []any
	if len(f.Statuses) > 0 {
		args = append(args, f.Statuses)
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if len(f.ExcludeStatuses) > 0 {
		args = append(args, f.ExcludeStatuses)
		where = append(where, fmt.Sprintf("NOT (status = ANY($%d))", len(args)))
	}
	if f.ClosedSince != nil {
		args = append(args, *f.ClosedSince)
		where = append(where, fmt.Sprintf("date_closed >= $%d", len(args)))
	}

	query := `SELECT COUNT(*) FROM cases`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}

	var n int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cases: %w", err)
	}
	return n, nil
}

func (r *Repository) CountClients(ctx context.Context) (int, error) {
	var n int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return n, nil
}

// RecentActive returns open cases with the latest accident dates.
func (r *Repository) RecentActive(ctx context.Context, terminal []string, limit int) ([]CaseSummary, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT c.id, c.case_number, cl.first_name || ' ' || cl.last_name, c.status, c.accident_date, c.mmi_date
		FROM cases c
		JOIN clients cl ON cl.id = c.client_id
		WHERE NOT (c.status = ANY($1))
		ORDER BY c.accident_date DESC
		LIMIT $2`, terminal, limit)
	if err != nil {
		return nil, fmt.Errorf("recent cases: %w", err)
	}
	defer rows.Close()

	items := make([]CaseSummary, 0, limit)
	for rows.Next() {
		var s CaseSummary
		if err := rows.Scan(&s.ID, &s.CaseNumber, &s.ClientName, &s.Status, &s.AccidentDate, &s.MmiDate); err != nil {
			return nil, fmt.Errorf("scan recent case: %w", err)
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *Repository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT status, COUNT(*) FROM cases GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	var items []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		items = append(items, sc)
	}
	return items, rows.Err()
}

// Deadlines returns MMI dates of cases waiting on MMI and statutory expiry
// dates of cases in the 120-day period that fall within [from, to].
func (r *Repository) Deadlines(ctx context.Context, from, to time.Time) ([]DeadlineRow, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT c.id, c.case_number, cl.first_name || ' ' || cl.last_name, $3::text, c.mmi_date, c.assigned_team_id
		FROM cases c JOIN clients cl ON cl.id = c.client_id
		WHERE c.status = 'MmiWaitingPeriod' AND c.mmi_date BETWEEN $1 AND $2
		UNION ALL
		SELECT c.id, c.case_number, cl.first_name || ' ' || cl.last_name, $4::text, c.statutory_expiry_date, c.assigned_team_id
		FROM cases c JOIN clients cl ON cl.id = c.client_id
		WHERE c.status = 'StatutoryWaitingPeriod' AND c.statutory_expiry_date BETWEEN $1 AND $2`,
		from, to, DeadlineMmi, DeadlineStatutory)
	if err != nil {
		return nil, fmt.Errorf("list deadlines: %w", err)
	}
	defer rows.Close()

	var items []DeadlineRow
	for rows.Next() {
		var d DeadlineRow
		if err := rows.Scan(&d.CaseID, &d.CaseNumber, &d.ClientName, &d.Kind, &d.Date, &d.AssignedTeamID); err != nil {
			return nil, fmt.Errorf("scan deadline: %w", err)
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
