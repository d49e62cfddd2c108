package repository

import (
	"context"
	"errors"
	"fmt"

	"raf_pnp_backend/internal/experts/domain"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	appointmentNotFoundMessage = "expert appointment not found"
	caseNotFoundMessage        = "case not found"
)

// Repository handles expert appointment persistence.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const appointmentColumns = `id, case_id, expert_type, expert_name, practice_name, contact_number, email,
	appointment_date, status, report_received_date, expert_fee, fee_paid, notes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (domain.Appointment, error) {
	var a domain.Appointment
	var expertType, status string
	err := row.Scan(&a.ID, &a.CaseID, &expertType, &a.ExpertName, &a.PracticeName, &a.ContactNumber, &a.Email,
		&a.AppointmentDate, &status, &a.ReportReceivedDate, &a.ExpertFee, &a.FeePaid, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	a.ExpertType = domain.ExpertType(expertType)
	a.Status = domain.Status(status)
	return a, err
}

func mapWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return apperr.NotFound(caseNotFoundMessage).WithOp(op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *Repository) Create(ctx context.Context, a domain.Appointment) (domain.Appointment, error) {
	created, err := scanAppointment(db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO expert_appointments (case_id, expert_type, expert_name, practice_name, contact_number, email,
			appointment_date, status, report_received_date, expert_fee, fee_paid, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+appointmentColumns,
		a.CaseID, string(a.ExpertType), a.ExpertName, a.PracticeName, a.ContactNumber, a.Email,
		a.AppointmentDate, string(a.Status), a.ReportReceivedDate, a.ExpertFee, a.FeePaid, a.Notes))
	if err != nil {
		return domain.Appointment{}, mapWriteError(err, "create expert appointment")
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	a, err := scanAppointment(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM expert_appointments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Appointment{}, apperr.NotFound(appointmentNotFoundMessage)
	}
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("get expert appointment: %w", err)
	}
	return a, nil
}

// ListByCase orders appointments by date, unscheduled ones last.
func (r *Repository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Appointment, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT `+appointmentColumns+` FROM expert_appointments
		WHERE case_id = $1
		ORDER BY appointment_date ASC NULLS LAST, created_at ASC`, caseID)
	if err != nil {
		return nil, fmt.Errorf("list expert appointments: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expert appointment: %w", err)
		}
		items = append(items, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate expert appointments: %w", rows.Err())
	}
	return items, nil
}

func (r *Repository) Update(ctx context.Context, a domain.Appointment) (domain.Appointment, error) {
	updated, err := scanAppointment(db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE expert_appointments SET
			expert_type = $2, expert_name = $3, practice_name = $4, contact_number = $5, email = $6,
			appointment_date = $7, status = $8, report_received_date = $9, expert_fee = $10,
			fee_paid = $11, notes = $12, updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns,
		a.ID, string(a.ExpertType), a.ExpertName, a.PracticeName, a.ContactNumber, a.Email,
		a.AppointmentDate, string(a.Status), a.ReportReceivedDate, a.ExpertFee, a.FeePaid, a.Notes))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Appointment{}, apperr.NotFound(appointmentNotFoundMessage)
	}
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("update expert appointment: %w", err)
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM expert_appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expert appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(appointmentNotFoundMessage)
	}
	return nil
}

// CountOutstanding counts appointments whose report is still awaited.
func (r *Repository) CountOutstanding(ctx context.Context) (int, error) {
	var n int
	err := db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM expert_appointments WHERE status IN ('Pending', 'Scheduled')`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count outstanding experts: %w", err)
	}
	return n, nil
}
