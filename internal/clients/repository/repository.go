package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	clientNotFoundMsg = "client not found"

	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Client is a road accident victim represented by the firm.
type Client struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	IDNumber    string
	PhoneNumber *string
	Email       *string
	Address     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CaseSummary is the slice of a case shown on the client detail page.
type CaseSummary struct {
	ID           uuid.UUID
	CaseNumber   string
	Status       string
	AccidentDate time.Time
	DateOpened   time.Time
}

type ListParams struct {
	Search string
	Offset int
	Limit  int
}

// Repository handles client persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new clients repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const clientColumns = `id, first_name, last_name, id_number, phone_number, email, address, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.IDNumber, &c.PhoneNumber, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *Repository) Create(ctx context.Context, c Client) (Client, error) {
	query := `
		INSERT INTO clients (first_name, last_name, id_number, phone_number, email, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + clientColumns
	created, err := scanClient(db.Conn(ctx, r.pool).QueryRow(ctx, query,
		c.FirstName, c.LastName, c.IDNumber, c.PhoneNumber, c.Email, c.Address))
	if err != nil {
		return Client{}, mapWriteError(err, "clients.create")
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	c, err := scanClient(db.Conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, apperr.NotFound(clientNotFoundMsg)
		}
		return Client{}, fmt.Errorf("get client by id: %w", err)
	}
	return c, nil
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Client, int, error) {
	whereClause := ""
	args := []interface{}{}
	argIdx := 1
	if params.Search != "" {
		whereClause = fmt.Sprintf(`WHERE (first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d OR id_number ILIKE $%[1]d
			OR email ILIKE $%[1]d OR phone_number ILIKE $%[1]d)`, argIdx)
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	var total int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, "SELECT COUNT(*) FROM clients "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM clients %s ORDER BY last_name, first_name LIMIT $%d OFFSET $%d`,
		clientColumns, whereClause, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate clients: %w", rows.Err())
	}
	return clients, total, nil
}

func (r *Repository) Update(ctx context.Context, c Client) (Client, error) {
	query := `
		UPDATE clients SET first_name = $2, last_name = $3, id_number = $4,
			phone_number = $5, email = $6, address = $7, updated_at = now()
		WHERE id = $1
		RETURNING ` + clientColumns
	updated, err := scanClient(db.Conn(ctx, r.pool).QueryRow(ctx, query,
		c.ID, c.FirstName, c.LastName, c.IDNumber, c.PhoneNumber, c.Email, c.Address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, apperr.NotFound(clientNotFoundMsg)
		}
		return Client{}, mapWriteError(err, "clients.update")
	}
	return updated, nil
}

// Delete removes a client. Clients with cases cannot be deleted.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return apperr.Conflict("client has cases and cannot be deleted").WithOp("clients.delete")
		}
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(clientNotFoundMsg)
	}
	return nil
}

// ListCases returns the client's cases, newest first.
func (r *Repository) ListCases(ctx context.Context, clientID uuid.UUID) ([]CaseSummary, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT id, case_number, status, accident_date, date_opened
		FROM cases WHERE client_id = $1 ORDER BY date_opened DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list client cases: %w", err)
	}
	defer rows.Close()

	items := make([]CaseSummary, 0)
	for rows.Next() {
		var s CaseSummary
		if err := rows.Scan(&s.ID, &s.CaseNumber, &s.Status, &s.AccidentDate, &s.DateOpened); err != nil {
			return nil, fmt.Errorf("scan client case: %w", err)
		}
		items = append(items, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate client cases: %w", rows.Err())
	}
	return items, nil
}

// Count returns the number of clients.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return n, nil
}

func mapWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperr.Conflict("a client with this ID number already exists").WithOp(op)
	}
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return apperr.Validation(pgErr.Message).WithOp(op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
