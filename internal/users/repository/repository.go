package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userNotFoundMsg = "user not found"

// Notification channels a user can prefer.
const (
	ChannelInApp    = "InApp"
	ChannelEmail    = "Email"
	ChannelWhatsApp = "WhatsApp"
	ChannelAll      = "All"
)

// Lifecycle states.
const (
	StateActive      = "active"
	StateDeactivated = "deactivated"
)

// User is a member of staff.
type User struct {
	ID               uuid.UUID
	FullName         string
	Email            string
	PhoneNumber      *string
	WhatsAppEnabled  bool
	PhoneVerified    bool
	PreferredChannel string
	Role             *string
	State            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsActive reports whether the user has not been deactivated.
func (u User) IsActive() bool {
	return u.State == StateActive
}

// Repository handles user persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new users repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, full_name, email, phone_number, whatsapp_enabled, phone_verified,
	preferred_channel, role, state, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PhoneNumber, &u.WhatsAppEnabled, &u.PhoneVerified,
		&u.PreferredChannel, &u.Role, &u.State, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *Repository) Create(ctx context.Context, u User) (User, error) {
	query := `
		INSERT INTO users (full_name, email, phone_number, whatsapp_enabled, preferred_channel, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns
	created, err := scanUser(db.Conn(ctx, r.pool).QueryRow(ctx, query,
		u.FullName, u.Email, u.PhoneNumber, u.WhatsAppEnabled, u.PreferredChannel, u.Role))
	if err != nil {
		return User{}, mapWriteError(err, "users.create")
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	u, err := scanUser(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound(userNotFoundMsg)
		}
		return User{}, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// List returns users ordered by name.
func (r *Repository) List(ctx context.Context, includeDeactivated bool) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	if !includeDeactivated {
		query += ` WHERE state = 'active'`
	}
	query += ` ORDER BY full_name`

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate users: %w", rows.Err())
	}
	return users, nil
}

// Update writes the profile and notification preference columns.
func (r *Repository) Update(ctx context.Context, u User) (User, error) {
	query := `
		UPDATE users SET full_name = $2, email = $3, phone_number = $4, whatsapp_enabled = $5,
			phone_verified = $6, preferred_channel = $7, role = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	updated, err := scanUser(db.Conn(ctx, r.pool).QueryRow(ctx, query,
		u.ID, u.FullName, u.Email, u.PhoneNumber, u.WhatsAppEnabled, u.PhoneVerified, u.PreferredChannel, u.Role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound(userNotFoundMsg)
		}
		return User{}, mapWriteError(err, "users.update")
	}
	return updated, nil
}

// SetState activates or deactivates a user.
func (r *Repository) SetState(ctx context.Context, id uuid.UUID, state string) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `UPDATE users SET state = $2, updated_at = now() WHERE id = $1`, id, state)
	if err != nil {
		return fmt.Errorf("set user state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(userNotFoundMsg)
	}
	return nil
}

// Count returns the number of user rows.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func mapWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return apperr.Conflict("a user with this email already exists").WithOp(op)
		case "23514":
			return apperr.Validation("invalid preferred channel").WithOp(op)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
