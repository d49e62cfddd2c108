package repository

import (
	"context"
	"errors"
	"fmt"

	"raf_pnp_backend/internal/teams/domain"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	teamNotFoundMsg   = "team not found"
	memberNotFoundMsg = "team member not found"
)

// Repository handles team and membership persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new teams repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const teamSelect = `
	SELECT t.id, t.name, t.description, t.lead_user_id, u.full_name, t.state,
		(SELECT COUNT(*) FROM team_members tm WHERE tm.team_id = t.id AND tm.state = 'active'),
		t.created_at, t.updated_at
	FROM teams t
	LEFT JOIN users u ON u.id = t.lead_user_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeam(row rowScanner) (domain.Team, error) {
	var t domain.Team
	var state string
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.LeadUserID, &t.LeadName, &state,
		&t.MemberCount, &t.CreatedAt, &t.UpdatedAt)
	t.State = domain.State(state)
	return t, err
}

func (r *Repository) Create(ctx context.Context, t domain.Team) (domain.Team, error) {
	var id uuid.UUID
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO teams (name, description, lead_user_id, state)
		VALUES ($1, $2, $3, 'active')
		RETURNING id`, t.Name, t.Description, t.LeadUserID).Scan(&id)
	if err != nil {
		return domain.Team{}, mapWriteError(err, "teams.create")
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Team, error) {
	t, err := scanTeam(db.Conn(ctx, r.pool).QueryRow(ctx, teamSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Team{}, apperr.NotFound(teamNotFoundMsg)
		}
		return domain.Team{}, fmt.Errorf("get team by id: %w", err)
	}
	return t, nil
}

// List returns teams ordered by name.
func (r *Repository) List(ctx context.Context, includeDeactivated bool) ([]domain.Team, error) {
	query := teamSelect
	if !includeDeactivated {
		query += ` WHERE t.state = 'active'`
	}
	return r.queryTeams(ctx, query+` ORDER BY t.name`)
}

// ListByLead returns the active teams led by a user.
func (r *Repository) ListByLead(ctx context.Context, leadUserID uuid.UUID) ([]domain.Team, error) {
	return r.queryTeams(ctx, teamSelect+` WHERE t.lead_user_id = $1 AND t.state = 'active' ORDER BY t.name`, leadUserID)
}

func (r *Repository) queryTeams(ctx context.Context, query string, args ...interface{}) ([]domain.Team, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]domain.Team, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate teams: %w", rows.Err())
	}
	return teams, nil
}

func (r *Repository) Update(ctx context.Context, t domain.Team) (domain.Team, error) {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE teams SET name = $2, description = $3, lead_user_id = $4, updated_at = now()
		WHERE id = $1`, t.ID, t.Name, t.Description, t.LeadUserID)
	if err != nil {
		return domain.Team{}, mapWriteError(err, "teams.update")
	}
	if tag.RowsAffected() == 0 {
		return domain.Team{}, apperr.NotFound(teamNotFoundMsg)
	}
	return r.GetByID(ctx, t.ID)
}

func (r *Repository) SetState(ctx context.Context, id uuid.UUID, state domain.State) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `UPDATE teams SET state = $2, updated_at = now() WHERE id = $1`, id, string(state))
	if err != nil {
		return fmt.Errorf("set team state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(teamNotFoundMsg)
	}
	return nil
}

const memberSelect = `
	SELECT tm.id, tm.team_id, tm.user_id, u.full_name, u.email, tm.role, tm.state, tm.joined_at
	FROM team_members tm
	JOIN users u ON u.id = tm.user_id`

func scanMember(row rowScanner) (domain.Member, error) {
	var m domain.Member
	var role, state string
	err := row.Scan(&m.ID, &m.TeamID, &m.UserID, &m.UserName, &m.UserEmail, &role, &state, &m.JoinedAt)
	m.Role = domain.Role(role)
	m.State = domain.State(state)
	return m, err
}

// GetMember returns a membership in any state.
func (r *Repository) GetMember(ctx context.Context, teamID, userID uuid.UUID) (domain.Member, error) {
	m, err := scanMember(db.Conn(ctx, r.pool).QueryRow(ctx,
		memberSelect+` WHERE tm.team_id = $1 AND tm.user_id = $2 FOR UPDATE OF tm`, teamID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Member{}, apperr.NotFound(memberNotFoundMsg)
		}
		return domain.Member{}, fmt.Errorf("get team member: %w", err)
	}
	return m, nil
}

func (r *Repository) InsertMember(ctx context.Context, teamID, userID uuid.UUID, role domain.Role) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, role, state) VALUES ($1, $2, $3, 'active')`,
		teamID, userID, string(role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperr.NotFound("user not found")
		}
		return mapWriteError(err, "teams.add_member")
	}
	return nil
}

// ReactivateMember puts a deactivated membership back with a new role.
func (r *Repository) ReactivateMember(ctx context.Context, teamID, userID uuid.UUID, role domain.Role) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE team_members SET state = 'active', role = $3
		WHERE team_id = $1 AND user_id = $2`, teamID, userID, string(role))
	if err != nil {
		return fmt.Errorf("reactivate team member: %w", err)
	}
	return nil
}

func (r *Repository) DeactivateMember(ctx context.Context, teamID, userID uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE team_members SET state = 'deactivated'
		WHERE team_id = $1 AND user_id = $2`, teamID, userID)
	if err != nil {
		return fmt.Errorf("deactivate team member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(memberNotFoundMsg)
	}
	return nil
}

// UpdateMemberRole changes the role of an active member.
func (r *Repository) UpdateMemberRole(ctx context.Context, teamID, userID uuid.UUID, role domain.Role) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE team_members SET role = $3
		WHERE team_id = $1 AND user_id = $2 AND state = 'active'`, teamID, userID, string(role))
	if err != nil {
		return fmt.Errorf("update member role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(memberNotFoundMsg)
	}
	return nil
}

// ListMembers returns active members, senior roles first, then by name.
func (r *Repository) ListMembers(ctx context.Context, teamID uuid.UUID) ([]domain.Member, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, memberSelect+`
		WHERE tm.team_id = $1 AND tm.state = 'active'
		ORDER BY CASE tm.role WHEN 'Admin' THEN 2 WHEN 'Lead' THEN 1 ELSE 0 END DESC, u.full_name`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	members := make([]domain.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		members = append(members, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate team members: %w", rows.Err())
	}
	return members, nil
}

// ListActiveMemberIDs returns the user ids of active members. The user's own
// state is left to the notification dispatcher.
func (r *Repository) ListActiveMemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT user_id FROM team_members
		WHERE team_id = $1 AND state = 'active'
		ORDER BY joined_at`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list active member ids: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan member id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Stats gathers the counts behind the team dashboard.
func (r *Repository) Stats(ctx context.Context, teamID uuid.UUID) (domain.Stats, error) {
	var members, cases int
	var tasks domain.TaskCounts
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM team_members WHERE team_id = $1 AND state = 'active'),
			(SELECT COUNT(*) FROM cases WHERE assigned_team_id = $1),
			COUNT(t.id),
			COUNT(t.id) FILTER (WHERE t.status NOT IN ('Completed', 'Cancelled')),
			COUNT(t.id) FILTER (WHERE t.status = 'Completed'),
			COUNT(t.id) FILTER (WHERE t.status NOT IN ('Completed', 'Cancelled') AND t.due_date < now())
		FROM tasks t WHERE t.team_id = $1`, teamID,
	).Scan(&members, &cases, &tasks.Total, &tasks.Active, &tasks.Completed, &tasks.Overdue)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("team stats: %w", err)
	}
	return domain.NewStats(members, cases, tasks), nil
}

func mapWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return apperr.Conflict("user is already a member of this team").WithOp(op)
		case "23503":
			return apperr.Validation("lead user does not exist").WithOp(op)
		case "23514":
			return apperr.Validation("invalid team role").WithOp(op)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
