// Package seed loads the sample practice data used for demos and local
// development: attorneys, their teams, clients and cases at every stage.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	casedomain "raf_pnp_backend/internal/cases/domain"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Result counts the rows inserted by Run.
type Result struct {
	Users   int
	Teams   int
	Members int
	Clients int
	Cases   int
}

type Seeder struct {
	pool *pgxpool.Pool
	uow  db.UnitOfWork
	loc  *time.Location
	now  func() time.Time
	log  *logger.Logger
}

func New(pool *pgxpool.Pool, uow db.UnitOfWork, loc *time.Location, log *logger.Logger) *Seeder {
	if loc == nil {
		loc = time.UTC
	}
	return &Seeder{pool: pool, uow: uow, loc: loc, now: time.Now, log: log}
}

// Run inserts the staff when no users exist and the clients and cases when
// no clients exist. Running it twice inserts nothing the second time.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		teamIDs, err := s.seedStaff(ctx, &res)
		if err != nil {
			return err
		}
		return s.seedCases(ctx, teamIDs, &res)
	})
	if err != nil {
		return Result{}, err
	}
	s.log.Info("seed finished", "users", res.Users, "teams", res.Teams, "clients", res.Clients, "cases", res.Cases)
	return res, nil
}

func (s *Seeder) count(ctx context.Context, table string) (int, error) {
	var n int
	err := db.Conn(ctx, s.pool).QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	return n, err
}

// seedStaff returns the team ids, reading existing teams when staff is
// already present so seeded cases can still be assigned.
func (s *Seeder) seedStaff(ctx context.Context, res *Result) ([]uuid.UUID, error) {
	q := db.Conn(ctx, s.pool)

	users, err := s.count(ctx, "users")
	if err != nil {
		return nil, err
	}
	if users > 0 {
		return s.existingTeams(ctx)
	}

	userIDs := make([]uuid.UUID, len(sampleUsers))
	for i, u := range sampleUsers {
		if err := q.QueryRow(ctx, `
			INSERT INTO users (full_name, email, phone_number, whatsapp_enabled, phone_verified, preferred_channel, role)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			u.FullName, u.Email, u.Phone, u.WhatsApp, u.Verified, u.Channel, u.Role,
		).Scan(&userIDs[i]); err != nil {
			return nil, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}
	res.Users = len(userIDs)

	teamIDs := make([]uuid.UUID, len(sampleTeams))
	for i, t := range sampleTeams {
		if err := q.QueryRow(ctx, `
			INSERT INTO teams (name, description, lead_user_id)
			VALUES ($1, $2, $3)
			RETURNING id`,
			t.Name, t.Description, userIDs[t.Lead],
		).Scan(&teamIDs[i]); err != nil {
			return nil, fmt.Errorf("seed team %s: %w", t.Name, err)
		}
	}
	res.Teams = len(teamIDs)

	for _, m := range sampleMembers {
		if _, err := q.Exec(ctx, `
			INSERT INTO team_members (team_id, user_id, role) VALUES ($1, $2, $3)`,
			teamIDs[m.Team], userIDs[m.User], m.Role,
		); err != nil {
			return nil, fmt.Errorf("seed team member: %w", err)
		}
		res.Members++
	}
	return teamIDs, nil
}

func (s *Seeder) existingTeams(ctx context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(sampleTeams))
	for i, t := range sampleTeams {
		err := db.Conn(ctx, s.pool).QueryRow(ctx, `SELECT id FROM teams WHERE name = $1 ORDER BY created_at LIMIT 1`, t.Name).Scan(&ids[i])
		if errors.Is(err, pgx.ErrNoRows) {
			// Teams renamed or removed by hand; cases are left unassigned.
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (s *Seeder) seedCases(ctx context.Context, teamIDs []uuid.UUID, res *Result) error {
	clients, err := s.count(ctx, "clients")
	if err != nil {
		return err
	}
	if clients > 0 {
		return nil
	}

	q := db.Conn(ctx, s.pool)
	now := s.now().In(s.loc)

	clientIDs := make([]uuid.UUID, 0, 10)
	for _, c := range sampleClients(now) {
		var id uuid.UUID
		if err := q.QueryRow(ctx, `
			INSERT INTO clients (first_name, last_name, id_number, phone_number, email, address, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			c.FirstName, c.LastName, c.IDNumber, c.Phone, c.Email, c.Address, c.CreatedAt,
		).Scan(&id); err != nil {
			return fmt.Errorf("seed client %s %s: %w", c.FirstName, c.LastName, err)
		}
		clientIDs = append(clientIDs, id)
	}
	res.Clients = len(clientIDs)

	for _, c := range sampleCases(now) {
		var teamID *uuid.UUID
		if c.Team < len(teamIDs) {
			teamID = &teamIDs[c.Team]
		}
		if _, err := q.Exec(ctx, `
			INSERT INTO cases (
				case_number, client_id, accident_date, accident_description, accident_location, status,
				date_opened, date_closed, initial_lodgement_date, compliance_lodgement_date, mmi_date,
				statutory_expiry_date, summons_issue_date, assigned_attorney, candidate_attorney,
				fee_agreement_signed, contingency_fee_agreement, estimated_claim_value, settlement_amount,
				notes, assigned_team_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, true, $16, $17, $18, $19, $20)`,
			c.CaseNumber, clientIDs[c.Client], s.date(c.AccidentDate), c.Description, c.Location, string(c.Status),
			c.DateOpened, s.datePtr(c.DateClosed), s.datePtr(c.InitialLodgement), s.datePtr(c.ComplianceLodgement), s.datePtr(c.MmiDate),
			s.datePtr(c.StatutoryExpiry), s.datePtr(c.SummonsIssued), c.Attorney, c.Candidate,
			c.Contingency, c.EstimatedValue, c.SettlementAmount,
			c.Notes, teamID,
		); err != nil {
			return fmt.Errorf("seed case %s: %w", c.CaseNumber, err)
		}
		res.Cases++
	}
	return nil
}

func (s *Seeder) date(t time.Time) time.Time {
	return casedomain.DateOf(t, s.loc)
}

func (s *Seeder) datePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := s.date(*t)
	return &d
}
