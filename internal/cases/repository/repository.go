package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"raf_pnp_backend/internal/cases/domain"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	caseNotFoundMessage     = "case not found"
	activityNotFoundMessage = "activity not found"

	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	opCreate = "cases.create"
	opUpdate = "cases.update"
)

const caseColumns = `
	c.id, c.case_number, c.client_id, cl.first_name, cl.last_name,
	c.accident_date, c.accident_description, c.accident_location, c.status,
	c.date_opened, c.date_closed, c.initial_lodgement_date, c.compliance_lodgement_date,
	c.mmi_date, c.statutory_expiry_date, c.summons_issue_date,
	c.assigned_attorney, c.candidate_attorney, c.fee_agreement_signed, c.contingency_fee_agreement,
	c.estimated_claim_value, c.settlement_amount, c.notes, c.assigned_team_id,
	c.version, c.updated_at`

const caseFrom = `FROM cases c JOIN clients cl ON cl.id = c.client_id`

// Repo implements the cases repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new cases repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (domain.Case, error) {
	var c domain.Case
	var status string
	err := row.Scan(
		&c.ID, &c.CaseNumber, &c.ClientID, &c.ClientFirstName, &c.ClientLastName,
		&c.AccidentDate, &c.AccidentDescription, &c.AccidentLocation, &status,
		&c.DateOpened, &c.DateClosed, &c.InitialLodgementDate, &c.ComplianceLodgementDate,
		&c.MmiDate, &c.StatutoryExpiryDate, &c.SummonsIssueDate,
		&c.AssignedAttorney, &c.CandidateAttorney, &c.FeeAgreementSigned, &c.ContingencyFeeAgreement,
		&c.EstimatedClaimValue, &c.SettlementAmount, &c.Notes, &c.AssignedTeamID,
		&c.Version, &c.UpdatedAt,
	)
	c.Status = domain.Status(status)
	return c, err
}

func (r *Repo) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

// Create inserts a case and returns it with the client's name.
func (r *Repo) Create(ctx context.Context, params CreateCaseParams) (domain.Case, error) {
	query := `
		INSERT INTO cases (
			case_number, client_id, accident_date, accident_description, accident_location,
			status, date_opened, initial_lodgement_date, mmi_date, assigned_attorney,
			candidate_attorney, fee_agreement_signed, contingency_fee_agreement,
			estimated_claim_value, notes, assigned_team_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`

	var id uuid.UUID
	err := r.conn(ctx).QueryRow(ctx, query,
		params.CaseNumber, params.ClientID, params.AccidentDate, params.AccidentDescription, params.AccidentLocation,
		string(params.Status), params.DateOpened, params.InitialLodgementDate, params.MmiDate, params.AssignedAttorney,
		params.CandidateAttorney, params.FeeAgreementSigned, params.ContingencyFeeAgreement,
		params.EstimatedClaimValue, params.Notes, params.AssignedTeamID,
	).Scan(&id)
	if err != nil {
		return domain.Case{}, mapWriteError(err, opCreate)
	}
	return r.GetByID(ctx, id)
}

// GetByID retrieves a case by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Case, error) {
	query := `SELECT ` + caseColumns + ` ` + caseFrom + ` WHERE c.id = $1`
	c, err := scanCase(r.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Case{}, apperr.NotFound(caseNotFoundMessage)
		}
		return domain.Case{}, fmt.Errorf("get case by id: %w", err)
	}
	return c, nil
}

// GetForUpdate retrieves a case and locks its row until the transaction ends.
func (r *Repo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Case, error) {
	query := `SELECT ` + caseColumns + ` ` + caseFrom + ` WHERE c.id = $1 FOR UPDATE OF c`
	c, err := scanCase(r.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Case{}, apperr.NotFound(caseNotFoundMessage)
		}
		return domain.Case{}, fmt.Errorf("lock case: %w", err)
	}
	return c, nil
}

// List lists cases with filters and pagination.
func (r *Repo) List(ctx context.Context, params ListCasesParams) ([]domain.Case, int, error) {
	whereClauses := make([]string, 0, 4)
	args := make([]interface{}, 0, 6)
	argIdx := 1

	addFilter := func(clause string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf(clause, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Search != "" {
		addFilter(`(c.case_number ILIKE $%[1]d OR cl.first_name ILIKE $%[1]d OR cl.last_name ILIKE $%[1]d OR c.assigned_attorney ILIKE $%[1]d)`, "%"+params.Search+"%")
	}
	if params.Status != nil {
		addFilter("c.status = $%d", string(*params.Status))
	}
	if params.AssignedTeamID != nil {
		addFilter("c.assigned_team_id = $%d", *params.AssignedTeamID)
	}
	if params.ClientID != nil {
		addFilter("c.client_id = $%d", *params.ClientID)
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s %s", caseFrom, whereClause)
	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cases: %w", err)
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		caseColumns, caseFrom, whereClause, sortClause(params.Sort), argIdx, argIdx+1)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Case, 0)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan case: %w", err)
		}
		items = append(items, c)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate cases: %w", rows.Err())
	}

	return items, total, nil
}

func sortClause(sort string) string {
	switch sort {
	case "oldest":
		return "c.date_opened ASC"
	case "casenumber":
		return "c.case_number ASC"
	case "client":
		return "cl.last_name ASC, cl.first_name ASC"
	default:
		return "c.date_opened DESC"
	}
}

// Update writes every mutable column when c.Version matches the stored
// version. A stale version yields Conflict, a vanished row NotFound.
func (r *Repo) Update(ctx context.Context, c domain.Case) (domain.Case, error) {
	query := `
		UPDATE cases SET
			case_number = $3,
			accident_date = $4,
			accident_description = $5,
			accident_location = $6,
			status = $7,
			date_closed = $8,
			initial_lodgement_date = $9,
			compliance_lodgement_date = $10,
			mmi_date = $11,
			statutory_expiry_date = $12,
			summons_issue_date = $13,
			assigned_attorney = $14,
			candidate_attorney = $15,
			fee_agreement_signed = $16,
			contingency_fee_agreement = $17,
			estimated_claim_value = $18,
			settlement_amount = $19,
			notes = $20,
			assigned_team_id = $21,
			version = version + 1,
			updated_at = now()
		WHERE id = $1 AND version = $2`

	tag, err := r.conn(ctx).Exec(ctx, query,
		c.ID, c.Version,
		c.CaseNumber, c.AccidentDate, c.AccidentDescription, c.AccidentLocation,
		string(c.Status), c.DateClosed, c.InitialLodgementDate, c.ComplianceLodgementDate,
		c.MmiDate, c.StatutoryExpiryDate, c.SummonsIssueDate,
		c.AssignedAttorney, c.CandidateAttorney, c.FeeAgreementSigned, c.ContingencyFeeAgreement,
		c.EstimatedClaimValue, c.SettlementAmount, c.Notes, c.AssignedTeamID,
	)
	if err != nil {
		return domain.Case{}, mapWriteError(err, opUpdate)
	}
	if tag.RowsAffected() == 0 {
		return domain.Case{}, r.staleOrMissing(ctx, c.ID)
	}
	return r.GetByID(ctx, c.ID)
}

func (r *Repo) staleOrMissing(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM cases WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check case exists: %w", err)
	}
	if !exists {
		return apperr.NotFound(caseNotFoundMessage)
	}
	return apperr.Conflict("case was modified by someone else; reload and try again").WithOp(opUpdate)
}

// SetAssignedTeam assigns or clears the case's team.
func (r *Repo) SetAssignedTeam(ctx context.Context, id uuid.UUID, teamID *uuid.UUID) (domain.Case, error) {
	query := `
		UPDATE cases SET assigned_team_id = $2, version = version + 1, updated_at = now()
		WHERE id = $1`
	tag, err := r.conn(ctx).Exec(ctx, query, id, teamID)
	if err != nil {
		return domain.Case{}, mapWriteError(err, opUpdate)
	}
	if tag.RowsAffected() == 0 {
		return domain.Case{}, apperr.NotFound(caseNotFoundMessage)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a case; documents, experts, activities and tasks cascade.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM cases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete case: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(caseNotFoundMessage)
	}
	return nil
}

// MaxCaseNumberSuffix returns the highest numeric suffix among case numbers
// of the form prefix+digits, or 0. Inside a transaction it holds an advisory
// lock on prefix until commit, so concurrent intakes number in turn.
func (r *Repo) MaxCaseNumberSuffix(ctx context.Context, prefix string) (int, error) {
	q := r.conn(ctx)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, prefix); err != nil {
		return 0, fmt.Errorf("lock case numbers: %w", err)
	}
	var suffix int
	err := q.QueryRow(ctx, `
		SELECT COALESCE(MAX(substring(case_number FROM $2)::bigint), 0)
		FROM cases
		WHERE case_number ~ $1`,
		"^"+regexp.QuoteMeta(prefix)+"[0-9]+$", "^"+regexp.QuoteMeta(prefix)+"([0-9]+)$",
	).Scan(&suffix)
	if err != nil {
		return 0, fmt.Errorf("max case number: %w", err)
	}
	return suffix, nil
}

func mapWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Conflict("case number already exists").WithOp(op)
		case pgForeignKeyViolation:
			if pgErr.ConstraintName == "cases_assigned_team_id_fkey" {
				return apperr.Validation("assigned team does not exist").WithOp(op)
			}
			return apperr.Validation("client does not exist").WithOp(op)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
