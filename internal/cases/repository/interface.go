package repository

import (
	"context"
	"time"

	"raf_pnp_backend/internal/cases/domain"

	"github.com/google/uuid"
)

// CreateCaseParams contains data for inserting a case.
type CreateCaseParams struct {
	CaseNumber              string
	ClientID                uuid.UUID
	AccidentDate            time.Time
	AccidentDescription     *string
	AccidentLocation        *string
	Status                  domain.Status
	DateOpened              time.Time
	InitialLodgementDate    *time.Time
	MmiDate                 *time.Time
	AssignedAttorney        *string
	CandidateAttorney       *string
	FeeAgreementSigned      bool
	ContingencyFeeAgreement bool
	EstimatedClaimValue     *float64
	Notes                   *string
	AssignedTeamID          *uuid.UUID
}

// ListCasesParams defines filters for listing cases.
type ListCasesParams struct {
	Search         string
	Status         *domain.Status
	AssignedTeamID *uuid.UUID
	ClientID       *uuid.UUID
	Sort           string
	Offset         int
	Limit          int
}

// CreateActivityParams contains data for appending to the case log.
type CreateActivityParams struct {
	CaseID       uuid.UUID
	Draft        domain.ActivityDraft
	ActivityDate time.Time
	CreatedBy    string
}

// Repository defines case storage operations. Every method runs on the
// transaction carried by ctx when there is one.
type Repository interface {
	Create(ctx context.Context, params CreateCaseParams) (domain.Case, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Case, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Case, error)
	List(ctx context.Context, params ListCasesParams) ([]domain.Case, int, error)
	Update(ctx context.Context, c domain.Case) (domain.Case, error)
	SetAssignedTeam(ctx context.Context, id uuid.UUID, teamID *uuid.UUID) (domain.Case, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MaxCaseNumberSuffix(ctx context.Context, prefix string) (int, error)

	CreateActivity(ctx context.Context, params CreateActivityParams) (domain.Activity, error)
	ListActivities(ctx context.Context, caseID uuid.UUID) ([]domain.Activity, error)
	CompleteReminder(ctx context.Context, activityID uuid.UUID) (domain.Activity, error)
}
