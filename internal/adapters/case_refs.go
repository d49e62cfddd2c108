package adapters

import (
	"context"

	casedomain "raf_pnp_backend/internal/cases/domain"
	taskdomain "raf_pnp_backend/internal/tasks/domain"
	teamports "raf_pnp_backend/internal/teams/ports"

	"github.com/google/uuid"
)

// CaseReader is the part of the cases service the adapters read from.
type CaseReader interface {
	Get(ctx context.Context, id uuid.UUID) (casedomain.Case, error)
}

// CaseTeamWriter sets or clears the team on a case.
type CaseTeamWriter interface {
	AssignTeam(ctx context.Context, caseID uuid.UUID, teamID *uuid.UUID) (casedomain.Case, error)
}

// TaskCaseLookup resolves the case a task refers to.
type TaskCaseLookup struct {
	cases CaseReader
}

func NewTaskCaseLookup(cases CaseReader) *TaskCaseLookup {
	return &TaskCaseLookup{cases: cases}
}

func (a *TaskCaseLookup) GetCaseRef(ctx context.Context, caseID uuid.UUID) (taskdomain.CaseRef, error) {
	c, err := a.cases.Get(ctx, caseID)
	if err != nil {
		return taskdomain.CaseRef{}, err
	}
	return taskdomain.CaseRef{ID: c.ID, CaseNumber: c.CaseNumber, TeamID: c.AssignedTeamID}, nil
}

// TeamCaseAssigner lets the teams module move cases between teams.
type TeamCaseAssigner struct {
	cases CaseTeamWriter
}

func NewTeamCaseAssigner(cases CaseTeamWriter) *TeamCaseAssigner {
	return &TeamCaseAssigner{cases: cases}
}

func (a *TeamCaseAssigner) AssignTeam(ctx context.Context, caseID uuid.UUID, teamID *uuid.UUID) (string, error) {
	c, err := a.cases.AssignTeam(ctx, caseID, teamID)
	if err != nil {
		return "", err
	}
	return c.CaseNumber, nil
}

var _ teamports.CaseAssigner = (*TeamCaseAssigner)(nil)
