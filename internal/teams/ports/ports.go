// Package ports declares what the teams module needs from other modules.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// CaseAssigner sets the team on a case. A nil team clears it.
type CaseAssigner interface {
	AssignTeam(ctx context.Context, caseID uuid.UUID, teamID *uuid.UUID) (caseNumber string, err error)
}

// TeamNotifier tells the members of a team about a change.
type TeamNotifier interface {
	NotifyTeamUpdate(ctx context.Context, teamID uuid.UUID, title, message string, caseID *uuid.UUID) error
}
