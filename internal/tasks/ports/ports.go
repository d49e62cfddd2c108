// Package ports declares what the tasks module needs from other modules.
package ports

import (
	"context"

	"raf_pnp_backend/internal/tasks/domain"

	"github.com/google/uuid"
)

// CaseLookup resolves the case a workflow task is raised for.
type CaseLookup interface {
	GetCaseRef(ctx context.Context, caseID uuid.UUID) (domain.CaseRef, error)
}

// Notifier writes task notifications. It runs inside the task's unit of work.
type Notifier interface {
	NotifyTaskAssigned(ctx context.Context, task domain.Task) error
	NotifyTaskCompleted(ctx context.Context, task domain.Task) error
	NotifyTaskCommented(ctx context.Context, task domain.Task, commenter string) error
}

// UserDirectory resolves display names for comment authors.
type UserDirectory interface {
	FullName(ctx context.Context, userID uuid.UUID) (string, error)
}
