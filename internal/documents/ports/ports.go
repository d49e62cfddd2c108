// Package ports declares what the documents module needs from other modules.
package ports

import (
	"context"

	casedomain "raf_pnp_backend/internal/cases/domain"

	"github.com/google/uuid"
)

// CaseActivityRecorder appends to a case log on the caller's unit of work.
type CaseActivityRecorder interface {
	RecordActivity(ctx context.Context, caseID uuid.UUID, draft casedomain.ActivityDraft) error
}
