// Package ports defines the interfaces the cases domain needs from other
// modules. Implementations are wired in the composition root.
package ports

import (
	"context"

	"raf_pnp_backend/internal/cases/domain"
)

// Notifier fans a committed-or-pending status change out to the case's team.
// It is called inside the unit of work so notification rows share the
// transaction; channel delivery happens after commit.
type Notifier interface {
	NotifyCaseStatusChanged(ctx context.Context, c domain.Case, oldStatus domain.Status) error
}
