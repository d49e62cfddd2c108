// Package teams provides team management: membership, statistics and
// case assignment.
package teams

import (
	apphttp "raf_pnp_backend/internal/http"
	"raf_pnp_backend/internal/teams/handler"
	"raf_pnp_backend/internal/teams/repository"
	"raf_pnp_backend/internal/teams/service"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the teams module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the teams module.
func NewModule(pool *pgxpool.Pool, uow db.UnitOfWork, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, uow, log)
	return &Module{handler: handler.New(svc, val), service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "teams"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts team routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/teams"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
