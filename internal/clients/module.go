// Package clients provides the client register module.
package clients

import (
	"raf_pnp_backend/internal/clients/handler"
	"raf_pnp_backend/internal/clients/repository"
	"raf_pnp_backend/internal/clients/service"
	apphttp "raf_pnp_backend/internal/http"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the clients module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the clients module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{handler: handler.New(svc, val), service: svc, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "clients"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for reporting adapters.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts client routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/clients"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
