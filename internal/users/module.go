// Package users provides staff accounts and their notification preferences.
package users

import (
	apphttp "raf_pnp_backend/internal/http"
	"raf_pnp_backend/internal/users/handler"
	"raf_pnp_backend/internal/users/repository"
	"raf_pnp_backend/internal/users/service"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the users module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the users module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{handler: handler.New(svc, val), service: svc, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "users"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the user repository for adapters.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts user routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/users")
	m.handler.RegisterRoutes(group)

	verify := group.Group("")
	if ctx.OutboundLimiter != nil {
		verify.Use(ctx.OutboundLimiter.Middleware())
	}
	m.handler.RegisterVerificationRoutes(verify)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
