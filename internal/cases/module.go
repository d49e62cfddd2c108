// Package cases provides the RAF case bounded context module: intake,
// lifecycle transitions and the case activity log.
package cases

import (
	"raf_pnp_backend/internal/cases/domain"
	"raf_pnp_backend/internal/cases/handler"
	"raf_pnp_backend/internal/cases/repository"
	"raf_pnp_backend/internal/cases/service"
	"raf_pnp_backend/internal/events"
	apphttp "raf_pnp_backend/internal/http"
	"raf_pnp_backend/platform/actor"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/validator"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the cases bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repo
}

// NewModule creates and initializes the cases module with all its dependencies.
func NewModule(
	pool *pgxpool.Pool,
	uow db.UnitOfWork,
	engine *domain.Engine,
	eventBus events.Bus,
	system actor.Actor,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	RegisterValidators(val)

	repo := repository.New(pool)
	svc := service.New(repo, uow, engine, eventBus, system, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repo: repo}
}

// RegisterValidators adds the case_status tag.
func RegisterValidators(val *validator.Validator) {
	_ = val.RegisterValidation("case_status", func(fl govalidator.FieldLevel) bool {
		return domain.Status(fl.Field().String()).IsValid()
	})
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "cases"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the case repository for adapters.
func (m *Module) Repository() *repository.Repo {
	return m.repo
}

// RegisterRoutes mounts case routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/cases"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
