// Package tasks provides the task bounded context module: manual tasks,
// workflow tasks raised for case stages, assignment and comments.
package tasks

import (
	casedomain "raf_pnp_backend/internal/cases/domain"
	"raf_pnp_backend/internal/events"
	apphttp "raf_pnp_backend/internal/http"
	"raf_pnp_backend/internal/tasks/domain"
	"raf_pnp_backend/internal/tasks/handler"
	"raf_pnp_backend/internal/tasks/repository"
	"raf_pnp_backend/internal/tasks/service"
	"raf_pnp_backend/platform/actor"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/validator"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the tasks bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the tasks module with all its dependencies.
func NewModule(
	pool *pgxpool.Pool,
	uow db.UnitOfWork,
	eventBus events.Bus,
	system actor.Actor,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	RegisterValidators(val)

	repo := repository.New(pool)
	svc := service.New(repo, uow, eventBus, system, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// RegisterValidators adds the task_status, task_priority and case_status tags.
func RegisterValidators(val *validator.Validator) {
	_ = val.RegisterValidation("task_status", func(fl govalidator.FieldLevel) bool {
		return domain.Status(fl.Field().String()).IsValid()
	})
	_ = val.RegisterValidation("task_priority", func(fl govalidator.FieldLevel) bool {
		return domain.Priority(fl.Field().String()).IsValid()
	})
	_ = val.RegisterValidation("case_status", func(fl govalidator.FieldLevel) bool {
		return casedomain.Status(fl.Field().String()).IsValid()
	})
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tasks"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts task routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/tasks"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
