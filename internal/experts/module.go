// Package experts tracks medico-legal expert appointments on RAF cases.
package experts

import (
	"time"

	"raf_pnp_backend/internal/experts/domain"
	"raf_pnp_backend/internal/experts/handler"
	"raf_pnp_backend/internal/experts/repository"
	"raf_pnp_backend/internal/experts/service"
	apphttp "raf_pnp_backend/internal/http"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/validator"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the experts module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(
	pool *pgxpool.Pool,
	uow db.UnitOfWork,
	activities service.ActivityRecorder,
	loc *time.Location,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	_ = val.RegisterValidation("expert_type", func(fl govalidator.FieldLevel) bool {
		return domain.ExpertType(fl.Field().String()).IsValid()
	})
	_ = val.RegisterValidation("appointment_status", func(fl govalidator.FieldLevel) bool {
		return domain.Status(fl.Field().String()).IsValid()
	})

	svc := service.New(repository.New(pool), uow, activities, loc, log)
	return &Module{handler: handler.New(svc, val), service: svc}
}

func (m *Module) Name() string {
	return "experts"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterCaseRoutes(ctx.Protected.Group("/cases"))
	m.handler.RegisterRoutes(ctx.Protected.Group("/experts"))
}

var _ apphttp.Module = (*Module)(nil)
