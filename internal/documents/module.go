// Package documents stores case documents in MinIO and keeps their records.
package documents

import (
	"raf_pnp_backend/internal/adapters/storage"
	"raf_pnp_backend/internal/documents/domain"
	"raf_pnp_backend/internal/documents/handler"
	"raf_pnp_backend/internal/documents/ports"
	"raf_pnp_backend/internal/documents/repository"
	"raf_pnp_backend/internal/documents/service"
	"raf_pnp_backend/internal/events"
	apphttp "raf_pnp_backend/internal/http"
	"raf_pnp_backend/platform/actor"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/validator"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the documents module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the documents module. store may be nil when MinIO is
// disabled; listing still works but uploads and downloads fail.
func NewModule(
	pool *pgxpool.Pool,
	uow db.UnitOfWork,
	store storage.Store,
	policy storage.Policy,
	activities ports.CaseActivityRecorder,
	eventBus events.Bus,
	system actor.Actor,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	_ = val.RegisterValidation("document_type", func(fl govalidator.FieldLevel) bool {
		return domain.DocumentType(fl.Field().String()).IsValid()
	})

	repo := repository.New(pool)
	svc := service.New(repo, uow, store, policy, activities, eventBus, system, log)
	return &Module{handler: handler.New(svc, val), service: svc}
}

func (m *Module) Name() string {
	return "documents"
}

func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts document routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterCaseRoutes(ctx.Protected.Group("/cases"))
	m.handler.RegisterRoutes(ctx.Protected.Group("/documents"))
}

var _ apphttp.Module = (*Module)(nil)
