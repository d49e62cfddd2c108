// Package reports provides the dashboard and summary report.
package reports

import (
	"time"

	apphttp "raf_pnp_backend/internal/http"
	"raf_pnp_backend/internal/reports/handler"
	"raf_pnp_backend/internal/reports/repository"
	"raf_pnp_backend/internal/reports/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, experts service.ExpertCounter, loc *time.Location) *Module {
	svc := service.New(repository.New(pool), experts, loc)
	return &Module{handler: handler.New(svc), service: svc}
}

func (m *Module) Name() string {
	return "reports"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/reports"))
}

var _ apphttp.Module = (*Module)(nil)
