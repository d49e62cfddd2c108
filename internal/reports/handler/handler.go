package handler

import (
	"raf_pnp_backend/internal/reports/service"
	"raf_pnp_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler serves report endpoints.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/summary", h.Summary)
}

// GET /api/v1/reports/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	result, err := h.svc.Dashboard(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GET /api/v1/reports/summary
func (h *Handler) Summary(c *gin.Context) {
	result, err := h.svc.Summary(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
