package handler

import (
	"net/http"

	"raf_pnp_backend/internal/experts/domain"
	"raf_pnp_backend/internal/experts/service"
	"raf_pnp_backend/internal/experts/transport"
	"raf_pnp_backend/platform/httpkit"
	"raf_pnp_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// Handler handles HTTP requests for expert appointments.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterCaseRoutes mounts routes nested under /cases.
func (h *Handler) RegisterCaseRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/experts", h.ListByCase)
	rg.POST("/:id/experts", h.Create)
}

// RegisterRoutes mounts routes under /experts.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:expertId", h.Get)
	rg.PUT("/:expertId", h.Update)
	rg.PATCH("/:expertId/status", h.UpdateStatus)
	rg.DELETE("/:expertId", h.Delete)
}

// GET /api/v1/cases/:id/experts
func (h *Handler) ListByCase(c *gin.Context) {
	caseID, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.svc.ListByCase(c.Request.Context(), caseID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// POST /api/v1/cases/:id/experts
func (h *Handler) Create(c *gin.Context) {
	caseID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.CreateAppointmentRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.svc.Create(c.Request.Context(), caseID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// GET /api/v1/experts/:expertId
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c, "expertId")
	if !ok {
		return
	}
	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// PUT /api/v1/experts/:expertId
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, "expertId")
	if !ok {
		return
	}
	var req transport.UpdateAppointmentRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// PATCH /api/v1/experts/:expertId/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "expertId")
	if !ok {
		return
	}
	var req transport.UpdateStatusRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.svc.UpdateStatus(c.Request.Context(), id, domain.Status(req.Status))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DELETE /api/v1/experts/:expertId
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c, "expertId")
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
