package handler

import (
	"net/http"

	"raf_pnp_backend/internal/tasks/domain"
	"raf_pnp_backend/internal/tasks/service"
	"raf_pnp_backend/internal/tasks/transport"
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

// Handler handles HTTP requests for tasks.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new tasks handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers task routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.POST("/workflow", h.CreateWorkflowTask)
	rg.GET("/overdue", h.ListOverdue)
	rg.GET("/user/:userId", h.ListForUser)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Cancel)
	rg.POST("/:id/assign", h.Assign)
	rg.PUT("/:id/status", h.UpdateStatus)
	rg.GET("/:id/comments", h.ListComments)
	rg.POST("/:id/comments", h.AddComment)
}

// GET /api/v1/tasks
func (h *Handler) List(c *gin.Context) {
	var req transport.ListTasksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": result})
}

// GET /api/v1/tasks/overdue
func (h *Handler) ListOverdue(c *gin.Context) {
	result, err := h.svc.ListOverdue(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": result})
}

// GET /api/v1/tasks/user/:userId
func (h *Handler) ListForUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	result, err := h.svc.ListForUser(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": result})
}

// GET /api/v1/tasks/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// POST /api/v1/tasks
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateTaskRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// POST /api/v1/tasks/workflow
func (h *Handler) CreateWorkflowTask(c *gin.Context) {
	var req transport.CreateWorkflowTaskRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.svc.CreateWorkflowTask(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// PUT /api/v1/tasks/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.UpdateTaskRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DELETE /api/v1/tasks/:id
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.Cancel(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

// POST /api/v1/tasks/:id/assign
func (h *Handler) Assign(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.AssignTaskRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.svc.Assign(c.Request.Context(), id, req.UserID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// PUT /api/v1/tasks/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
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

// GET /api/v1/tasks/:id/comments
func (h *Handler) ListComments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.svc.ListComments(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": result})
}

// POST /api/v1/tasks/:id/comments
func (h *Handler) AddComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.AddCommentRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.svc.AddComment(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) bind(c *gin.Context, req interface{}) bool {
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
