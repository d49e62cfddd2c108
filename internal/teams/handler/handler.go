package handler

import (
	"net/http"

	"raf_pnp_backend/internal/teams/domain"
	"raf_pnp_backend/internal/teams/service"
	"raf_pnp_backend/internal/teams/transport"
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

// Handler handles HTTP requests for teams.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new teams handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers team routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/lead/:userId", h.ListByLead)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Deactivate)
	rg.GET("/:id/statistics", h.Stats)
	rg.GET("/:id/members", h.ListMembers)
	rg.POST("/:id/members", h.AddMember)
	rg.DELETE("/:id/members/:userId", h.RemoveMember)
	rg.PUT("/:id/members/:userId/role", h.UpdateMemberRole)
	rg.POST("/:id/assign-case", h.AssignCase)
	rg.DELETE("/:id/assign-case/:caseId", h.UnassignCase)
}

// GET /api/v1/teams
func (h *Handler) List(c *gin.Context) {
	var req transport.ListTeamsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	result, err := h.svc.List(c.Request.Context(), req.IncludeInactive)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": result})
}

// GET /api/v1/teams/lead/:userId
func (h *Handler) ListByLead(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	result, err := h.svc.ListByLead(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": result})
}

// GET /api/v1/teams/:id
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

// POST /api/v1/teams
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateTeamRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// PUT /api/v1/teams/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.UpdateTeamRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DELETE /api/v1/teams/:id
func (h *Handler) Deactivate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.Deactivate(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

// GET /api/v1/teams/:id/statistics
func (h *Handler) Stats(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.svc.Stats(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GET /api/v1/teams/:id/members
func (h *Handler) ListMembers(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.svc.ListMembers(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": result})
}

// POST /api/v1/teams/:id/members
func (h *Handler) AddMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.AddMemberRequest
	if !h.bind(c, &req) {
		return
	}
	if httpkit.HandleError(c, h.svc.AddMember(c.Request.Context(), id, req)) {
		return
	}
	httpkit.OK(c, gin.H{"message": "Team member added successfully"})
}

// DELETE /api/v1/teams/:id/members/:userId
func (h *Handler) RemoveMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.RemoveMember(c.Request.Context(), id, userID)) {
		return
	}
	httpkit.OK(c, gin.H{"message": "Team member removed successfully"})
}

// PUT /api/v1/teams/:id/members/:userId/role
func (h *Handler) UpdateMemberRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	var req transport.UpdateRoleRequest
	if !h.bind(c, &req) {
		return
	}
	if httpkit.HandleError(c, h.svc.UpdateMemberRole(c.Request.Context(), id, userID, domain.Role(req.Role))) {
		return
	}
	httpkit.OK(c, gin.H{"message": "Role updated successfully"})
}

// POST /api/v1/teams/:id/assign-case
func (h *Handler) AssignCase(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.AssignCaseRequest
	if !h.bind(c, &req) {
		return
	}
	if httpkit.HandleError(c, h.svc.AssignToCase(c.Request.Context(), id, req.CaseID)) {
		return
	}
	httpkit.OK(c, gin.H{"message": "Team assigned to case successfully"})
}

// DELETE /api/v1/teams/:id/assign-case/:caseId
func (h *Handler) UnassignCase(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	caseID, ok := parseID(c, "caseId")
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.UnassignFromCase(c.Request.Context(), id, caseID)) {
		return
	}
	httpkit.OK(c, gin.H{"message": "Team unassigned from case successfully"})
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
