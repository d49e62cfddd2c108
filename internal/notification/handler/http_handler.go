package handler

import (
	"net/http"
	"strconv"

	"raf_pnp_backend/internal/notification/inapp"
	"raf_pnp_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidID = "invalid id"

type HTTPHandler struct {
	svc *inapp.Service
}

func NewHTTPHandler(svc *inapp.Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

func (h *HTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/user/:userId", h.List)
	rg.GET("/user/:userId/count", h.CountUnread)
	rg.PUT("/user/:userId/read-all", h.MarkAllRead)
	rg.PUT("/:id/read", h.MarkRead)
	rg.DELETE("/:id", h.Delete)
}

// GET /api/v1/notifications/user/:userId?unreadOnly=true
func (h *HTTPHandler) List(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unreadOnly", "false"))

	items, err := h.svc.List(c.Request.Context(), userID, unreadOnly)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"items": items})
}

// GET /api/v1/notifications/user/:userId/count
func (h *HTTPHandler) CountUnread(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	count, err := h.svc.CountUnread(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"count": count})
}

// PUT /api/v1/notifications/:id/read
func (h *HTTPHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"status": "ok"})
}

// PUT /api/v1/notifications/user/:userId/read-all
func (h *HTTPHandler) MarkAllRead(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	if err := h.svc.MarkAllRead(c.Request.Context(), userID); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"status": "ok"})
}

// DELETE /api/v1/notifications/:id
func (h *HTTPHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}

	httpkit.NoContent(c)
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
