package whatsapp

import (
	"context"
	"net/http"
	"strings"

	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/httpkit"
	"raf_pnp_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"

	recentMessagesLimit = 50

	KindTaskAssignment   = "taskAssignment"
	KindDeadlineReminder = "deadlineReminder"
	KindCaseUpdate       = "caseUpdate"
)

// Directory resolves the records a manual send refers to.
type Directory interface {
	Recipient(ctx context.Context, userID uuid.UUID) (Recipient, error)
	TaskInfo(ctx context.Context, taskID uuid.UUID) (TaskInfo, error)
	CaseInfo(ctx context.Context, caseID uuid.UUID) (CaseInfo, error)
}

// SendRequest asks for one templated message to be sent to a user.
type SendRequest struct {
	Kind         string     `json:"kind" validate:"required,oneof=taskAssignment deadlineReminder caseUpdate"`
	UserID       uuid.UUID  `json:"userId" validate:"required"`
	TaskID       *uuid.UUID `json:"taskId,omitempty"`
	CaseID       *uuid.UUID `json:"caseId,omitempty"`
	DaysUntilDue int        `json:"daysUntilDue" validate:"min=0"`
	Message      string     `json:"message" validate:"max=1000"`
}

// SendResponse reports whether a message went out.
type SendResponse struct {
	Sent bool `json:"sent"`
}

// Handler exposes the message log and manual sends.
type Handler struct {
	store    Store
	messages *Messages
	dir      Directory
	val      *validator.Validator
}

func NewHandler(store Store, messages *Messages, dir Directory, val *validator.Validator) *Handler {
	return &Handler{store: store, messages: messages, dir: dir, val: val}
}

// RegisterRoutes registers message log routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/messages", h.ListRecent)
	rg.GET("/messages/phone/:phone", h.ListByPhone)
}

// RegisterSendRoutes registers the routes that trigger outbound messages.
func (h *Handler) RegisterSendRoutes(rg *gin.RouterGroup) {
	rg.POST("/send", h.Send)
}

// GET /api/v1/whatsapp/messages
func (h *Handler) ListRecent(c *gin.Context) {
	items, err := h.store.ListRecent(c.Request.Context(), recentMessagesLimit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": items})
}

// GET /api/v1/whatsapp/messages/phone/:phone
func (h *Handler) ListByPhone(c *gin.Context) {
	phoneNumber := strings.TrimSpace(c.Param("phone"))
	if phoneNumber == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	items, err := h.store.ListByPhone(c.Request.Context(), phoneNumber)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": items})
}

// POST /api/v1/whatsapp/send
func (h *Handler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	sent, err := h.send(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, SendResponse{Sent: sent})
}

func (h *Handler) send(ctx context.Context, req SendRequest) (bool, error) {
	to, err := h.dir.Recipient(ctx, req.UserID)
	if err != nil {
		return false, err
	}

	switch req.Kind {
	case KindTaskAssignment, KindDeadlineReminder:
		if req.TaskID == nil {
			return false, apperr.Validation("taskId is required")
		}
		task, err := h.dir.TaskInfo(ctx, *req.TaskID)
		if err != nil {
			return false, err
		}
		if req.Kind == KindTaskAssignment {
			return h.messages.SendTaskAssignment(ctx, to, task)
		}
		return h.messages.SendDeadlineReminder(ctx, to, task, req.DaysUntilDue)
	default:
		if req.CaseID == nil {
			return false, apperr.Validation("caseId is required")
		}
		if strings.TrimSpace(req.Message) == "" {
			return false, apperr.Validation("message is required")
		}
		info, err := h.dir.CaseInfo(ctx, *req.CaseID)
		if err != nil {
			return false, err
		}
		return h.messages.SendCaseUpdate(ctx, to, info, strings.TrimSpace(req.Message))
	}
}
