package handler

import (
	"net/http"
	"time"

	"raf_pnp_backend/internal/documents/domain"
	"raf_pnp_backend/internal/documents/service"
	"raf_pnp_backend/internal/documents/transport"
	"raf_pnp_backend/platform/httpkit"
	"raf_pnp_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
	msgFileRequired     = "file is required"

	dateLayout = "2006-01-02"
)

// Handler handles HTTP requests for case documents.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new documents handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterCaseRoutes mounts routes nested under /cases.
func (h *Handler) RegisterCaseRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/documents", h.Upload)
	rg.GET("/:id/documents", h.ListByCase)
}

// RegisterRoutes mounts routes under /documents.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/types", h.Types)
	rg.GET("/:docId/download", h.Download)
	rg.DELETE("/:docId", h.Delete)
}

// POST /api/v1/cases/:id/documents
func (h *Handler) Upload(c *gin.Context) {
	caseID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.UploadDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgFileRequired, nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	defer file.Close()

	var received *time.Time
	if req.DateReceived != "" {
		d, err := time.Parse(dateLayout, req.DateReceived)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, "dateReceived must be YYYY-MM-DD")
			return
		}
		received = &d
	}

	result, err := h.svc.Upload(c.Request.Context(), service.UploadInput{
		CaseID:       caseID,
		FileName:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		Body:         file,
		Type:         domain.DocumentType(req.DocumentType),
		Description:  req.Description,
		DateReceived: received,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// GET /api/v1/cases/:id/documents
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

// GET /api/v1/documents/:docId/download
func (h *Handler) Download(c *gin.Context) {
	id, ok := parseID(c, "docId")
	if !ok {
		return
	}
	result, err := h.svc.Download(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DELETE /api/v1/documents/:docId
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c, "docId")
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

type typeOption struct {
	Value       string `json:"value"`
	DisplayName string `json:"displayName"`
}

// GET /api/v1/documents/types
func (h *Handler) Types(c *gin.Context) {
	types := domain.AllTypes()
	out := make([]typeOption, 0, len(types))
	for _, t := range types {
		out = append(out, typeOption{Value: string(t), DisplayName: t.DisplayName()})
	}
	httpkit.OK(c, out)
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
