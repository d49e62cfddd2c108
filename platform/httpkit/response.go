package httpkit

import (
	"errors"
	"net/http"

	"raf_pnp_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details any    `json:"details,omitempty"`
}

func JSON(c *gin.Context, status int, payload any) { c.JSON(status, payload) }

func OK(c *gin.Context, payload any) { c.JSON(http.StatusOK, payload) }

func NoContent(c *gin.Context) { c.Status(http.StatusNoContent) }

// Error writes an ErrorResponse for failures detected in the handler
// itself, such as an unparsable id or body.
func Error(c *gin.Context, status int, message string, details any) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// HandleError writes the response for err and reports whether it did.
// An *apperr.Error in the chain decides the status and body; anything else
// becomes a bare 500 and is attached to the gin context for the logger.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if appErr.Status() >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		c.JSON(appErr.Status(), ErrorResponse{
			Error:   appErr.Message,
			Kind:    string(appErr.Kind),
			Details: appErr.Details,
		})
		return true
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	return true
}
