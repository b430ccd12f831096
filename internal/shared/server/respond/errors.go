package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docuhub-backend/internal/shared/apperr"
	"docuhub-backend/internal/shared/telemetry"
)

// Error writes a failure envelope with the given status and message.
func Error(c *gin.Context, status int, message string) {
	telemetry.Error("http.error", map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	})

	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// DomainError translates an error from the service layer into an HTTP status
// and failure envelope. Unrecognized errors become a generic 500 so internal
// details never leak to clients.
func DomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrUnsupportedMedia),
		errors.Is(err, apperr.ErrPayloadTooLarge),
		errors.Is(err, apperr.ErrDuplicate):
		Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrUnauthorized):
		Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrUnavailable):
		Error(c, http.StatusServiceUnavailable, err.Error())
	default:
		telemetry.Error("http.internal", map[string]any{
			"error":      err.Error(),
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString("requestId"),
		})
		message := "internal server error"
		if gin.Mode() != gin.ReleaseMode {
			message = err.Error()
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   message,
		})
	}
}
