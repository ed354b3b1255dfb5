package handlers

import (
	"errors"
	"net/http"

	"gymflow/internal/apperr"
	"gymflow/internal/audit"
	"gymflow/internal/logger"
	"gymflow/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errDatabase      = apperr.Internal("DATABASE_ERROR", "Database operation failed", nil)
	errServer        = apperr.Internal("SERVER_ERROR", "Internal server error", nil)
	errInvalidFormat = apperr.Validation("VALIDATION_ERROR", "Invalid request format")
	errDuplicateID   = apperr.Conflict("DUPLICATE_ID", "A record with this id already exists")
)

func respond(c *gin.Context, status int, message string, data interface{}, extras gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	for k, v := range extras {
		body[k] = v
	}
	c.JSON(status, body)
}

// respondError writes err as a failure envelope. Only application errors
// reach the client; anything else is logged and replaced with a generic 500.
func respondError(c *gin.Context, err error, auditLog *audit.Logger) {
	appErr, ok := apperr.As(err)
	switch {
	case ok:
	case errors.Is(err, store.ErrAlreadyExists):
		appErr = errDuplicateID.Wrap(err)
	case errors.Is(err, store.ErrStorage):
		appErr = errDatabase
	default:
		appErr = errServer
	}

	status := appErr.Kind.Status()
	if status >= http.StatusInternalServerError {
		logger.FromGin(c).Error("Request failed",
			zap.String("code", appErr.Code),
			zap.Error(err),
		)
		auditLog.Record(c.Request.Context(), audit.APIError,
			zap.String("code", appErr.Code),
			zap.Int("status", status),
		)
	}
	c.AbortWithStatusJSON(status, appErr.Body())
}

func bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(errInvalidFormat.Kind.Status(), errInvalidFormat.Body())
		return false
	}
	return true
}
