package middleware

import (
	"gymflow/internal/audit"
	"gymflow/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID reuses the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(logger.RequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// AuditContext attaches the request description used by security events.
// Authenticate and RequireTenant fill in the user and tenant later.
func AuditContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		info := &audit.RequestInfo{
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			RequestID: c.GetString(logger.RequestIDKey),
		}
		c.Request = c.Request.WithContext(audit.WithRequest(c.Request.Context(), info))
		c.Next()
	}
}

func requestInfo(c *gin.Context) *audit.RequestInfo {
	return audit.RequestFrom(c.Request.Context())
}
