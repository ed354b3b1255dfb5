package middleware

import (
	"gymflow/internal/apperr"
	"gymflow/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	ClaimsKey = "claims"
	TenantKey = "tenant_id"

	HeaderRequestID = "X-Request-ID"
	HeaderTenantID  = "X-Tenant-ID"
)

// Claims returns the verified token claims of the request, or nil.
func Claims(c *gin.Context) *auth.Claims {
	claims, _ := c.Get(ClaimsKey)
	typed, _ := claims.(*auth.Claims)
	return typed
}

// TenantID returns the tenant resolved by RequireTenant.
func TenantID(c *gin.Context) string {
	return c.GetString(TenantKey)
}

func abort(c *gin.Context, err *apperr.Error) {
	c.AbortWithStatusJSON(err.Kind.Status(), err.Body())
}
