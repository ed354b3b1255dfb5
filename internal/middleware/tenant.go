package middleware

import (
	"encoding/json"

	"gymflow/internal/apperr"
	"gymflow/internal/audit"
	"gymflow/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResolveTenant finds the tenant a request targets. The header wins, then
// the query string, the path, the JSON body and finally the token.
func ResolveTenant(c *gin.Context) string {
	if id := c.GetHeader(HeaderTenantID); id != "" {
		return id
	}
	if id := c.Query("tenantId"); id != "" {
		return id
	}
	if id := c.Param("tenantId"); id != "" {
		return id
	}
	if id := bodyTenant(c); id != "" {
		return id
	}
	if claims := Claims(c); claims != nil {
		return claims.TenantID
	}
	return ""
}

func bodyTenant(c *gin.Context) string {
	if !hasBody(c.Request) {
		return ""
	}
	buf, err := readBody(c)
	if err != nil || len(buf) == 0 {
		return ""
	}
	var body struct {
		TenantID string `json:"tenantId"`
	}
	if err := json.Unmarshal(buf, &body); err != nil {
		return ""
	}
	return body.TenantID
}

// RequireTenant resolves the tenant and checks the caller may act in it.
// It must run after Authenticate.
func RequireTenant(auditLog *audit.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := ResolveTenant(c)
		if tenantID == "" {
			abort(c, apperr.ErrTenantRequired)
			return
		}

		claims := Claims(c)
		if err := auth.AuthorizeTenant(claims, tenantID); err != nil {
			fields := []zap.Field{zap.String("requested_tenant", tenantID)}
			if claims != nil {
				fields = append(fields, zap.String("user_tenant", claims.TenantID))
			}
			auditLog.Record(c.Request.Context(), audit.TenantForbidden, fields...)
			abort(c, apperr.ErrTenantForbidden)
			return
		}

		if info := requestInfo(c); info != nil {
			info.TenantID = tenantID
		}
		c.Set(TenantKey, tenantID)
		c.Next()
	}
}
