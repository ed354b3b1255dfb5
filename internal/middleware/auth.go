package middleware

import (
	"strings"

	"gymflow/internal/apperr"
	"gymflow/internal/audit"
	"gymflow/internal/auth"
	"gymflow/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticate requires a valid bearer token and stores its claims.
func Authenticate(tokens *auth.TokenManager, auditLog *audit.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if header == "" || token == "" || token == header {
			abort(c, apperr.ErrAuthRequired)
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			auditLog.Record(c.Request.Context(), audit.InvalidToken, zap.Error(err))
			abort(c, apperr.ErrInvalidToken)
			return
		}

		if info := requestInfo(c); info != nil {
			info.UserID = claims.UserID()
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole lets through only callers holding role. Super admins always
// pass.
func RequireRole(role models.UserRole, auditLog *audit.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			abort(c, apperr.ErrAuthRequired)
			return
		}
		if !auth.Authorize(claims, role) {
			auditLog.Record(c.Request.Context(), audit.RoleForbidden,
				zap.String("required_role", string(role)),
				zap.String("role", string(claims.Role)),
			)
			abort(c, apperr.ErrForbidden)
			return
		}
		c.Next()
	}
}
