package auth

import (
	"errors"

	"gymflow/internal/models"
)

var ErrForbidden = errors.New("access denied to this tenant")

// Authorize reports whether claims carry role. Super admins pass every check.
func Authorize(claims *Claims, role models.UserRole) bool {
	if claims == nil {
		return false
	}
	return claims.Role == models.SuperAdmin || claims.Role == role
}

// AuthorizeTenant allows super admins everywhere and everyone else only
// inside their own tenant.
func AuthorizeTenant(claims *Claims, tenantID string) error {
	if claims == nil {
		return ErrForbidden
	}
	if claims.Role == models.SuperAdmin {
		return nil
	}
	if tenantID == "" || claims.TenantID != tenantID {
		return ErrForbidden
	}
	return nil
}
