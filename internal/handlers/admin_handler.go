package handlers

import (
	"net/http"

	"gymflow/internal/audit"
	"gymflow/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves platform-wide endpoints for super admins.
type AdminHandler struct {
	adminService services.AdminService
	audit        *audit.Logger
}

func NewAdminHandler(adminService services.AdminService, auditLog *audit.Logger) *AdminHandler {
	return &AdminHandler{adminService: adminService, audit: auditLog}
}

func (h *AdminHandler) Tenants(c *gin.Context) {
	tenants, err := h.adminService.ListTenants(c.Request.Context())
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", tenants, gin.H{"count": len(tenants)})
}

func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", users, gin.H{"count": len(users)})
}

func (h *AdminHandler) Analytics(c *gin.Context) {
	data, err := h.adminService.Analytics(c.Request.Context())
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", data, nil)
}

func (h *AdminHandler) UpdateTenant(c *gin.Context) {
	var patch services.TenantPatch
	if !bind(c, &patch) {
		return
	}
	tenant, err := h.adminService.UpdateTenant(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "Tenant updated successfully", tenant, nil)
}
