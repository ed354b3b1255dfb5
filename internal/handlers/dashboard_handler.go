package handlers

import (
	"net/http"

	"gymflow/internal/audit"
	"gymflow/internal/middleware"
	"gymflow/internal/services"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
	audit            *audit.Logger
}

func NewDashboardHandler(dashboardService services.DashboardService, auditLog *audit.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, audit: auditLog}
}

func (h *DashboardHandler) Dashboard(c *gin.Context) {
	data, err := h.dashboardService.Dashboard(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", data, nil)
}

func (h *DashboardHandler) Analytics(c *gin.Context) {
	data, err := h.dashboardService.Analytics(c.Request.Context(), middleware.TenantID(c), c.Query("period"))
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", data, nil)
}

func (h *DashboardHandler) Reports(c *gin.Context) {
	result, err := h.dashboardService.Report(c.Request.Context(), middleware.TenantID(c), c.Query("type"))
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", result.Report, gin.H{"type": result.Type})
}
