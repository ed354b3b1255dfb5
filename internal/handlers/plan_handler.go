package handlers

import (
	"net/http"

	"gymflow/internal/audit"
	"gymflow/internal/middleware"
	"gymflow/internal/services"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService services.PlanService
	audit       *audit.Logger
}

func NewPlanHandler(planService services.PlanService, auditLog *audit.Logger) *PlanHandler {
	return &PlanHandler{planService: planService, audit: auditLog}
}

func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.planService.List(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", plans, gin.H{"count": len(plans)})
}

func (h *PlanHandler) Search(c *gin.Context) {
	query := c.Query("query")
	plans, err := h.planService.Search(c.Request.Context(), middleware.TenantID(c), query)
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", plans, gin.H{"count": len(plans), "query": nullable(query)})
}

func (h *PlanHandler) Stats(c *gin.Context) {
	stats, err := h.planService.Stats(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", stats, nil)
}

func (h *PlanHandler) Get(c *gin.Context) {
	plan, err := h.planService.Get(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", plan, nil)
}

func (h *PlanHandler) Create(c *gin.Context) {
	var input services.PlanInput
	if !bind(c, &input) {
		return
	}
	plan, err := h.planService.Create(c.Request.Context(), middleware.TenantID(c), input)
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusCreated, "Plan created successfully", plan, nil)
}

func (h *PlanHandler) Update(c *gin.Context) {
	var patch services.PlanPatch
	if !bind(c, &patch) {
		return
	}
	plan, err := h.planService.Update(c.Request.Context(), middleware.TenantID(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "Plan updated successfully", plan, nil)
}

func (h *PlanHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.planService.Delete(c.Request.Context(), middleware.TenantID(c), id); err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "Plan deleted successfully", gin.H{"id": id}, nil)
}
