package handlers

import (
	"net/http"
	"strconv"

	"gymflow/internal/audit"
	"gymflow/internal/middleware"
	"gymflow/internal/services"

	"github.com/gin-gonic/gin"
)

type TrainerHandler struct {
	trainerService services.TrainerService
	audit          *audit.Logger
}

func NewTrainerHandler(trainerService services.TrainerService, auditLog *audit.Logger) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService, audit: auditLog}
}

func (h *TrainerHandler) List(c *gin.Context) {
	trainers, err := h.trainerService.List(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", trainers, gin.H{"count": len(trainers)})
}

func (h *TrainerHandler) Search(c *gin.Context) {
	query := c.Query("query")
	filter := services.TrainerFilter{Specialization: c.Query("specialization")}
	if raw, ok := c.GetQuery("isActive"); ok && raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, errInvalidFormat, h.audit)
			return
		}
		filter.IsActive = &active
	}

	trainers, err := h.trainerService.Search(c.Request.Context(), middleware.TenantID(c), query, filter)
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", trainers, gin.H{"count": len(trainers), "query": nullable(query)})
}

func (h *TrainerHandler) Stats(c *gin.Context) {
	stats, err := h.trainerService.Stats(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", stats, nil)
}

func (h *TrainerHandler) Get(c *gin.Context) {
	trainer, err := h.trainerService.Get(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", trainer, nil)
}

func (h *TrainerHandler) Create(c *gin.Context) {
	var input services.TrainerInput
	if !bind(c, &input) {
		return
	}
	trainer, err := h.trainerService.Create(c.Request.Context(), middleware.TenantID(c), input)
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusCreated, "Trainer created successfully", trainer, nil)
}

func (h *TrainerHandler) Update(c *gin.Context) {
	var patch services.TrainerPatch
	if !bind(c, &patch) {
		return
	}
	trainer, err := h.trainerService.Update(c.Request.Context(), middleware.TenantID(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "Trainer updated successfully", trainer, nil)
}

func (h *TrainerHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.trainerService.Delete(c.Request.Context(), middleware.TenantID(c), id); err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "Trainer deleted successfully", gin.H{"id": id}, nil)
}
