package handlers

import (
	"context"
	"net/http"
	"time"

	"gymflow/internal/session"
	"gymflow/internal/store"

	"github.com/gin-gonic/gin"
)

// Version is reported by the health endpoint. It is set at build time.
var Version = "1.0.0"

type HealthHandler struct {
	store    store.Store
	sessions session.Cache
}

func NewHealthHandler(st store.Store, sessions session.Cache) *HealthHandler {
	return &HealthHandler{store: st, sessions: sessions}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	}

	health, err := h.store.Health(ctx)
	if err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "unhealthy"
		health.Status = "unavailable"
	}
	body["store"] = health

	cache := "ok"
	if err := h.sessions.Ping(ctx); err != nil {
		cache = "unavailable"
		if status == http.StatusOK {
			body["status"] = "degraded"
		}
	}
	body["cache"] = cache

	body["success"] = status == http.StatusOK
	c.JSON(status, body)
}
