// Package handlers provides HTTP request handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"kiosko/internal/infrastructure/storage/postgres"
)

// Pinger checks a storage backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	storage string
	pinger  Pinger
	pool    *postgres.Pool
}

// NewHealthHandler creates a health handler. pool is nil for the in-memory store.
func NewHealthHandler(pool *postgres.Pool) *HealthHandler {
	if pool == nil {
		return &HealthHandler{storage: "memory"}
	}
	return &HealthHandler{storage: "postgres", pinger: pool, pool: pool}
}

// Live handles liveness probe.
// GET /health
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"storage": h.storage,
	})
}

// Ready handles readiness probe.
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.pinger != nil {
		if err := h.pinger.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "error",
				"checks": map[string]string{
					"database": "unhealthy: " + err.Error(),
				},
			})
			return
		}
	}

	body := gin.H{
		"status": "ok",
		"checks": map[string]string{
			h.storage: "healthy",
		},
	}
	if h.pool != nil {
		body["pool"] = h.pool.Stats()
	}
	c.JSON(http.StatusOK, body)
}
