package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
)

// Pinger checks that the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// PoolReporter exposes connection pool usage on the readiness check
type PoolReporter interface {
	PoolStats() map[string]any
}

// HealthHandler answers liveness and readiness checks
type HealthHandler struct {
	store  Pinger
	logger coreport.Logger
}

// NewHealthHandler creates a health handler. store may be nil for the in-memory backend.
func NewHealthHandler(store Pinger, logger coreport.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Bank System Backend is Running!")
}

// Ready handles GET /health
func (h *HealthHandler) Ready(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			h.logger.Error("Readiness check failed", map[string]any{"error": err.Error()})
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		if reporter, ok := h.store.(PoolReporter); ok {
			if stats := reporter.PoolStats(); stats != nil {
				body["pool"] = stats
			}
		}
	}
	c.JSON(http.StatusOK, body)
}
