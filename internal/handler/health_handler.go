package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// healthChecker is anything with a pingable backing connection
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles liveness and readiness probes
type HealthHandler struct {
	checks map[string]healthChecker
}

// NewHealthHandler creates a new health handler. Nil checkers are
// skipped so callers can pass optional dependencies directly.
func NewHealthHandler(db, cache healthChecker) *HealthHandler {
	checks := make(map[string]healthChecker)
	if db != nil {
		checks["postgres"] = db
	}
	if cache != nil {
		checks["redis"] = cache
	}
	return &HealthHandler{checks: checks}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /ready. It fails when any backing store is down.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK
	results := make(gin.H, len(h.checks))

	for name, check := range h.checks {
		if err := check.HealthCheck(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}

	c.JSON(status, gin.H{"checks": results})
}
