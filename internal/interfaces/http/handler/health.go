package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/outfit/partner-api/internal/infrastructure/logger"
)

// Pinger reports whether the backing database is reachable
type Pinger interface {
	Ping() error
}

// HealthHandler serves liveness and readiness probes. Probes return plain
// JSON rather than the partner envelope so infrastructure tooling can parse
// them without the API contract.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health godoc
// @ID           healthCheck
// @Summary      Liveness probe
// @Description  Reports that the process is up. Does not touch the database.
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Ready godoc
// @ID           readyCheck
// @Summary      Readiness probe
// @Description  Reports whether the service can take traffic, including a database ping
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      503 {object} map[string]string
// @Router       /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		reqLog := logger.GetGinLogger(c)
		reqLog.Warn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "not_ready",
			"time":     time.Now().Format(time.RFC3339),
			"database": "error",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"time":     time.Now().Format(time.RFC3339),
		"database": "ok",
	})
}
