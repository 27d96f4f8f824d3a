package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/greenchainz/greenchainz-api/internal/database"
	"github.com/greenchainz/greenchainz-api/internal/tracker"
)

// CarrierHealthSource reports the fetch record of each carrier tracking page
type CarrierHealthSource interface {
	Health() map[string]tracker.CarrierHealth
}

// HealthHandler reports service, database and carrier tracking health
type HealthHandler struct {
	db       *database.DB
	carriers CarrierHealthSource
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB, carriers CarrierHealthSource) *HealthHandler {
	return &HealthHandler{db: db, carriers: carriers}
}

// GetHealth returns overall service health including database reachability
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status := "healthy"
	dbStatus := "connected"
	httpStatus := http.StatusOK

	if err := h.db.HealthCheck(); err != nil {
		status = "degraded"
		dbStatus = "unreachable"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"database":  dbStatus,
		"timestamp": time.Now(),
	})
}

// GetDatabaseStats returns connection pool statistics
func (h *HealthHandler) GetDatabaseStats(c *gin.Context) {
	stats := h.db.GetStats()
	c.JSON(http.StatusOK, gin.H{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
		"timestamp":        time.Now(),
	})
}

// GetCarrierHealth returns the per-carrier tracking page fetch record
func (h *HealthHandler) GetCarrierHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"carriers":  h.carriers.Health(),
		"timestamp": time.Now(),
	})
}
