package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patlanio/whispeer/pkg/api/types"
	"github.com/patlanio/whispeer/pkg/db"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store *db.DB
	ble   interface{ Available() bool }
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *db.DB, ble interface{ Available() bool }) *HealthHandler {
	return &HealthHandler{store: store, ble: ble}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health of the API, the database, and the Bluetooth tooling
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "Service is degraded"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	bleStatus := "unavailable"
	if h.ble.Available() {
		bleStatus = "available"
	}

	dbStatus := "connected"
	status := "healthy"
	httpStatus := http.StatusOK
	if err := h.store.PingContext(c.Request.Context()); err != nil {
		dbStatus = "disconnected"
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:    status,
		BLE:       bleStatus,
		Database:  dbStatus,
		Timestamp: time.Now(),
	})
}
