package handlers

import (
	"net/http"

	"slotfinder/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	monitor *utils.HealthMonitor
}

func NewHealthHandler(monitor *utils.HealthMonitor) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// Health handles GET /health with the latest background check.
func (h *HealthHandler) Health(c *gin.Context) {
	body := gin.H{"status": "ok", "message": "Hi, I'm slotfinder"}
	if h.monitor != nil {
		status := h.monitor.Status()
		body["checks"] = status
		if !status.CheckedAt.IsZero() && !status.Upstream {
			body["status"] = "degraded"
		}
	}
	c.JSON(http.StatusOK, body)
}
