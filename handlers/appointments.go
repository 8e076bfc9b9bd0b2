package handlers

import (
	"context"
	"net/http"

	"slotfinder/models"
	"slotfinder/services/aggregator"
	"slotfinder/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Finder is the backend search logic behind /locations and /appointments.
type Finder interface {
	FindLocations(ctx context.Context, top int, lat, lng float64) ([]models.Location, error)
	FindAppointments(ctx context.Context, q models.AppointmentQuery) ([]models.AppointmentRecord, error)
}

type AppointmentHandler struct {
	finder Finder
}

func NewAppointmentHandler(finder Finder) *AppointmentHandler {
	return &AppointmentHandler{finder: finder}
}

// GetLocations handles POST /locations.
func (h *AppointmentHandler) GetLocations(c *gin.Context) {
	var input models.LocationQuery
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIError(c, http.StatusBadRequest, "bind error", err)
		return
	}
	locs, err := h.finder.FindLocations(c.Request.Context(), input.MaxNearestLocations, input.Lat, input.Lng)
	if err != nil {
		utils.APIError(c, http.StatusBadGateway, "API error", err)
		return
	}
	getLogger(c).Debug("locations found", zap.Int("count", len(locs)))
	c.JSON(http.StatusOK, locs)
}

// GetAppointments handles POST /appointments.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	records, ok := h.findAppointments(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetAppointmentRows handles POST /appointments/rows: same query, grouped
// into display rows.
func (h *AppointmentHandler) GetAppointmentRows(c *gin.Context) {
	records, ok := h.findAppointments(c)
	if !ok {
		return
	}
	rows, err := aggregator.Aggregate(records)
	if err != nil {
		utils.APIError(c, http.StatusBadGateway, "malformed record", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *AppointmentHandler) findAppointments(c *gin.Context) ([]models.AppointmentRecord, bool) {
	var input models.AppointmentQuery
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIError(c, http.StatusBadRequest, "bind error", err)
		return nil, false
	}
	records, err := h.finder.FindAppointments(c.Request.Context(), input)
	if err != nil {
		utils.APIError(c, http.StatusBadGateway, "getNearestBooking", err)
		return nil, false
	}
	if records == nil {
		records = []models.AppointmentRecord{}
	}
	getLogger(c).Info("appointments found",
		zap.Int("locations", len(input.Locations)),
		zap.Int("slots", len(records)),
	)
	return records, true
}
