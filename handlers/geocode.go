package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"slotfinder/middleware"
	"slotfinder/models"
	"slotfinder/services/geocode"
	"slotfinder/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (models.Address, error)
}

type PositionLocator interface {
	Locate(ctx context.Context, ip string) (models.Position, error)
}

type GeocodeHandler struct {
	reverse ReverseGeocoder
	locator PositionLocator
}

func NewGeocodeHandler(reverse ReverseGeocoder, locator PositionLocator) *GeocodeHandler {
	return &GeocodeHandler{reverse: reverse, locator: locator}
}

// ReverseGeocode handles GET /geocode/reverse?lat=..&lng=.. so the geocoding
// key never reaches the browser.
func (h *GeocodeHandler) ReverseGeocode(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		utils.JSONError(c, http.StatusBadRequest, "Missing or invalid query parameters", "lat and lng must be numbers")
		return
	}

	addr, err := h.reverse.Reverse(c.Request.Context(), lat, lng)
	if errors.Is(err, geocode.ErrNoAddress) {
		utils.JSONError(c, http.StatusNotFound, "No address found", err.Error())
		return
	}
	if err != nil {
		getLogger(c).Error("reverse geocoding failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Reverse geocoding request failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, addr)
}

// Locate handles GET /geocode/locate: the caller's position from their IP.
func (h *GeocodeHandler) Locate(c *gin.Context) {
	pos, err := h.locator.Locate(c.Request.Context(), middleware.ClientIP(c))
	if errors.Is(err, geocode.ErrPrivateIP) {
		utils.JSONError(c, http.StatusNotFound, "Location unavailable", err.Error())
		return
	}
	if err != nil && pos.Source == "" {
		utils.JSONError(c, http.StatusBadGateway, "Location lookup failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, pos)
}
