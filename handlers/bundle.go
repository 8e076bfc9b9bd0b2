// File: handlers/bundle.go
package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Backend endpoints
	GetLocations       gin.HandlerFunc
	GetAppointments    gin.HandlerFunc
	GetAppointmentRows gin.HandlerFunc

	// Geocoding endpoints
	ReverseGeocode gin.HandlerFunc
	Locate         gin.HandlerFunc

	// Search page
	Index       gin.HandlerFunc
	Search      gin.HandlerFunc
	ClearSearch gin.HandlerFunc

	// Operations
	Health  gin.HandlerFunc
	Metrics gin.HandlerFunc
}
