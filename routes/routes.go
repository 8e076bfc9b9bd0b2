package routes

import (
	"time"

	"slotfinder/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBackendRoutes registers the lookups the search flow calls.
func RegisterBackendRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/locations", hb.GetLocations)
	r.POST("/appointments", hb.GetAppointments)
	r.POST("/appointments/rows", hb.GetAppointmentRows)
}

// RegisterGeocodeRoutes registers the geocoding proxies.
func RegisterGeocodeRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	geo := r.Group("/geocode")
	{
		geo.GET("/reverse", hb.ReverseGeocode)
		geo.GET("/locate", hb.Locate)
	}
}

// RegisterPageRoutes registers the server-rendered search page.
func RegisterPageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/", hb.Index)
	r.POST("/search", hb.Search)
	r.POST("/search/clear", hb.ClearSearch)
}

// RegisterHealthRoute registers a health-check endpoint and the metrics scrape endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
	if hb.Metrics != nil {
		r.GET("/metrics", hb.Metrics)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	RegisterBackendRoutes(r, hb)
	RegisterGeocodeRoutes(r, hb)
	RegisterPageRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
