package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"slotfinder/handlers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	named := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) { c.String(http.StatusOK, name) }
	}
	hb := &handlers.HandlerBundle{
		GetLocations:       named("locations"),
		GetAppointments:    named("appointments"),
		GetAppointmentRows: named("rows"),
		ReverseGeocode:     named("reverse"),
		Locate:             named("locate"),
		Index:              named("index"),
		Search:             named("search"),
		ClearSearch:        named("clear"),
		Health:             named("health"),
	}
	router := gin.New()
	RegisterRoutes(router, hb)

	cases := []struct {
		method, path, want string
	}{
		{http.MethodPost, "/locations", "locations"},
		{http.MethodPost, "/appointments", "appointments"},
		{http.MethodPost, "/appointments/rows", "rows"},
		{http.MethodGet, "/geocode/reverse", "reverse"},
		{http.MethodGet, "/geocode/locate", "locate"},
		{http.MethodGet, "/", "index"},
		{http.MethodPost, "/search", "search"},
		{http.MethodPost, "/search/clear", "clear"},
		{http.MethodGet, "/health", "health"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusOK, w.Code, tc.path)
		assert.Equal(t, tc.want, w.Body.String(), tc.path)
	}

	// No metrics handler in the bundle means no /metrics route.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
