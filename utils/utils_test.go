package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"slotfinder/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthMonitorCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(mr.Addr(), "", 0)
	require.NoError(t, err)
	defer client.Close()

	upstreamErr := errors.New("down")
	monitor := NewHealthMonitor([]*redis.Client{client}, func(context.Context) error { return upstreamErr })

	status := monitor.Check(context.Background())
	assert.Equal(t, []bool{true}, status.Redis)
	assert.False(t, status.Upstream)
	assert.Equal(t, status, monitor.Status())

	upstreamErr = nil
	mr.Close()
	status = monitor.Check(context.Background())
	assert.Equal(t, []bool{false}, status.Redis)
	assert.True(t, status.Upstream)
}

func TestNewRedisClientUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(addr, "", 0)
	require.Error(t, err)
}

func TestErrorHandlerRecoversPanic(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body.Message)
}

func TestAPIErrorShape(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	APIError(c, http.StatusBadGateway, "API error", errors.New("upstream said no"))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"err":"upstream said no","errType":"API error"}`, w.Body.String())
}

func TestErrorsLogWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := gin.New()
	router.Use(ErrorHandler())
	router.Use(middleware.RequestLoggerMiddleware(zap.New(core)))
	router.GET("/api", func(c *gin.Context) {
		APIError(c, http.StatusBadGateway, "API error", errors.New("upstream down"))
	})
	router.GET("/json", func(c *gin.Context) {
		JSONError(c, http.StatusNotFound, "No address found", "none")
	})
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	cases := map[string]string{
		"/api":  "request failed",
		"/json": "No address found",
		"/boom": "Unhandled panic",
	}
	for path, message := range cases {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(middleware.RequestIDHeader, "req-"+path)
		router.ServeHTTP(httptest.NewRecorder(), req)

		entries := logs.FilterMessage(message).All()
		require.Len(t, entries, 1, path)
		assert.Equal(t, "req-"+path, entries[0].ContextMap()["requestID"], path)
	}
}
