// File: slotfinder/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotfinder/config"
	"slotfinder/handlers"
	"slotfinder/middleware"
	"slotfinder/routes"
	"slotfinder/services/finder"
	"slotfinder/services/geocode"
	"slotfinder/services/metrics"
	"slotfinder/services/search"
	"slotfinder/services/session"
	"slotfinder/services/upstream"
	"slotfinder/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if err := utils.InitCache(); err != nil {
		logger.Sugar().Fatalf("main: failed to initialize redis: %v", err)
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLoggerMiddleware(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	tmpl, err := handlers.LoadTemplates()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to parse templates: %v", err)
	}
	router.SetHTMLTemplate(tmpl)

	// clients.
	upstreamMetrics := metrics.NewUpstreamMetrics(nil)
	upstreamClient := upstream.NewClient(upstream.Options{
		BaseURL:        config.AppConfig.UpstreamBaseURL,
		AuthToken:      config.AppConfig.UpstreamAuthToken,
		OrganizationID: config.AppConfig.UpstreamOrganizationID,
		ServiceTypeID:  config.AppConfig.UpstreamServiceTypeID,
		HTTPClient:     upstream.DefaultHTTPClient(config.AppConfig.UpstreamTimeout),
		Metrics:        upstreamMetrics,
		Logger:         logger.Named("upstream"),
	})
	reverseGeocoder := geocode.NewReverseGeocoder(config.AppConfig.MapQuestBaseURL, config.AppConfig.MapQuestAPIKey, nil, upstreamMetrics)
	locator := &geocode.Locator{
		IP:      geocode.NewIPLocator(config.AppConfig.IPAPIBaseURL, nil, upstreamMetrics, logger.Named("iplocate")),
		Reverse: reverseGeocoder,
	}

	// services.
	finderService := &finder.Service{
		Upstream: upstreamClient,
		Metrics:  upstreamMetrics,
		Logger:   logger.Named("finder"),
	}
	if utils.CacheClient != nil {
		finderService.Cache = finder.NewRedisLocationCache(utils.CacheClient, config.AppConfig.LocationCacheTTL)
	}

	var sessions session.Store = session.NewMemoryStore()
	if utils.SessionCacheClient != nil {
		sessions = session.NewRedisStore(utils.SessionCacheClient, config.AppConfig.SessionTTL)
	}

	monitor := utils.NewHealthMonitor(utils.RedisClients(), upstreamClient.Ping)
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	monitor.Start(monitorCtx, 60*time.Second)

	appointmentHandler := handlers.NewAppointmentHandler(finderService)
	geocodeHandler := handlers.NewGeocodeHandler(reverseGeocoder, locator)
	pageHandler := handlers.NewPageHandler(handlers.PageOptions{
		Sessions:            sessions,
		Backend:             &search.FinderBackend{Finder: finderService},
		Locator:             locator,
		ClearOnSearch:       config.AppConfig.ClearOnSearch,
		DefaultMaxLocations: config.AppConfig.DefaultMaxLocations,
	})
	healthHandler := handlers.NewHealthHandler(monitor)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		GetLocations:       appointmentHandler.GetLocations,
		GetAppointments:    appointmentHandler.GetAppointments,
		GetAppointmentRows: appointmentHandler.GetAppointmentRows,

		ReverseGeocode: geocodeHandler.ReverseGeocode,
		Locate:         geocodeHandler.Locate,

		Index:       pageHandler.Index,
		Search:      pageHandler.Search,
		ClearSearch: pageHandler.Clear,

		Health:  healthHandler.Health,
		Metrics: gin.WrapH(promhttp.Handler()),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("upstream", config.AppConfig.UpstreamBaseURL))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	for _, client := range utils.RedisClients() {
		_ = client.Close()
	}
	logger.Info("main: server stopped gracefully")
}
