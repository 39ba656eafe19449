package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cv-helper/cv-helper-api/config"
	"github.com/cv-helper/cv-helper-api/internal/bank"
	"github.com/cv-helper/cv-helper-api/internal/browser"
	"github.com/cv-helper/cv-helper-api/internal/cache"
	"github.com/cv-helper/cv-helper-api/internal/handlers"
	"github.com/cv-helper/cv-helper-api/internal/middleware"
	"github.com/cv-helper/cv-helper-api/internal/portal"
	"github.com/cv-helper/cv-helper-api/internal/services"
	"github.com/cv-helper/cv-helper-api/internal/storage"
	"github.com/cv-helper/cv-helper-api/pkg/logger"
	"github.com/cv-helper/cv-helper-api/pkg/metrics"
	"github.com/cv-helper/cv-helper-api/pkg/objstore"
	"github.com/cv-helper/cv-helper-api/pkg/profiling"
	"github.com/cv-helper/cv-helper-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// sessionFactory adapts the concrete browser factory to the orchestrators'
// session interface.
type sessionFactory struct {
	factory *browser.Factory
}

func (f *sessionFactory) Acquire(ctx context.Context) (services.BrowserSession, error) {
	return f.factory.Acquire(ctx)
}

// registerRoutes wires the public API surface. Every route except the liveness
// probe and the tracking POST requires the shared query-parameter token.
func registerRoutes(
	router *gin.Engine,
	cfg *config.Config,
	generalRateLimiter, browserRateLimiter, trackingRateLimiter *middleware.RateLimiter,
	healthHandler *handlers.HealthHandler,
	conversionHandler *handlers.ConversionHandler,
	coworkingHandler *handlers.CoworkingHandler,
	assetsHandler *handlers.AssetsHandler,
	connectionHandler *handlers.ConnectionHandler,
) {
	tokenAuth := middleware.TokenAuthMiddleware(cfg.Auth.ServerToken)

	router.GET("/test", generalRateLimiter.Middleware(), healthHandler.Test)

	router.GET("/convert", browserRateLimiter.Middleware(), tokenAuth, conversionHandler.Convert)

	coworking := router.Group("/coworking", browserRateLimiter.Middleware(), tokenAuth)
	coworking.GET("/book", coworkingHandler.Book)
	coworking.GET("/accept-invitations", coworkingHandler.AcceptInvitations)
	coworking.GET("/meetings", coworkingHandler.Meetings)

	router.GET("/banks/:bank/assets", browserRateLimiter.Middleware(), tokenAuth, assetsHandler.Assets)

	router.GET("/connections", generalRateLimiter.Middleware(), tokenAuth, connectionHandler.Tree)
	router.GET("/connection", generalRateLimiter.Middleware(), tokenAuth, connectionHandler.Get)
	router.DELETE("/connection", generalRateLimiter.Middleware(), tokenAuth, connectionHandler.Delete)
	// Tracking is posted by public pages and carries no token, as the legacy
	// clients do. The body cap keeps oversized fingerprints out of the store.
	router.POST("/connection", trackingRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), connectionHandler.Track)

	// Operational endpoints
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting CV Helper API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.OTLPEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize continuous profiling
	profilerStop, err := profiling.InitProfiler(
		profiling.Config{
			Enabled:               cfg.Profiling.Enabled,
			Endpoint:              cfg.Profiling.Endpoint,
			AppName:               cfg.Profiling.AppName,
			SampleTypes:           cfg.Profiling.SampleTypes,
			UploadIntervalSeconds: cfg.Profiling.UploadIntervalSeconds,
		},
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
	)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer profilerStop()

	// Initialize metrics
	metrics.Init()

	// Initialize the flat-file store and its consumers
	store, err := storage.New(cfg.Storage.DataDir)
	if err != nil {
		logger.Fatal("Failed to initialize data store", zap.Error(err))
	}
	connectionLog := storage.NewConnectionLog(store)

	conversionCache := cache.NewConversionCache(store, time.Duration(cfg.Converter.TTLMinutes)*time.Minute, nil)

	// Initialize the failure-screenshot archive when storage keys are present
	var screenshots services.ScreenshotArchiver
	if cfg.Screenshots.AccessKeyID != "" && cfg.Screenshots.SecretAccessKey != "" {
		client, err := objstore.New(
			cfg.Screenshots.AccessKeyID,
			cfg.Screenshots.SecretAccessKey,
			cfg.Screenshots.BucketName,
			cfg.Screenshots.Endpoint,
			cfg.Screenshots.Region,
		)
		if err != nil {
			logger.Fatal("Failed to initialize screenshot storage client", zap.Error(err))
		}
		screenshots = client
	}

	// Browser and portal plumbing
	sessions := &sessionFactory{factory: browser.NewFactory(cfg.Browser)}
	coworkingPortal := portal.NewClient(cfg.Coworking)
	rateScraper := portal.NewConverterScraper(cfg.Converter.BaseURL)
	bankRegistry := bank.NewRegistry(cfg.Banks)

	// Initialize services
	coworkingService := services.NewCoworkingService(sessions, coworkingPortal, screenshots)
	conversionService := services.NewConversionService(conversionCache, sessions, rateScraper)
	connectionService := services.NewConnectionService(connectionLog)
	assetsService := services.NewAssetsService(sessions, bankRegistry)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	conversionHandler := handlers.NewConversionHandler(conversionService)
	coworkingHandler := handlers.NewCoworkingHandler(coworkingService)
	assetsHandler := handlers.NewAssetsHandler(assetsService)
	connectionHandler := handlers.NewConnectionHandler(connectionService)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS: only the known frontends, plus localhost when allowed
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.Server.AllowLocalhost || cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// Every browser-driven request holds a Chrome process for its whole
	// duration, so those routes get a much tighter limit than the file-backed
	// ones.
	generalRateLimiter := middleware.NewRateLimiter(50, 100)
	browserRateLimiter := middleware.NewRateLimiter(1, 3)
	trackingRateLimiter := middleware.NewRateLimiter(10, 20)

	registerRoutes(router, cfg,
		generalRateLimiter, browserRateLimiter, trackingRateLimiter,
		healthHandler, conversionHandler, coworkingHandler, assetsHandler, connectionHandler)

	// Portal flows wait on remote pages with no deadline of their own, so the
	// write timeout is the only hard cap on a hung scrape.
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
