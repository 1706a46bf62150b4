package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	cashierapp "github.com/brecho/backend/internal/application/cashier"
	checkoutapp "github.com/brecho/backend/internal/application/checkout"
	"github.com/brecho/backend/internal/domain/shared"
	"github.com/brecho/backend/internal/infrastructure/backoffice"
	"github.com/brecho/backend/internal/infrastructure/cache"
	"github.com/brecho/backend/internal/infrastructure/config"
	"github.com/brecho/backend/internal/infrastructure/event"
	"github.com/brecho/backend/internal/infrastructure/logger"
	"github.com/brecho/backend/internal/infrastructure/telemetry"
	"github.com/brecho/backend/internal/interfaces/http/handler"
	"github.com/brecho/backend/internal/interfaces/http/middleware"
	"github.com/brecho/backend/internal/interfaces/http/router"
)

// maxRequestBody is generous for a POS API whose largest payload is a tender list
const maxRequestBody = 1 << 20

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting brecho PDV",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("backoffice", cfg.Backoffice.BaseURL),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Back-office collaborator client: one client serves every gateway port
	backofficeClient := backoffice.NewClient(cfg.Backoffice, log)

	// Duplicate-submit protection store: Redis with in-memory fallback
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.Idempotency.AllowInMemoryFallback && !cfg.Idempotency.RedisRequired),
	)
	idemStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idemStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// In-process event bus feeding the sale journal
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(checkoutapp.NewSaleJournal(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	sessionService := cashierapp.NewCashSessionService(backofficeClient, log)
	checkoutService := checkoutapp.NewCheckoutService(
		backofficeClient, // catalog
		backofficeClient, // draft bags
		backofficeClient, // barter balances
		backofficeClient, // sale submission
		sessionService,
		idemStore,
		shared.IdempotencyConfig{Enabled: cfg.Idempotency.Enabled, TTL: cfg.Idempotency.TTL},
		log,
	)
	checkoutService.SetEventPublisher(eventBus)

	// HTTP handlers
	laneHandler := handler.NewLaneHandler(checkoutService)
	cashierHandler := handler.NewCashSessionHandler(sessionService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(maxRequestBody))

	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	// Routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(laneHandler).
		Register(cashierHandler).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
