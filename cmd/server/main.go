package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	linkingapp "github.com/outfit/partner-api/internal/application/linking"
	partnerapp "github.com/outfit/partner-api/internal/application/partner"
	searchapp "github.com/outfit/partner-api/internal/application/search"
	"github.com/outfit/partner-api/internal/domain/matching"
	"github.com/outfit/partner-api/internal/domain/partner"
	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/outfit/partner-api/internal/infrastructure/auth"
	"github.com/outfit/partner-api/internal/infrastructure/cache"
	"github.com/outfit/partner-api/internal/infrastructure/config"
	"github.com/outfit/partner-api/internal/infrastructure/event"
	"github.com/outfit/partner-api/internal/infrastructure/logger"
	"github.com/outfit/partner-api/internal/infrastructure/persistence"
	"github.com/outfit/partner-api/internal/infrastructure/scheduler"
	"github.com/outfit/partner-api/internal/infrastructure/searchengine"
	"github.com/outfit/partner-api/internal/infrastructure/telemetry"
	"github.com/outfit/partner-api/internal/interfaces/http/handler"
	"github.com/outfit/partner-api/internal/interfaces/http/middleware"
	"github.com/outfit/partner-api/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/outfit/partner-api/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Outfit Partner API
//	@version		1.0
//	@description	Partner-facing API for generating hotel-search deeplinks: identity linking, disambiguation, and search session creation.

//	@contact.name	Partner Support
//	@contact.email	partners@outfit.travel

//	@host		localhost:8080
//	@BasePath	/v1

//	@securityDefinitions.apikey	PartnerAPIKey
//	@in							header
//	@name						X-Outfit-Api-Key
//	@description				Partner API key issued at provisioning. Format: "ok_<prefix>_<secret>"

//	@securityDefinitions.apikey	AdminToken
//	@in							header
//	@name						X-Outfit-Admin-Token
//	@description				Static operator token for the admin surface

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

	log.Info("Starting Outfit Partner API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry providers (no-ops when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
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

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		if err := loggerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	// Bridge zap into OTel logs when the provider is live
	if loggerProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore)
		log.Info("Zap logs bridged to OpenTelemetry")
	}

	// Continuous profiling
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:             cfg.Telemetry.ProfilingEnabled,
		ServerAddress:       cfg.Telemetry.PyroscopeAddress,
		ApplicationName:     cfg.Telemetry.ServiceName,
		ProfileCPU:          true,
		ProfileAllocObjects: true,
		ProfileAllocSpace:   true,
		ProfileInuseObjects: true,
		ProfileInuseSpace:   true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Database tracing and pool metrics
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}
	if cfg.Telemetry.Enabled {
		dbMetrics, err := telemetry.NewDBMetrics(meterProvider.Meter("database"), telemetry.DBMetricsConfig{
			Enabled:            true,
			SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err != nil {
			log.Warn("Failed to create database metrics", zap.Error(err))
		} else if err := db.DB.Use(telemetry.NewDBMetricsPlugin(dbMetrics, log)); err != nil {
			log.Warn("Failed to register database metrics plugin", zap.Error(err))
		}
	}

	// Initialize repositories
	partnerRepo := persistence.NewGormPartnerRepository(db.DB)
	agentAccountRepo := persistence.NewGormAgentAccountRepository(db.DB)
	clientAccountRepo := persistence.NewGormClientAccountRepository(db.DB)
	agentLinkRepo := persistence.NewGormAgentLinkRepository(db.DB)
	clientLinkRepo := persistence.NewGormClientLinkRepository(db.DB)
	sessionRepo := persistence.NewGormSearchSessionRepository(db.DB)

	// Coordination primitives: Redis-first, in-memory fallback
	idemFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idemStore, err := idemFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idemStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	mutexFactory := cache.NewKeyedMutexFactory(cfg.Redis,
		cache.WithMutexFactoryLogger(log),
		cache.WithMutexFactoryLockConfig(shared.LockConfig{
			TTL:           cfg.Linking.LockTTL,
			RetryInterval: cfg.Linking.LockRetryInterval,
		}),
	)
	linkMutex, err := mutexFactory.CreateMutex()
	if err != nil {
		log.Fatal("Failed to create keyed link mutex", zap.Error(err))
	}
	defer func() {
		if err := linkMutex.Close(); err != nil {
			log.Error("Error closing keyed link mutex", zap.Error(err))
		}
	}()

	// Credential cache for verified API keys
	credCache := buildCredentialCache(ctx, cfg, log)
	defer func() {
		if err := credCache.Close(); err != nil {
			log.Error("Error closing credential cache", zap.Error(err))
		}
	}()

	// Auth and engine ports
	keyVerifier := auth.NewAPIKeyVerifier(partnerRepo, credCache, cfg.Auth, log)
	deeplinkService := auth.NewDeeplinkService(cfg.Deeplink)
	hotelEngine, err := searchengine.NewEngine(cfg.SearchEngine, log)
	if err != nil {
		log.Fatal("Failed to create search engine", zap.Error(err))
	}
	log.Info("Search engine ready", zap.String("mode", cfg.SearchEngine.Mode))

	// Confidence matcher
	matcher := matching.NewMatcher(matching.Config{
		AutoLinkThreshold:  cfg.Matching.AutoLinkThreshold,
		CandidateThreshold: cfg.Matching.CandidateThreshold,
		MaxCandidates:      cfg.Matching.MaxCandidates,
		ActivityWindowDays: cfg.Matching.ActivityWindowDays,
		Weights: matching.Weights{
			Name:     cfg.Matching.NameWeight,
			Email:    cfg.Matching.EmailWeight,
			Activity: cfg.Matching.ActivityWeight,
		},
	})

	// Linking metrics collected from the link store
	var linkMetrics *telemetry.LinkingMetrics
	if cfg.Telemetry.Enabled {
		linkMetrics, err = telemetry.NewLinkingMetrics(telemetry.LinkingMetricsConfig{
			Meter:             meterProvider.Meter("linking"),
			Logger:            log,
			LinkStoreProvider: telemetry.NewGormLinkStoreMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to create linking metrics", zap.Error(err))
		} else {
			linkMetrics.StartPeriodicCollection(ctx, 0)
			defer linkMetrics.Stop()
		}
	}

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	var metricsRecorder linkingapp.LinkMetricsRecorder
	if linkMetrics != nil {
		metricsRecorder = linkMetrics
	}
	handlers := []shared.EventHandler{
		linkingapp.NewLinkAuditHandler(log),
		linkingapp.NewLinkMetricsHandler(metricsRecorder, log),
		partnerapp.NewCredentialEvictionHandler(credCache, log),
	}
	for _, h := range event.WrapHandlersWithIdempotency(handlers, idemStore, log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{
			TTL:     cfg.Event.IdempotencyTTL,
			Enabled: true,
		}),
	) {
		eventBus.Subscribe(h)
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize application services
	agentLinkingService := linkingapp.NewAgentLinkingService(
		agentLinkRepo, agentAccountRepo, linkMutex, cfg.Linking.LockTTL, eventBus, log)
	clientLinkingService := linkingapp.NewClientLinkingService(
		clientLinkRepo, agentLinkRepo, clientAccountRepo, matcher,
		linkMutex, cfg.Linking.LockTTL, cfg.Linking.PendingTTL, eventBus, log)
	searchService := searchapp.NewSearchService(
		sessionRepo, agentLinkRepo, clientLinkRepo, clientAccountRepo,
		hotelEngine, deeplinkService, cfg.Deeplink.TTL, eventBus, log)
	partnerService := partnerapp.NewPartnerService(partnerRepo, eventBus, log)
	linkExpirationService := linkingapp.NewLinkExpirationService(clientLinkRepo, eventBus, log)
	sessionExpirationService := searchapp.NewSessionExpirationService(sessionRepo, log)

	// Background expiration sweeps
	var expirationScheduler *scheduler.ExpirationScheduler
	if cfg.Scheduler.Enabled {
		expirationScheduler, err = scheduler.NewExpirationScheduler(
			linkExpirationService,
			sessionExpirationService,
			log,
			scheduler.ExpirationSchedulerConfig{
				Enabled:              true,
				LinkSweepInterval:    cfg.Scheduler.LinkSweepInterval,
				SessionSweepInterval: cfg.Scheduler.SessionSweepInterval,
				JobTimeout:           cfg.Scheduler.JobTimeout,
			},
		)
		if err != nil {
			log.Fatal("Failed to create expiration scheduler", zap.Error(err))
		}
		if err := expirationScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start expiration scheduler", zap.Error(err))
		}
		defer func() {
			if err := expirationScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping expiration scheduler", zap.Error(err))
			}
		}()
		log.Info("Expiration scheduler started",
			zap.Duration("link_sweep_interval", cfg.Scheduler.LinkSweepInterval),
			zap.Duration("session_sweep_interval", cfg.Scheduler.SessionSweepInterval),
		)
	}

	// Initialize HTTP handlers
	linkingHandler := handler.NewLinkingHandler(agentLinkingService, clientLinkingService)
	searchHandler := handler.NewSearchHandler(searchService)
	partnerAdminHandler := handler.NewPartnerAdminHandler(partnerService)
	schedulerAdminHandler := handler.NewSchedulerAdminHandler(expirationScheduler)
	healthHandler := handler.NewHealthHandler(db)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing/Metrics/Profiling - Telemetry (when enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.TracingAttributeInjector())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}
	if cfg.Telemetry.ProfilingEnabled {
		engine.Use(middleware.ProfilingWithConfig(middleware.ProfilingConfig{
			Enabled:   true,
			SkipPaths: []string{"/health", "/ready"},
		}))
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health and readiness probes (outside API versioning)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)

	// Swagger documentation endpoint, guarded per config
	adminAuth := middleware.AdminAuthMiddleware(cfg.Auth.AdminToken, log)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, adminAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Partner surface: API key auth + per-partner rate limit
	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.Use(middleware.APIKeyAuthMiddlewareWithConfig(middleware.APIKeyMiddlewareConfig{
		Verifier: keyVerifier,
		Logger:   log,
	}))
	if cfg.HTTP.RateLimitEnabled {
		partnerLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		partnerRoutes.Use(middleware.RateLimit(partnerLimiter))
		log.Info("Partner rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	partnerRoutes.POST("/search", searchHandler.Search)
	partnerRoutes.POST("/create-agent", linkingHandler.CreateAgent)
	partnerRoutes.POST("/verify-customer", linkingHandler.VerifyCustomer)
	partnerRoutes.POST("/resolve-customer", linkingHandler.ResolveCustomer)

	// Admin surface: static token + stricter per-IP rate limit
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(adminAuth)
	if cfg.HTTP.AdminRateLimitEnabled {
		adminLimiter := middleware.NewRateLimiter(cfg.HTTP.AdminRateLimitRequests, cfg.HTTP.AdminRateLimitWindow)
		adminRoutes.Use(middleware.AdminRateLimit(adminLimiter))
	}
	adminRoutes.POST("/partners", partnerAdminHandler.Create)
	adminRoutes.GET("/partners", partnerAdminHandler.List)
	adminRoutes.GET("/partners/:id", partnerAdminHandler.GetByID)
	adminRoutes.POST("/partners/:id/rotate-key", partnerAdminHandler.RotateKey)
	adminRoutes.POST("/partners/:id/suspend", partnerAdminHandler.Suspend)
	adminRoutes.POST("/partners/:id/activate", partnerAdminHandler.Activate)
	adminRoutes.GET("/scheduler/status", schedulerAdminHandler.GetStatus)
	adminRoutes.POST("/scheduler/sweep-links", schedulerAdminHandler.TriggerLinkSweep)
	adminRoutes.POST("/scheduler/sweep-sessions", schedulerAdminHandler.TriggerSessionSweep)

	// System routes (unauthenticated, build/info level only)
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(partnerRoutes).
		Register(adminRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// buildCredentialCache assembles the credential cache for verified API keys.
// With Redis available it returns the tiered cache (local L1, Redis L2,
// Pub/Sub invalidation across instances); otherwise the local cache alone.
func buildCredentialCache(ctx context.Context, cfg *config.Config, log *zap.Logger) partner.CredentialCache {
	cacheCfg := partner.DefaultCredentialCacheConfig()
	if cfg.Auth.APIKeyCacheTTL > 0 {
		cacheCfg.CredentialTTL = cfg.Auth.APIKeyCacheTTL
	}

	l1 := cache.NewInMemoryCredentialCache(
		cache.WithInMemoryConfig(cacheCfg),
		cache.WithInMemoryLogger(log),
	)

	redisCfg := cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	l2, err := cache.NewRedisCredentialCache(redisCfg,
		cache.WithCacheConfig(cacheCfg),
		cache.WithCacheLogger(log),
	)
	if err != nil {
		log.Warn("Redis unavailable, credential cache is local only", zap.Error(err))
		return l1
	}

	invalidator := cache.NewRedisCredentialInvalidatorWithClient(l2.GetClient(),
		cache.WithInvalidatorChannel(cacheCfg.PubSubChannel),
		cache.WithInvalidatorLogger(log),
	)

	tiered := cache.NewTieredCredentialCache(l1, l2, invalidator,
		cache.WithTieredConfig(cacheCfg),
		cache.WithTieredLogger(log),
	)
	go func() {
		if err := tiered.StartInvalidationSubscription(ctx); err != nil {
			log.Error("Credential invalidation subscription failed", zap.Error(err))
		}
	}()
	log.Info("Using tiered credential cache")
	return tiered
}
