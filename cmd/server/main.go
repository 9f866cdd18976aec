package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	customsapp "github.com/gestora/backend/internal/application/customs"
	tradeapp "github.com/gestora/backend/internal/application/trade"
	"github.com/gestora/backend/internal/domain/shared"
	"github.com/gestora/backend/internal/infrastructure/auth"
	"github.com/gestora/backend/internal/infrastructure/cache"
	"github.com/gestora/backend/internal/infrastructure/config"
	"github.com/gestora/backend/internal/infrastructure/event"
	"github.com/gestora/backend/internal/infrastructure/logger"
	"github.com/gestora/backend/internal/infrastructure/persistence"
	"github.com/gestora/backend/internal/interfaces/http/handler"
	"github.com/gestora/backend/internal/interfaces/http/middleware"
	"github.com/gestora/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			Gestora Backend API
//	@version		1.0
//	@description	Import costing and reception backend: customs declarations, landed-cost proration, shipment tracking and warehouse reception.

//	@contact.name	API Support
//	@contact.url	https://github.com/gestora/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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

	log.Info("Starting Gestora Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	declarationRepo := persistence.NewGormDeclarationRepository(db.DB)
	trackingRepo := persistence.NewGormTrackingEventRepository(db.DB)
	receptionRepo := persistence.NewGormReceptionRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)

	// Transaction scope for reception finalization: claim, stock injection
	// and movement records commit or roll back as one unit
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	declarationService := customsapp.NewDeclarationService(declarationRepo)
	trackingService := customsapp.NewTrackingService(declarationRepo, trackingRepo)
	receptionService := customsapp.NewReceptionService(declarationRepo, receptionRepo, txScope, log)
	purchaseOrderService := tradeapp.NewPurchaseOrderService(purchaseOrderRepo, declarationRepo)

	// Idempotency store for reception finalization replay suppression.
	// Falls back to an in-memory store when Redis is unavailable.
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()
	receptionService.SetIdempotencyStore(idempotencyStore, shared.IdempotencyConfig{
		TTL:     cfg.Idempotency.TTL,
		Enabled: true,
	})

	// Event bus: services publish domain events after persisting; the audit
	// logger records every state transition
	eventBus := event.NewBus(log)
	eventBus.Subscribe(event.NewAuditLogger(log))
	declarationService.SetEventPublisher(eventBus)
	purchaseOrderService.SetEventPublisher(eventBus)

	// JWT service for API authentication
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	declarationHandler := handler.NewDeclarationHandler(declarationService)
	trackingHandler := handler.NewTrackingHandler(trackingService)
	receptionHandler := handler.NewReceptionHandler(receptionService)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(purchaseOrderService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order: request ID, panic recovery, request
	// logging, security headers, CORS
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// JWT authentication for API routes, with public endpoints skipped
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	// Customs domain: declarations with their items, lifecycle transitions,
	// costing, tracking log and warehouse reception
	customsRoutes := router.NewDomainGroup("customs", "/customs")
	customsRoutes.POST("/declarations", declarationHandler.Create)
	customsRoutes.GET("/declarations", declarationHandler.List)
	customsRoutes.GET("/declarations/number/:number", declarationHandler.GetByNumber)
	customsRoutes.GET("/declarations/:id", declarationHandler.GetByID)
	customsRoutes.PUT("/declarations/:id/factors", declarationHandler.UpdateFactors)
	customsRoutes.POST("/declarations/:id/items", declarationHandler.AddItem)
	customsRoutes.PUT("/declarations/:id/items/:itemId", declarationHandler.UpdateItem)
	customsRoutes.DELETE("/declarations/:id/items/:itemId", declarationHandler.RemoveItem)
	customsRoutes.POST("/declarations/:id/submit", declarationHandler.Submit)
	customsRoutes.POST("/declarations/:id/liquidate", declarationHandler.Liquidate)
	customsRoutes.POST("/declarations/:id/cancel", declarationHandler.Cancel)
	customsRoutes.GET("/declarations/:id/costing", declarationHandler.GetCosting)
	customsRoutes.POST("/declarations/:id/tracking", trackingHandler.AddEvent)
	customsRoutes.GET("/declarations/:id/tracking", trackingHandler.GetLog)
	customsRoutes.POST("/declarations/:id/reception", receptionHandler.Create)
	customsRoutes.GET("/declarations/:id/reception", receptionHandler.GetByDeclaration)
	customsRoutes.PUT("/declarations/:id/reception", receptionHandler.Update)
	customsRoutes.POST("/declarations/:id/reception/finalize", receptionHandler.Finalize)

	// Trade domain: purchase orders and their declaration links
	tradeRoutes := router.NewDomainGroup("trade", "/trade")
	tradeRoutes.POST("/purchase-orders", purchaseOrderHandler.Create)
	tradeRoutes.GET("/purchase-orders", purchaseOrderHandler.List)
	tradeRoutes.GET("/purchase-orders/:id", purchaseOrderHandler.GetByID)
	tradeRoutes.PUT("/purchase-orders/:id/declared-value", purchaseOrderHandler.UpdateDeclaredValue)
	tradeRoutes.POST("/purchase-orders/:id/in-transit", purchaseOrderHandler.MarkInTransit)
	tradeRoutes.POST("/purchase-orders/:id/received", purchaseOrderHandler.MarkReceived)
	tradeRoutes.POST("/purchase-orders/:id/cancel", purchaseOrderHandler.Cancel)
	tradeRoutes.POST("/purchase-orders/:id/declarations", purchaseOrderHandler.LinkDeclaration)
	tradeRoutes.DELETE("/purchase-orders/:id/declarations/:declarationId", purchaseOrderHandler.UnlinkDeclaration)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.Info)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(customsRoutes).
		Register(tradeRoutes).
		Register(systemRoutes)
	r.Setup()

	// Simple ping at root API level for basic liveness checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports process and database health
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
