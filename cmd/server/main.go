package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/trade-journal/internal/config"
	"github.com/trade-journal/internal/database"
	"github.com/trade-journal/internal/handler"
	"github.com/trade-journal/internal/logging"
	"github.com/trade-journal/internal/middleware"
	"github.com/trade-journal/internal/newsfeed"
	"github.com/trade-journal/internal/newsfeed/finnhub"
	"github.com/trade-journal/internal/newsfeed/mock"
	"github.com/trade-journal/internal/repository"
	"github.com/trade-journal/internal/service"
	"github.com/trade-journal/internal/worker"
)

// Build info (injected at build time via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.InitLogger(cfg.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Auto migrate database
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis is optional; without it analytics are computed on every request
	rdb := initRedis(cfg)
	var cache service.Cache
	if rdb != nil {
		cache = service.NewRedisCache(rdb)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	capitalRepo := repository.NewCapitalRepository(db)
	eventRepo := repository.NewEconomicEventRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT)
	analyticsService := service.NewAnalyticsService(
		tradeRepo,
		capitalRepo,
		cache,
		config.Duration(cfg.Analytics.CacheTTL, 5*time.Minute),
	)
	capitalService := service.NewCapitalService(capitalRepo, tradeRepo, cfg.Journal.Location(), analyticsService)
	tradeService := service.NewTradeService(tradeRepo, capitalService, analyticsService)
	newsService := service.NewNewsService(
		eventRepo,
		newsProviders(cfg),
		mock.NewGenerator(time.Now().UnixNano()),
		cache,
	)
	sessionService := service.NewSessionService()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	tradeHandler := handler.NewTradeHandler(tradeService)
	capitalHandler := handler.NewCapitalHandler(capitalService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	calculatorHandler := handler.NewCalculatorHandler()
	newsHandler := handler.NewNewsHandler(newsService)
	sessionHandler := handler.NewSessionHandler(
		sessionService,
		config.Duration(cfg.Sessions.PushInterval, 30*time.Second),
	)

	// Create Gin router
	router := gin.Default()

	// Add request logging middleware
	router.Use(middleware.RequestLoggerMiddleware())

	// Add CORS middleware
	router.Use(corsMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"version":    Version,
			"commit":     Commit,
			"build_time": BuildTime,
			"time":       time.Now().Unix(),
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		authMiddleware := middleware.AuthMiddleware(authService)

		// Auth routes (register/login/refresh public, the rest protected)
		authHandler.RegisterRoutes(v1, authMiddleware)

		// Journal routes (protected)
		tradeHandler.RegisterRoutes(v1, authMiddleware)
		capitalHandler.RegisterRoutes(v1, authMiddleware)
		analyticsHandler.RegisterRoutes(v1, authMiddleware)
		newsHandler.RegisterRoutes(v1, authMiddleware)

		// Calculator and market clock (public)
		calculatorHandler.RegisterRoutes(v1)
		sessionHandler.RegisterRoutes(v1)
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start economic calendar worker
	newsWorker := worker.NewNewsWorker(newsService, config.Duration(cfg.News.RefreshInterval, time.Hour))
	go newsWorker.Start()

	// Start server in goroutine
	go func() {
		logging.LogInfo("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.LogInfo("Shutting down server...")

	// Stop news worker
	newsWorker.Stop()

	// Graceful shutdown with 10 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close Redis connection
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logging.LogError("Error closing Redis connection: %v", err)
		}
	}

	logging.LogInfo("Server exited properly")
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Info
	if cfg.Server.Mode == gin.ReleaseMode {
		logLevel = logger.Warn
	}
	return database.Open(cfg.Database, logLevel)
}

// initRedis connects to Redis when enabled. A failed ping disables the cache
// instead of aborting startup.
func initRedis(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		logging.LogInfo("Redis disabled, analytics cache and news pub/sub are off")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logging.LogError("Redis unreachable at %s, continuing without cache: %v", rdb.Options().Addr, err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// newsProviders returns the real calendar sources in preference order. The
// mock generator is always the fallback.
func newsProviders(cfg *config.Config) []newsfeed.Provider {
	var providers []newsfeed.Provider
	if cfg.News.FinnhubAPIKey != "" {
		providers = append(providers, finnhub.NewClient(cfg.News.FinnhubAPIKey))
	} else {
		logging.LogInfo("No Finnhub API key configured, using mock economic calendar")
	}
	return providers
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
