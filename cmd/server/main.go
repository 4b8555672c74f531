package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/api"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/config"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/logger"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/middleware"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/worker"
)

func main() {
	// 1. Config
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("❌ Invalid configuration", "error", err)
		os.Exit(1)
	}

	// 2. Logger
	appLogger := logger.New(cfg)

	appLogger.Info("🚀 [Go] Starting car marketplace API...",
		"environment", cfg.AppEnv,
		"db_driver", cfg.DBDriver,
	)

	// 3. Connect to Database
	if err := database.ConnectDatabase(cfg, appLogger); err != nil {
		appLogger.Error("❌ Failed to connect to database", "error", err)
		os.Exit(1)
	}

	store := repository.NewStore(database.GetDatabase())

	// 4. Token revocation (Redis, in-memory fallback)
	revoked := newRevocationStore(cfg, appLogger)
	defer revoked.Close()

	// 5. Initialize Services
	credentials := service.NewCredentialStore(cfg)
	authService := service.NewAuthService(store, credentials, revoked, appLogger)
	userService := service.NewUserService(store, credentials, appLogger)
	catalogService := service.NewCatalogService(store, appLogger)
	carService := service.NewCarService(store, appLogger)
	marketplaceService := service.NewMarketplaceService(store, appLogger)

	// 6. Initialize Handlers & Middleware
	handlers := api.Handlers{
		Auth:        handler.NewAuthHandler(authService, appLogger),
		Users:       handler.NewUserHandler(userService, appLogger),
		Catalog:     handler.NewCatalogHandler(catalogService, marketplaceService, appLogger),
		Cars:        handler.NewCarHandler(carService, marketplaceService, appLogger),
		Marketplace: handler.NewMarketplaceHandler(marketplaceService, appLogger),
	}
	authMiddleware := middleware.NewAuthMiddleware(authService, appLogger)

	// 7. Initialize Rate Limiter
	rateLimiter := newLoginLimiter(cfg, appLogger)
	defer rateLimiter.Close()

	// 8. Router and HTTP server
	r := api.SetupRouter(cfg.ApiPrefix, handlers, authMiddleware, rateLimiter, appLogger)

	addr := fmt.Sprintf(":%s", cfg.ApiServicePort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownTimeout := time.Duration(cfg.ShutdownTimeout) * time.Second
	pool := worker.NewPool(appLogger)
	pool.Go("http-server", worker.ServeHTTP(srv, shutdownTimeout))
	appLogger.Info("🌍 [Go] HTTP Server running on port...", "port", addr, "prefix", cfg.ApiPrefix)

	// 9. Wait for a signal or a failed task
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-quit:
		appLogger.Info("📴 [Go] Shutdown signal received", "signal", sig.String())
	case err := <-pool.Errors():
		appLogger.Error("❌ HTTP Server failed", "error", err)
		exitCode = 1
	}

	if !pool.Shutdown(shutdownTimeout) {
		exitCode = 1
	}
	appLogger.Info("👋 [Go] Server stopped")

	if exitCode != 0 {
		revoked.Close()
		rateLimiter.Close()
		os.Exit(exitCode)
	}
}

func newRevocationStore(cfg *config.Config, logger *slog.Logger) database.TokenRevocationStore {
	if !cfg.RedisEnabled {
		logger.Info("💡 Redis disabled, revoked tokens are kept in memory")
		return database.NewMemoryRevocationStore()
	}

	redisClient, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Warn("⚠️ Failed to connect to Redis for token revocation", "error", err)
		logger.Info("💡 Revoked tokens will only be kept in memory")
		return database.NewMemoryRevocationStore()
	}
	return redisClient
}

func newLoginLimiter(cfg *config.Config, logger *slog.Logger) middleware.RateLimiter {
	if !cfg.RedisEnabled {
		return middleware.NewNoOpRateLimiter(logger)
	}

	rateLimiter, err := middleware.NewRateLimiter(cfg, logger)
	if err != nil {
		logger.Warn("⚠️ Failed to connect to Redis, using no-op rate limiter", "error", err)
		return middleware.NewNoOpRateLimiter(logger)
	}
	return rateLimiter
}
