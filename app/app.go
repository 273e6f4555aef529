// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nfc-transactions-api/config"
	"nfc-transactions-api/db"
	"nfc-transactions-api/handler"
	"nfc-transactions-api/logger"
	"nfc-transactions-api/repository"
	"nfc-transactions-api/router"
	"nfc-transactions-api/service"

	"github.com/redis/go-redis/v9"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if config.AppConfig.Database.RunMigrations {
		if err := db.RunMigrations(db.ConnectionURL(), config.AppConfig.Database.MigrationsPath); err != nil {
			logger.Log.Fatalf("Error applying migrations: %v", err)
		}
	}

	// The cache is optional infrastructure; the API stays fully functional
	// without it.
	var cache service.ICacheClient
	if config.AppConfig.Redis.Enabled {
		redisClient, err := db.ConnectRedis()
		if err != nil {
			logger.Log.WithError(err).Warn("Redis unavailable, continuing without cache")
		} else {
			defer redisClient.Close()
			cache = redisClient
		}
	}

	// --- Wiring All Layers Together ---
	transactionRepo := repository.NewTransactionRepository(database)
	transactionService := service.NewTransactionService(database, transactionRepo, cache)
	transactionHandler := handler.NewTransactionHandler(transactionService)

	r := router.NewRouter(transactionHandler)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// TestApp bundles the wired layers over an injected database and cache so
// integration-style tests can drive the full router.
type TestApp struct {
	DB     *sql.DB
	Router http.Handler
}

func NewTestApp(database *sql.DB, redisClient *redis.Client) *TestApp {
	var cache service.ICacheClient
	if redisClient != nil {
		cache = redisClient
	}

	transactionRepo := repository.NewTransactionRepository(database)
	transactionService := service.NewTransactionService(database, transactionRepo, cache)
	transactionHandler := handler.NewTransactionHandler(transactionService)

	return &TestApp{
		DB:     database,
		Router: router.NewRouter(transactionHandler),
	}
}
