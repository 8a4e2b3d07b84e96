package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/perchfin/lending-engine/internal/bank"
	"github.com/perchfin/lending-engine/internal/config"
	"github.com/perchfin/lending-engine/internal/handler"
	"github.com/perchfin/lending-engine/internal/middleware"
	"github.com/perchfin/lending-engine/internal/repository"
	"github.com/perchfin/lending-engine/internal/risk"
	"github.com/perchfin/lending-engine/internal/service"
	"github.com/perchfin/lending-engine/pkg/response"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories and collaborators
	accountRepo := repository.NewAccountRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	bankClient := bank.NewClient(cfg.Bank, logger)
	evaluator := risk.NewRuleEvaluator(logger)

	// Initialize service and handlers
	ledgerService := service.NewLedgerService(accountRepo, ledgerRepo, bankClient, evaluator, redisClient, cfg, logger)
	ledgerHandler := handler.NewLedgerHandler(ledgerService, logger)
	accountHandler := handler.NewAccountHandler(accountRepo, cfg, logger)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Setup routes
	router := setupRoutes(cfg, logger, ledgerHandler, accountHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	cfg *config.Config,
	logger *logrus.Logger,
	ledgerHandler *handler.LedgerHandler,
	accountHandler *handler.AccountHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(logger))

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// Public routes
	router.HandleFunc("/register", accountHandler.Register).Methods("POST")
	router.HandleFunc("/login", accountHandler.Login).Methods("POST")
	router.HandleFunc("/api/v1/product", ledgerHandler.Product).Methods("GET")

	// Authenticated API routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(cfg.Auth))

	api.HandleFunc("/decision", ledgerHandler.Requirements).Methods("GET")
	api.HandleFunc("/decision", ledgerHandler.Decide).Methods("POST")
	api.HandleFunc("/funding", ledgerHandler.RequestFunding).Methods("POST")
	api.HandleFunc("/schedule", ledgerHandler.Overview).Methods("GET")

	return router
}
