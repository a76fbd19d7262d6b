package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	"github.com/slada12/secure-blu-vault/internal/core/services"
	"github.com/slada12/secure-blu-vault/internal/handlers"
	"github.com/slada12/secure-blu-vault/internal/middleware"
	"github.com/slada12/secure-blu-vault/internal/platform/clock"
	"github.com/slada12/secure-blu-vault/internal/platform/config"
	"github.com/slada12/secure-blu-vault/internal/repositories/database/pgsql"
	"github.com/slada12/secure-blu-vault/internal/repositories/memory"
	"github.com/slada12/secure-blu-vault/internal/workers"
	"github.com/slada12/secure-blu-vault/pkg/database"
	"github.com/slada12/secure-blu-vault/pkg/messaging"
)

const shutdownTimeout = 15 * time.Second

// @title Secure Blu Vault API
// @version 1.0
// @description Money movement core: transfers, settlement, funding and account administration.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	serviceContainer := services.NewServiceContainer(repos, services.WithSettings(services.SettingsFromConfig(cfg)))

	publisher, err := setupPublisher(cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Error closing event publisher", slog.String("error", err.Error()))
		}
	}()

	dispatcher := workers.NewOutboxDispatcher(repos.OutboxRepo, publisher, workers.DispatcherConfig{
		PollInterval:   cfg.OutboxPollInterval,
		BatchSize:      cfg.OutboxBatchSize,
		PublishTimeout: cfg.StoreTimeout,
	}, logger)
	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		dispatcher.Run(ctx)
	}()

	jobs := workers.NewMaintenanceJobs(repos.TransactionRepo, repos.OutboxRepo, clock.RealClock{}, cfg.OutboxRetention, 0, logger)
	scheduler := workers.NewScheduler(jobs, cfg.MaintenanceSchedule, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error("Failed to start maintenance scheduler", slog.String("schedule", cfg.MaintenanceSchedule), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.HTTPMetrics())
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", slog.String("port", cfg.Port), slog.String("store", string(cfg.StoreDriver)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		logger.Error("Server failed", slog.String("error", err.Error()))
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	<-scheduler.Stop().Done()
	<-dispatcherDone
	logger.Info("Server stopped")
}

// setupRepositories opens the configured store. The returned func releases it.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("Using in-memory store; data is lost on restart")
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.StoreTimeout)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool, logger) }, nil
}

// setupPublisher connects to RabbitMQ. Without a configured broker events are
// logged and marked delivered.
func setupPublisher(cfg *config.Config, logger *slog.Logger) (messaging.Publisher, error) {
	if cfg.RabbitMQURL == "" {
		return messaging.NewLogPublisher(logger), nil
	}
	publisher, err := messaging.NewAMQPPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to RabbitMQ", slog.String("exchange", cfg.EventsExchange))
	return publisher, nil
}
