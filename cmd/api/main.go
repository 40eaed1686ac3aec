// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	redis_a "github.com/ammerola/stockledger/internal/adapters/redis_adapter"
	"github.com/ammerola/stockledger/internal/adapters/storage"
	"github.com/ammerola/stockledger/internal/app"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/handlers"
	"github.com/ammerola/stockledger/internal/handlers/middleware"
	"github.com/ammerola/stockledger/internal/pkg/config"
	"github.com/ammerola/stockledger/internal/pkg/logger"
	"github.com/ammerola/stockledger/internal/workers"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

const jobStatusTTL = 7 * 24 * time.Hour

func main() {
	slogger := logger.SetupLogger("info", "json")

	slogger.Info("starting stock ledger API",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
		slog.String("ledger_store", cfg.Ledger.Store),
	)

	ctx := context.Background()

	if err := loadSecrets(ctx, cfg, slogger.Logger); err != nil {
		slogger.Error("failed to load secrets", slog.String("error", err.Error()))
		os.Exit(1)
	}

	deps, err := initializeDependencies(ctx, cfg, slogger.Logger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	server := setupHTTPServer(cfg, deps, slogger.Logger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	ledger         *app.Ledger
	redisClient    *redis.Client
	redisCache     ports.CacheRepository
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
	storage        ports.ObjectStorage
	jobs           *workers.JobStore
}

func (d *dependencies) cleanup() {
	if d.ledger != nil {
		d.ledger.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
}

// loadSecrets overlays credentials from AWS Secrets Manager when configured
func loadSecrets(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.App.SecretsProvider != "aws" {
		return nil
	}
	sm, err := config.NewAWSSecretsManager(ctx, cfg.AWS.Region, cfg.App.SecretName, logger)
	if err != nil {
		return err
	}
	return config.ApplySecrets(ctx, cfg, sm)
}

func newRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:            cfg.GetRedisAddr(),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		PoolTimeout:     cfg.Redis.PoolTimeout,
	})
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	logger.Info("connecting to Redis", slog.String("addr", cfg.GetRedisAddr()))
	redisClient := newRedisClient(cfg)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient
	deps.redisCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, logger)
	deps.jobs = workers.NewJobStore(deps.redisCache, jobStatusTTL)

	ledger, err := app.NewLedger(ctx, cfg, deps.redisCache, logger)
	if err != nil {
		deps.cleanup()
		return nil, err
	}
	deps.ledger = ledger

	objectStorage, err := storage.New(ctx, cfg, logger)
	if err != nil {
		deps.cleanup()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	deps.storage = objectStorage

	logger.Info("initializing Asynq client")
	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	maxFileSize := int64(cfg.Import.MaxSizeMB) * 1024 * 1024

	routes := handlers.Routes{
		Stock:      handlers.NewStockHandler(deps.ledger.Operations, logger),
		Catalog:    handlers.NewCatalogHandler(deps.ledger.Catalog, logger),
		Statistics: handlers.NewStatisticsHandler(deps.ledger.Statistics, deps.asynqClient, deps.jobs, logger),
		Import:     handlers.NewImportHandler(deps.storage, deps.asynqClient, deps.jobs, maxFileSize, cfg.Asynq.RetryMax, logger),
		Export:     handlers.NewExportHandler(deps.ledger.Operations, logger),
	}
	if cfg.Server.EnableHealthCheck {
		var database ports.Database
		if deps.ledger.Database != nil {
			database = deps.ledger.Database
		}
		routes.Health = handlers.NewHealthHandler(database, deps.redisClient, deps.asynqInspector, cfg, logger)
	}
	if cfg.Ledger.ResetEnabled && !cfg.IsProduction() {
		routes.Admin = handlers.NewAdminHandler(deps.ledger.Migration, logger)
	}
	routes.Register(mux)

	// first listed runs outermost
	mws := []func(http.Handler) http.Handler{
		middleware.Recovery(logger),
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Actor(cfg.Security.ActorHeader),
		middleware.Logger(logger),
	}
	if cfg.Server.RequestTimeout > 0 {
		mws = append(mws, middleware.Timeout(cfg.Server.RequestTimeout))
	}
	if cfg.Security.RateLimitRequests > 0 {
		mws = append(mws, middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration))
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		mws = append(mws, middleware.CORS(cfg.Security.AllowedOrigins))
	}
	if cfg.Security.SecureHeaders {
		mws = append(mws, middleware.SecureHeaders)
	}

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        middleware.Chain(mux, mws...),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}
