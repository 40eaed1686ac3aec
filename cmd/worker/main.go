// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	redis_a "github.com/ammerola/stockledger/internal/adapters/redis_adapter"
	"github.com/ammerola/stockledger/internal/adapters/storage"
	"github.com/ammerola/stockledger/internal/app"
	"github.com/ammerola/stockledger/internal/pkg/config"
	"github.com/ammerola/stockledger/internal/pkg/logger"
	"github.com/ammerola/stockledger/internal/workers"
)

const (
	jobStatusTTL         = 7 * 24 * time.Hour
	reconcileConcurrency = 4
)

func main() {
	slogger := logger.SetupLogger("info", "json")

	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	log := slogger.Logger
	log.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr),
		slog.String("ledger_store", cfg.Ledger.Store))

	if cfg.Ledger.Store == app.StoreMemory {
		log.Warn("worker is using the in-memory store; it does not share data with the API process")
	}

	ctx := context.Background()

	if cfg.App.SecretsProvider == "aws" {
		sm, err := config.NewAWSSecretsManager(ctx, cfg.AWS.Region, cfg.App.SecretName, log)
		if err == nil {
			err = config.ApplySecrets(ctx, cfg, sm)
		}
		if err != nil {
			log.Error("failed to load secrets", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	defer redisClient.Close()
	cache := redis_a.NewCache(redisClient, cfg.Redis.TTL, log)
	jobs := workers.NewJobStore(cache, jobStatusTTL)

	// the worker needs fewer connections than the API
	cfg.Database.MaxConnections = 10
	cfg.Database.MinConnections = 2

	ledger, err := app.NewLedger(ctx, cfg, cache, log)
	if err != nil {
		log.Error("failed to initialize ledger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer ledger.Close()

	objectStorage, err := storage.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     cfg.Asynq.Concurrency,
			Queues:          cfg.Asynq.Queues,
			StrictPriority:  cfg.Asynq.StrictPriority,
			ErrorHandler:    asynq.ErrorHandlerFunc(handleError),
			RetryDelayFunc:  exponentialBackoff,
			ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
			HealthCheckFunc: healthCheck,
			Logger:          newAsynqLogger(log),
		},
	)

	mux := asynq.NewServeMux()
	mux.Use(taskContext)

	importProcessor := workers.NewImportProcessor(objectStorage, ledger.Migration, jobs, cfg.Import.ProcessingTimeout, log)
	mux.HandleFunc(workers.TypeLegacyImport, importProcessor.ProcessImport)

	reportProcessor := workers.NewReportProcessor(ledger.Statistics, objectStorage, jobs, log)
	mux.HandleFunc(workers.TypeStatisticsReport, reportProcessor.GenerateStatisticsReport)

	reconcileProcessor := workers.NewReconcileProcessor(ledger.Catalog, ledger.Operations, cache, reconcileConcurrency, log)
	mux.HandleFunc(workers.TypeReconcileAll, reconcileProcessor.ReconcileAll)

	cleanupProcessor := workers.NewCleanupProcessor(objectStorage, cfg.Storage.RetainFor, log)
	mux.HandleFunc(workers.TypeCleanupStorage, cleanupProcessor.CleanupStorage)

	scheduler, err := newScheduler(redisOpt, cfg, log)
	if err != nil {
		log.Error("failed to register periodic tasks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(mux); err != nil {
			log.Error("failed to run worker server", slog.String("error", err.Error()))
			shutdown <- syscall.SIGTERM
		}
	}()
	go func() {
		if err := scheduler.Run(); err != nil {
			log.Error("failed to run scheduler", slog.String("error", err.Error()))
		}
	}()

	log.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues))

	sig := <-shutdown
	log.Info("shutdown signal received", slog.String("signal", sig.String()))

	scheduler.Shutdown()
	srv.Shutdown()
	log.Info("worker shutdown complete")
}

// newScheduler registers the nightly reconcile and storage cleanup. An empty cron spec disables a task.
func newScheduler(redisOpt asynq.RedisClientOpt, cfg *config.Config, logger *slog.Logger) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger:   newAsynqLogger(logger),
		Location: time.UTC,
	})

	periodic := []struct {
		spec string
		task *asynq.Task
	}{
		{cfg.Asynq.ReconcileCron, workers.NewReconcileAllTask()},
		{cfg.Asynq.CleanupCron, workers.NewCleanupTask()},
	}
	for _, p := range periodic {
		if p.spec == "" {
			continue
		}
		entryID, err := scheduler.Register(p.spec, p.task)
		if err != nil {
			return nil, fmt.Errorf("failed to schedule %s: %w", p.task.Type(), err)
		}
		logger.Info("periodic task registered",
			slog.String("type", p.task.Type()),
			slog.String("cron", p.spec),
			slog.String("entry_id", entryID))
	}
	return scheduler, nil
}

// taskContext tags every record logged while a task runs with its id and type
func taskContext(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		id, _ := asynq.GetTaskID(ctx)
		return next.ProcessTask(logger.WithTask(ctx, id, t.Type()), t)
	})
}

func handleError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	slog.ErrorContext(ctx, "task processing failed",
		slog.String("type", task.Type()),
		slog.Int("retried", retried),
		slog.Int("max_retry", maxRetry),
		slog.String("error", err.Error()))
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(n))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func healthCheck(err error) {
	if err != nil {
		slog.Error("worker health check failed", slog.String("error", err.Error()))
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
