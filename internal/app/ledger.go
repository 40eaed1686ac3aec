// internal/app/ledger.go
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ammerola/stockledger/internal/adapters/db"
	"github.com/ammerola/stockledger/internal/adapters/memstore"
	redis_a "github.com/ammerola/stockledger/internal/adapters/redis_adapter"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/core/services"
	"github.com/ammerola/stockledger/internal/pkg/config"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// ledgerStore is what both store backends provide
type ledgerStore interface {
	ports.UnitOfWork
	ports.CatalogReader
	ports.Resetter
	Items() ports.ItemRepository
	Warehouses() ports.WarehouseRepository
	Suppliers() ports.SupplierRepository
	Ledger() ports.LedgerRepository
}

// Ledger is the wired service graph shared by the API, the worker and the seeder
type Ledger struct {
	Catalog    *services.CatalogService
	Operations *services.OperationsService
	Statistics ports.StatisticsService
	Migration  *services.MigrationService

	// Database is nil when the memory store is selected
	Database *db.Database
}

// Close releases the database pool, if any
func (l *Ledger) Close() {
	if l.Database != nil {
		l.Database.Close()
	}
}

// DatabaseConfig maps application configuration onto the pool configuration
func DatabaseConfig(cfg *config.Config) *db.Config {
	return &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}
}

// MigrationConfig returns the migrator settings for the configured database
func MigrationConfig(cfg *config.Config) *db.MigrationConfig {
	return &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}
}

// NewLedger opens the configured store and wires the services on top of it.
// cache may be nil; without it stock changes are not invalidated and
// statistics are computed on every request.
func NewLedger(ctx context.Context, cfg *config.Config, cache ports.CacheRepository, logger *slog.Logger) (*Ledger, error) {
	l := &Ledger{}

	var store ledgerStore
	switch cfg.Ledger.Store {
	case StoreMemory:
		logger.Warn("using in-memory ledger store; data is lost on restart")
		store = memstore.New(logger)
	case StorePostgres, "":
		logger.Info("connecting to database",
			slog.String("host", cfg.Database.Host),
			slog.String("database", cfg.Database.Name))

		database, err := db.NewDatabase(ctx, DatabaseConfig(cfg), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		l.Database = database

		if cfg.Database.AutoMigrate {
			if err := db.RunMigrationsWithRetry(ctx, MigrationConfig(cfg), logger, 3); err != nil {
				database.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		store = db.NewStore(database, logger, db.WithLockTimeout(cfg.Ledger.LockTimeout))
	default:
		return nil, fmt.Errorf("unknown ledger store %q", cfg.Ledger.Store)
	}

	var invalidator ports.StockCacheInvalidator
	if cache != nil {
		invalidator = redis_a.NewCacheManager(cache, logger)
	}

	ledger := services.NewLedger(store.Ledger(), logger)
	projector := services.NewStockProjector(store, store.Ledger(), logger)

	opts := []services.OperationsOption{
		services.WithRetryPolicy(cfg.Ledger.MaxRetries, cfg.Ledger.RetryBackoff),
	}
	if invalidator != nil {
		opts = append(opts, services.WithCacheInvalidator(invalidator))
	}

	l.Catalog = services.NewCatalogService(store.Items(), store.Warehouses(), store.Suppliers(), invalidator, logger)
	l.Operations = services.NewOperationsService(store, store, ledger, projector, logger, opts...)

	var stats ports.StatisticsService = services.NewStatisticsService(store.Items(), store.Warehouses(), store.Ledger(), logger)
	if cache != nil && cfg.Ledger.StatisticsCacheTTL > 0 {
		stats = services.NewCachedStatistics(stats, cache, cfg.Ledger.StatisticsCacheTTL, logger)
	}
	l.Statistics = stats

	l.Migration = services.NewMigrationService(l.Catalog, l.Operations, store, invalidator, cfg.Ledger.ResetEnabled, logger)

	return l, nil
}
