// internal/adapters/db/postgres.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
)

const (
	statementCacheCapacity = 512
	healthProbeTimeout     = 2 * time.Second
)

// Config is the connection and pool tuning for the ledger database
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string

	MaxConnections    int32
	MinConnections    int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	ConnectTimeout    time.Duration

	// StatementCacheMode is one of describe, prepare, exec or simple
	StatementCacheMode string
	EnableQueryLogging bool
}

// DefaultConfig matches the local docker-compose database
func DefaultConfig() *Config {
	return &Config{
		Host:               "localhost",
		Port:               "5432",
		User:               "stockledger",
		Password:           "stockledger_dev",
		Database:           "stockledger",
		SSLMode:            "disable",
		MaxConnections:     25,
		MinConnections:     5,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    30 * time.Minute,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     10 * time.Second,
		StatementCacheMode: "describe",
	}
}

// Database owns the pgx pool shared by every repository and the unit of work
type Database struct {
	pool   *pgxpool.Pool
	config *Config
	logger *slog.Logger
}

// NewDatabase opens the pool and fails fast when the server is unreachable
func NewDatabase(ctx context.Context, config *Config, logger *slog.Logger) (*Database, error) {
	if config == nil {
		config = DefaultConfig()
	}

	poolConfig, err := buildPoolConfig(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build pool config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("ledger database connected",
		slog.String("host", config.Host),
		slog.String("database", config.Database),
		slog.Int("max_connections", int(config.MaxConnections)),
		slog.String("exec_mode", poolConfig.ConnConfig.DefaultQueryExecMode.String()))

	return &Database{pool: pool, config: config, logger: logger}, nil
}

// queryExecMode maps DB_STATEMENT_CACHE_MODE onto pgx. Empty means describe.
func queryExecMode(mode string) (pgx.QueryExecMode, error) {
	switch mode {
	case "", "describe":
		return pgx.QueryExecModeCacheDescribe, nil
	case "prepare":
		return pgx.QueryExecModeCacheStatement, nil
	case "exec":
		return pgx.QueryExecModeExec, nil
	case "simple":
		return pgx.QueryExecModeSimpleProtocol, nil
	}
	return 0, fmt.Errorf("unknown statement cache mode %q", mode)
}

func buildPoolConfig(config *Config, logger *slog.Logger) (*pgxpool.Config, error) {
	mode, err := queryExecMode(config.StatementCacheMode)
	if err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		config.Host, config.Port, config.User, config.Password,
		config.Database, config.SSLMode, int(config.ConnectTimeout.Seconds()),
	)
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	poolConfig.MaxConns = config.MaxConnections
	poolConfig.MinConns = config.MinConnections
	poolConfig.MaxConnLifetime = config.MaxConnLifetime
	poolConfig.MaxConnIdleTime = config.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = config.HealthCheckPeriod

	poolConfig.ConnConfig.DefaultQueryExecMode = mode
	poolConfig.ConnConfig.StatementCacheCapacity = statementCacheCapacity

	if config.EnableQueryLogging {
		poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   newPgxLogger(logger),
			LogLevel: tracelog.LogLevelDebug,
		}
	}

	// quantities and prices are NUMERIC; scan them straight into decimal.Decimal
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	return poolConfig, nil
}

// Pool exposes the pool to the migrator and integration tests
func (db *Database) Pool() *pgxpool.Pool {
	return db.pool
}

func (db *Database) Close() {
	db.pool.Close()
	db.logger.Info("ledger database closed")
}

func (db *Database) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Health reports pool usage and the last issued transaction number.
// The sequence read doubles as the liveness query.
func (db *Database) Health(ctx context.Context) map[string]interface{} {
	stats := db.pool.Stat()
	details := map[string]interface{}{
		"status":           "healthy",
		"pool_total":       stats.TotalConns(),
		"pool_idle":        stats.IdleConns(),
		"pool_acquired":    stats.AcquiredConns(),
		"pool_max":         stats.MaxConns(),
		"acquire_waits":    stats.EmptyAcquireCount(),
		"lifetime_retired": stats.MaxLifetimeDestroyCount(),
	}

	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	start := time.Now()
	var (
		last   int64
		called bool
	)
	err := db.pool.QueryRow(ctx, `SELECT last_value, is_called FROM transaction_number_seq`).Scan(&last, &called)
	details["latency_ms"] = time.Since(start).Milliseconds()
	if err != nil {
		details["status"] = "unhealthy"
		details["error"] = err.Error()
		return details
	}
	if !called {
		last = 0
	}
	details["last_transaction_number"] = last
	return details
}

// Transaction runs fn in a read committed transaction. Row locks taken by fn
// serialize writers of the same item; fn's error rolls everything back.
func (db *Database) Transaction(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", mapError(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx failed: %v, rollback failed: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", mapError(err))
	}
	return nil
}

func (db *Database) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return db.pool.Query(ctx, sql, args...)
}

func (db *Database) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return db.pool.QueryRow(ctx, sql, args...)
}

func (db *Database) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return db.pool.Exec(ctx, sql, args...)
}

// pgxLogger forwards tracelog output to slog under component=pgx
type pgxLogger struct {
	logger *slog.Logger
}

func newPgxLogger(logger *slog.Logger) *pgxLogger {
	return &pgxLogger{logger: logger.With(slog.String("component", "pgx"))}
}

var pgxLevels = map[tracelog.LogLevel]slog.Level{
	tracelog.LogLevelError: slog.LevelError,
	tracelog.LogLevelWarn:  slog.LevelWarn,
	tracelog.LogLevelInfo:  slog.LevelInfo,
}

func (l *pgxLogger) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]interface{}) {
	attrs := make([]slog.Attr, 0, len(data))
	for k, v := range data {
		attrs = append(attrs, slog.Any(k, v))
	}
	lvl, ok := pgxLevels[level]
	if !ok {
		lvl = slog.LevelDebug
	}
	l.logger.LogAttrs(ctx, lvl, msg, attrs...)
}

// ScanOne scans a single row; a missing row yields nil, nil
func ScanOne[T any](row pgx.Row, scanner func(pgx.Row) (*T, error)) (*T, error) {
	entity, err := scanner(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return entity, err
}

// ScanMany scans every row and closes rows
func ScanMany[T any](rows pgx.Rows, scanner func(pgx.Row) (*T, error)) ([]T, error) {
	defer rows.Close()

	results := make([]T, 0)
	for rows.Next() {
		entity, err := scanner(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *entity)
	}
	return results, rows.Err()
}
