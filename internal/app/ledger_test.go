package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/ammerola/stockledger/internal/adapters/redis_adapter"
	"github.com/ammerola/stockledger/internal/app"
	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/core/services"
	"github.com/ammerola/stockledger/test/helpers"
)

func TestNewLedger_MemoryStore(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	cfg.Ledger.Store = app.StoreMemory

	ledger, err := app.NewLedger(context.Background(), cfg, nil, helpers.TestLogger())
	require.NoError(t, err)
	defer ledger.Close()

	assert.Nil(t, ledger.Database)
	_, cached := ledger.Statistics.(*services.CachedStatistics)
	assert.False(t, cached)

	ctx := context.Background()
	warehouse := &domain.Warehouse{Code: "MAIN", Name: "Main"}
	require.NoError(t, ledger.Catalog.CreateWarehouse(ctx, warehouse))
	item := &domain.Item{SKU: "A-1", Name: "Widget"}
	require.NoError(t, ledger.Catalog.CreateItem(ctx, item))

	_, err = ledger.Operations.Receive(ctx, ports.MovementRequest{ItemID: item.ID, Quantity: decimal.NewFromInt(3)})
	require.NoError(t, err)

	stats, err := ledger.Statistics.GetStatistics(ctx, ports.StatisticsFilter{})
	require.NoError(t, err)
	assert.True(t, stats.TotalQuantity.Equal(decimal.NewFromInt(3)))
}

func TestNewLedger_CachesStatisticsWhenRedisIsAvailable(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	cfg.Ledger.Store = app.StoreMemory
	cfg.Ledger.StatisticsCacheTTL = time.Minute

	rdb := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(rdb.Client, time.Minute, helpers.TestLogger())

	ledger, err := app.NewLedger(context.Background(), cfg, cache, helpers.TestLogger())
	require.NoError(t, err)

	_, cached := ledger.Statistics.(*services.CachedStatistics)
	assert.True(t, cached)
}

func TestNewLedger_UnknownStore(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	cfg.Ledger.Store = "sqlite"

	_, err := app.NewLedger(context.Background(), cfg, nil, helpers.TestLogger())
	assert.ErrorContains(t, err, "unknown ledger store")
}

func TestDatabaseConfig(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	dbCfg := app.DatabaseConfig(cfg)

	assert.Equal(t, cfg.Database.Host, dbCfg.Host)
	assert.Equal(t, cfg.Database.Name, dbCfg.Database)
	assert.Equal(t, cfg.Database.MaxConnections, dbCfg.MaxConnections)
	assert.Equal(t, cfg.GetDatabaseURL(), app.MigrationConfig(cfg).DatabaseURL)
}
