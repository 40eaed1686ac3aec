package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/ammerola/stockledger/internal/adapters/redis_adapter"
	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/core/services"
	"github.com/ammerola/stockledger/test/helpers"
	"github.com/ammerola/stockledger/test/mocks"
)

func TestAggregate(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	main := helpers.CreateTestWarehouse(func(w *domain.Warehouse) { w.Code = "MAIN" })

	bolts := helpers.CreateTestItem(func(i *domain.Item) {
		i.SKU = "B-1"
		i.Stock.Quantity = dec(100)
		i.Stock.MinStockLevel = dec(10)
		i.Pricing.CostPrice = dec(2)
		i.Pricing.SalePrice = dec(3)
		i.WarehouseID = &main.ID
	})
	nuts := helpers.CreateTestItem(func(i *domain.Item) {
		i.SKU = "N-1"
		i.Stock.Quantity = dec(5)
		i.Stock.MinStockLevel = dec(10)
		i.Pricing.CostPrice = dec(1)
		i.Pricing.Currency = domain.CurrencyUSD
		i.WarehouseID = &main.ID
	})
	empty := helpers.CreateTestItem(func(i *domain.Item) {
		i.SKU = "E-1"
		i.Category = domain.CategoryConsumable
	})
	retired := helpers.CreateTestItem(func(i *domain.Item) {
		i.SKU = "R-1"
		i.Status = domain.ItemStatusDiscontinued
	})

	period := []domain.Transaction{
		*helpers.CreateTestTransaction(bolts.ID, func(tx *domain.Transaction) {
			tx.Quantity = dec(100)
			tx.UnitPrice = dec(2)
		}),
		*helpers.CreateTestTransaction(bolts.ID, func(tx *domain.Transaction) {
			tx.Type = domain.TransactionOutbound
			tx.Quantity = dec(-20)
			tx.UnitPrice = dec(3)
		}),
		*helpers.CreateTestTransaction(nuts.ID, func(tx *domain.Transaction) {
			tx.Quantity = dec(7)
			tx.Status = domain.TransactionCancelled
		}),
	}

	stats := services.Aggregate(
		[]domain.Item{*bolts, *nuts, *empty, *retired},
		[]domain.Warehouse{*main},
		period, at)

	assert.Equal(t, at, stats.GeneratedAt)
	assert.Equal(t, 4, stats.TotalItems)
	assert.Equal(t, 3, stats.ActiveItems)
	assert.True(t, stats.TotalQuantity.Equal(dec(105)))
	assert.True(t, stats.StockValue[domain.CurrencyEUR].Equal(dec(200)))
	assert.True(t, stats.StockValue[domain.CurrencyUSD].Equal(dec(5)))
	assert.True(t, stats.SaleValue[domain.CurrencyEUR].Equal(dec(300)))

	require.Len(t, stats.LowStock, 1)
	assert.Equal(t, "N-1", stats.LowStock[0].SKU)
	require.Len(t, stats.OutOfStock, 1)
	assert.Equal(t, "E-1", stats.OutOfStock[0].SKU)

	require.Len(t, stats.ByCategory, 2)
	assert.Equal(t, domain.CategoryComponent, stats.ByCategory[0].Category)
	assert.Equal(t, 3, stats.ByCategory[0].ItemCount)
	assert.Equal(t, domain.CategoryConsumable, stats.ByCategory[1].Category)

	require.Len(t, stats.ByWarehouse, 2)
	assert.Nil(t, stats.ByWarehouse[0].WarehouseID)
	assert.Equal(t, 2, stats.ByWarehouse[0].ItemCount)
	assert.Equal(t, "MAIN", stats.ByWarehouse[1].Code)
	assert.True(t, stats.ByWarehouse[1].Quantity.Equal(dec(105)))

	assert.Equal(t, 3, stats.Transactions.Total)
	assert.Equal(t, 1, stats.Transactions.Cancelled)
	require.Contains(t, stats.Transactions.ByType, domain.TransactionInbound)
	inbound := stats.Transactions.ByType[domain.TransactionInbound]
	assert.Equal(t, 1, inbound.Count)
	assert.True(t, inbound.Quantity.Equal(dec(100)))
	outbound := stats.Transactions.ByType[domain.TransactionOutbound]
	assert.Equal(t, 1, outbound.Count)
	assert.True(t, outbound.Quantity.Equal(dec(20)))
	assert.True(t, outbound.Value[domain.CurrencyEUR].Equal(dec(60)))
}

func TestStatisticsService_GetStatistics(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	logger := helpers.TestLogger()
	svc := services.NewStatisticsService(f.store.Items(), f.store.Warehouses(), f.store.Ledger(), logger)

	parts := f.newItem(t)
	liquid := f.newItem(t, func(i *domain.Item) { i.Category = domain.CategoryConsumable })
	f.receive(t, parts.ID, 30)
	e := f.receive(t, liquid.ID, 8)
	f.issue(t, parts.ID, 25)
	_, err := f.ops.Cancel(ctx, e.ID, "auditor")
	require.NoError(t, err)

	t.Run("all_items", func(t *testing.T) {
		stats, err := svc.GetStatistics(ctx, ports.StatisticsFilter{})
		require.NoError(t, err)
		assert.Equal(t, 2, stats.TotalItems)
		assert.True(t, stats.TotalQuantity.Equal(dec(5)))
		assert.Equal(t, 3, stats.Transactions.Total)
		assert.Equal(t, 1, stats.Transactions.Cancelled)
		require.Len(t, stats.RecentActivity, 3)
		assert.Equal(t, domain.TransactionOutbound, stats.RecentActivity[0].Type)
		require.Len(t, stats.LowStock, 1)
		assert.Equal(t, parts.SKU, stats.LowStock[0].SKU)
		require.Len(t, stats.OutOfStock, 1)
		assert.Equal(t, liquid.SKU, stats.OutOfStock[0].SKU)
	})

	t.Run("category_narrows_activity", func(t *testing.T) {
		stats, err := svc.GetStatistics(ctx, ports.StatisticsFilter{Category: domain.CategoryConsumable, RecentLimit: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalItems)
		assert.Equal(t, 1, stats.Transactions.Total)
		require.Len(t, stats.RecentActivity, 1)
		assert.Equal(t, liquid.ID, stats.RecentActivity[0].ItemID)
	})

	t.Run("period_excludes_older_entries", func(t *testing.T) {
		from := time.Now().UTC().Add(time.Hour)
		stats, err := svc.GetStatistics(ctx, ports.StatisticsFilter{From: &from})
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Transactions.Total)
		assert.Empty(t, stats.RecentActivity)
		assert.Equal(t, 2, stats.TotalItems)
	})

	t.Run("inverted_period_is_rejected", func(t *testing.T) {
		from := time.Now()
		to := from.Add(-time.Hour)
		_, err := svc.GetStatistics(ctx, ports.StatisticsFilter{From: &from, To: &to})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestCachedStatistics(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	next := mocks.NewMockStatisticsService(ctrl)
	logger := helpers.TestLogger()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	cache := redis_a.NewCache(client, time.Minute, logger)
	cached := services.NewCachedStatistics(next, cache, time.Minute, logger)

	warehouseID := uuid.New()
	filter := ports.StatisticsFilter{WarehouseID: &warehouseID}
	computed := &ports.Statistics{
		TotalItems:    3,
		TotalQuantity: decimal.NewFromInt(12),
		StockValue:    ports.CurrencyAmounts{domain.CurrencyEUR: decimal.NewFromInt(40)},
	}
	next.EXPECT().GetStatistics(gomock.Any(), filter).Return(computed, nil).Times(1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats, err := cached.GetStatistics(ctx, filter)
			assert.NoError(t, err)
			assert.Equal(t, 3, stats.TotalItems)
		}()
	}
	wg.Wait()

	key := services.StatisticsCacheKey(filter)
	assert.True(t, mr.Exists(key))

	// a stock mutation drops the key and the next read recomputes
	manager := redis_a.NewCacheManager(cache, logger)
	require.NoError(t, manager.InvalidateStock(ctx, uuid.New()))
	assert.False(t, mr.Exists(key))

	next.EXPECT().GetStatistics(gomock.Any(), filter).Return(computed, nil).Times(1)
	stats, err := cached.GetStatistics(ctx, filter)
	require.NoError(t, err)
	assert.True(t, stats.StockValue[domain.CurrencyEUR].Equal(decimal.NewFromInt(40)))
}

func TestStatisticsCacheKey(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "stats:||||0", services.StatisticsCacheKey(ports.StatisticsFilter{}))
	assert.Equal(t, "stats:2026-01-01T00:00:00Z|||consumable|5",
		services.StatisticsCacheKey(ports.StatisticsFilter{From: &from, Category: domain.CategoryConsumable, RecentLimit: 5}))
}
