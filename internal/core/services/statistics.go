// internal/core/services/statistics.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const defaultRecentLimit = 20

// StatisticsService derives read-only aggregates from the catalog and ledger
type StatisticsService struct {
	items      ports.ItemRepository
	warehouses ports.WarehouseRepository
	ledger     ports.LedgerRepository
	now        func() time.Time
	logger     *slog.Logger
}

// Statically assert that *StatisticsService implements the StatisticsService interface.
var _ ports.StatisticsService = (*StatisticsService)(nil)

// NewStatisticsService creates a new statistics service
func NewStatisticsService(
	items ports.ItemRepository,
	warehouses ports.WarehouseRepository,
	ledger ports.LedgerRepository,
	logger *slog.Logger,
) *StatisticsService {
	return &StatisticsService{
		items:      items,
		warehouses: warehouses,
		ledger:     ledger,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger.With(slog.String("service", "statistics")),
	}
}

// GetStatistics loads items, warehouses and the period's transactions
// concurrently and aggregates them
func (s *StatisticsService) GetStatistics(ctx context.Context, filter ports.StatisticsFilter) (*ports.Statistics, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.InvalidArgument("to must not be before from")
	}
	if filter.RecentLimit <= 0 {
		filter.RecentLimit = defaultRecentLimit
	}

	var (
		items      []domain.Item
		warehouses []domain.Warehouse
		period     []domain.Transaction
		recent     []domain.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, _, err = s.items.List(gctx, ports.ItemFilter{
			Category:    filter.Category,
			WarehouseID: filter.WarehouseID,
		})
		if err != nil {
			return fmt.Errorf("failed to load items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		warehouses, err = s.warehouses.List(gctx, false)
		if err != nil {
			return fmt.Errorf("failed to load warehouses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		period, _, err = s.ledger.List(gctx, ports.TransactionFilter{
			WarehouseID: filter.WarehouseID,
			From:        filter.From,
			To:          filter.To,
		})
		if err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		limit := filter.RecentLimit
		if filter.Category != "" {
			// category narrowing happens after the load
			limit = 0
		}
		recent, _, err = s.ledger.List(gctx, ports.TransactionFilter{
			WarehouseID: filter.WarehouseID,
			From:        filter.From,
			To:          filter.To,
			Newest:      true,
			Limit:       limit,
		})
		if err != nil {
			return fmt.Errorf("failed to load recent activity: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := Aggregate(items, warehouses, period, s.now())

	scope := make(map[uuid.UUID]bool, len(items))
	for i := range items {
		scope[items[i].ID] = true
	}
	if filter.Category != "" {
		stats.Transactions = aggregateTransactions(inScope(period, scope))
		recent = inScope(recent, scope)
	}
	if len(recent) > filter.RecentLimit {
		recent = recent[:filter.RecentLimit]
	}
	if recent != nil {
		stats.RecentActivity = recent
	}

	s.logger.DebugContext(ctx, "statistics computed",
		slog.Int("items", stats.TotalItems),
		slog.Int("transactions", stats.Transactions.Total))
	return stats, nil
}

func inScope(entries []domain.Transaction, scope map[uuid.UUID]bool) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(entries))
	for _, e := range entries {
		if scope[e.ItemID] {
			out = append(out, e)
		}
	}
	return out
}

// Aggregate is the pure derivation behind GetStatistics
func Aggregate(items []domain.Item, warehouses []domain.Warehouse, period []domain.Transaction, at time.Time) *ports.Statistics {
	stats := &ports.Statistics{
		GeneratedAt:    at,
		TotalItems:     len(items),
		TotalQuantity:  decimal.Zero,
		StockValue:     ports.CurrencyAmounts{},
		SaleValue:      ports.CurrencyAmounts{},
		LowStock:       []ports.StockAlert{},
		OutOfStock:     []ports.StockAlert{},
		RecentActivity: []domain.Transaction{},
	}

	byID := make(map[uuid.UUID]domain.Warehouse, len(warehouses))
	for _, w := range warehouses {
		byID[w.ID] = w
	}
	categories := make(map[domain.ItemCategory]*ports.CategoryStats)
	locations := make(map[uuid.UUID]*ports.WarehouseStats)

	for i := range items {
		item := &items[i]
		if item.Status == domain.ItemStatusActive {
			stats.ActiveItems++
		}
		currency := item.Pricing.Currency
		value := item.StockValue()

		stats.TotalQuantity = stats.TotalQuantity.Add(item.Stock.Quantity)
		stats.StockValue.Add(currency, value)
		stats.SaleValue.Add(currency, item.Stock.Quantity.Mul(item.Pricing.SalePrice))

		if item.Status != domain.ItemStatusDiscontinued {
			switch {
			case item.IsOutOfStock():
				stats.OutOfStock = append(stats.OutOfStock, alertFor(item))
			case item.IsLowStock():
				stats.LowStock = append(stats.LowStock, alertFor(item))
			}
		}

		cs, ok := categories[item.Category]
		if !ok {
			cs = &ports.CategoryStats{Category: item.Category, Quantity: decimal.Zero, Value: ports.CurrencyAmounts{}}
			categories[item.Category] = cs
		}
		cs.ItemCount++
		cs.Quantity = cs.Quantity.Add(item.Stock.Quantity)
		cs.Value.Add(currency, value)

		key := uuid.Nil
		if item.WarehouseID != nil {
			key = *item.WarehouseID
		}
		ws, ok := locations[key]
		if !ok {
			ws = &ports.WarehouseStats{Quantity: decimal.Zero, Value: ports.CurrencyAmounts{}}
			if key != uuid.Nil {
				id := key
				ws.WarehouseID = &id
				if w, known := byID[key]; known {
					ws.Code = w.Code
					ws.Name = w.Name
				}
			}
			locations[key] = ws
		}
		ws.ItemCount++
		ws.Quantity = ws.Quantity.Add(item.Stock.Quantity)
		ws.Value.Add(currency, value)
	}

	for _, cs := range categories {
		stats.ByCategory = append(stats.ByCategory, *cs)
	}
	sort.Slice(stats.ByCategory, func(i, j int) bool { return stats.ByCategory[i].Category < stats.ByCategory[j].Category })
	for _, ws := range locations {
		stats.ByWarehouse = append(stats.ByWarehouse, *ws)
	}
	sort.Slice(stats.ByWarehouse, func(i, j int) bool { return stats.ByWarehouse[i].Code < stats.ByWarehouse[j].Code })
	sort.Slice(stats.LowStock, func(i, j int) bool { return stats.LowStock[i].SKU < stats.LowStock[j].SKU })
	sort.Slice(stats.OutOfStock, func(i, j int) bool { return stats.OutOfStock[i].SKU < stats.OutOfStock[j].SKU })

	stats.Transactions = aggregateTransactions(period)
	return stats
}

func aggregateTransactions(entries []domain.Transaction) ports.TransactionStats {
	ts := ports.TransactionStats{ByType: make(map[domain.TransactionType]*ports.TypeStats)}
	for i := range entries {
		e := &entries[i]
		ts.Total++
		if !e.IsActive() {
			ts.Cancelled++
			continue
		}
		t, ok := ts.ByType[e.Type]
		if !ok {
			t = &ports.TypeStats{Quantity: decimal.Zero, Value: ports.CurrencyAmounts{}}
			ts.ByType[e.Type] = t
		}
		t.Count++
		t.Quantity = t.Quantity.Add(e.Quantity.Abs())
		t.Value.Add(e.Currency, e.TotalValue)
	}
	return ts
}

func alertFor(item *domain.Item) ports.StockAlert {
	return ports.StockAlert{
		ItemID:        item.ID,
		SKU:           item.SKU,
		Name:          item.Name,
		Quantity:      item.Stock.Quantity,
		MinStockLevel: item.Stock.MinStockLevel,
		Unit:          item.Stock.Unit,
		WarehouseID:   item.WarehouseID,
	}
}
