// test/benchmarks/helpers.go
package benchmarks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/stockledger/internal/adapters/memstore"
	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/core/services"
)

// benchLedger is an in-memory service graph for benchmarks
type benchLedger struct {
	catalog *services.CatalogService
	ops     *services.OperationsService
	stats   *services.StatisticsService
	store   *memstore.Store
}

func newBenchLedger(b *testing.B) *benchLedger {
	b.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New(log)

	ledger := services.NewLedger(store.Ledger(), log)
	projector := services.NewStockProjector(store, store.Ledger(), log)

	l := &benchLedger{
		catalog: services.NewCatalogService(store.Items(), store.Warehouses(), store.Suppliers(), nil, log),
		ops:     services.NewOperationsService(store, store, ledger, projector, log),
		stats:   services.NewStatisticsService(store.Items(), store.Warehouses(), store.Ledger(), log),
		store:   store,
	}

	if err := l.catalog.CreateWarehouse(context.Background(), &domain.Warehouse{Code: "MAIN", Name: "Main"}); err != nil {
		b.Fatal(err)
	}
	return l
}

// seedItems creates n items, each with an opening balance of stock
func (l *benchLedger) seedItems(b *testing.B, n int, stock int64) []*domain.Item {
	b.Helper()
	ctx := context.Background()
	items := make([]*domain.Item, 0, n)
	for i := 0; i < n; i++ {
		item := &domain.Item{
			SKU:      fmt.Sprintf("BENCH-%05d", i),
			Name:     fmt.Sprintf("Benchmark item %d", i),
			Category: domain.CategoryComponent,
			Stock:    domain.StockInfo{MinStockLevel: decimal.NewFromInt(5)},
			Pricing:  domain.Pricing{CostPrice: decimal.NewFromFloat(1.5)},
		}
		if err := l.catalog.CreateItem(ctx, item); err != nil {
			b.Fatal(err)
		}
		if stock > 0 {
			if _, err := l.ops.Receive(ctx, ports.MovementRequest{ItemID: item.ID, Quantity: decimal.NewFromInt(stock)}); err != nil {
				b.Fatal(err)
			}
		}
		items = append(items, item)
	}
	return items
}

// legacyWorkbook builds an import workbook with n distinct SKUs
func legacyWorkbook(b *testing.B, n int) []byte {
	b.Helper()
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		b.Fatal(err)
	}

	header := sheet.AddRow()
	for _, h := range []string{"SKU", "Name", "Quantity", "Unit", "Cost Price", "Warehouse"} {
		header.AddCell().Value = h
	}
	for i := 0; i < n; i++ {
		row := sheet.AddRow()
		for _, v := range []string{
			fmt.Sprintf("LEGACY-%05d", i),
			fmt.Sprintf("Legacy item %d", i),
			fmt.Sprintf("%d", i%50+1),
			"pcs",
			"2.40",
			"MAIN",
		} {
			row.AddCell().Value = v
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		b.Fatal(err)
	}
	return buf.Bytes()
}
