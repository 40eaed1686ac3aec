// test/helpers/fixtures.go
package helpers

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
)

// CreateTestItem creates a valid item with zero stock
func CreateTestItem(opts ...func(*domain.Item)) *domain.Item {
	now := time.Now().UTC()
	item := &domain.Item{
		ID:          uuid.New(),
		SKU:         fmt.Sprintf("SKU-%s", uuid.NewString()[:8]),
		Name:        "Hex bolt M8",
		Description: "Zinc plated hex bolt",
		Category:    domain.CategoryComponent,
		Ownership:   domain.OwnershipOwn,
		Stock: domain.StockInfo{
			Quantity:      decimal.Zero,
			Reserved:      decimal.Zero,
			MinStockLevel: decimal.NewFromInt(10),
			Unit:          domain.DefaultUnit,
		},
		Pricing: domain.Pricing{
			CostPrice: decimal.NewFromFloat(1.25),
			SalePrice: decimal.NewFromFloat(2.10),
			Currency:  domain.CurrencyEUR,
		},
		Status:    domain.ItemStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(item)
	}
	return item
}

// CreateTestWarehouse creates an active warehouse
func CreateTestWarehouse(opts ...func(*domain.Warehouse)) *domain.Warehouse {
	now := time.Now().UTC()
	w := &domain.Warehouse{
		ID:        uuid.New(),
		Code:      fmt.Sprintf("WH-%s", uuid.NewString()[:4]),
		Name:      "Main warehouse",
		Address:   "Industrijska 12, Novi Sad",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// CreateTestSupplier creates an active supplier
func CreateTestSupplier(opts ...func(*domain.Supplier)) *domain.Supplier {
	now := time.Now().UTC()
	s := &domain.Supplier{
		ID:           uuid.New(),
		Code:         fmt.Sprintf("SUP-%s", uuid.NewString()[:4]),
		Name:         "Fasteners d.o.o.",
		ContactEmail: "orders@fasteners.example",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTestTransaction creates a completed inbound entry for item
func CreateTestTransaction(itemID uuid.UUID, opts ...func(*domain.Transaction)) *domain.Transaction {
	qty := decimal.NewFromInt(10)
	t := &domain.Transaction{
		ID:            uuid.New(),
		Type:          domain.TransactionInbound,
		Subtype:       domain.SubtypePurchase,
		ItemID:        itemID,
		Item:          domain.ItemSnapshot{Name: "Hex bolt M8", SKU: "SKU-TEST", Unit: domain.DefaultUnit},
		Quantity:      qty,
		PreviousStock: decimal.Zero,
		NewStock:      qty,
		UnitPrice:     decimal.NewFromFloat(1.25),
		Currency:      domain.CurrencyEUR,
		Status:        domain.TransactionCompleted,
		CreatedAt:     time.Now().UTC(),
		CreatedBy:     "tester",
	}
	for _, opt := range opts {
		opt(t)
	}
	t.ComputeTotalValue()
	return t
}

// CreateLegacyRecords returns count importable legacy rows with distinct SKUs
func CreateLegacyRecords(count int, warehouseCode string) []ports.LegacyRecord {
	out := make([]ports.LegacyRecord, 0, count)
	for i := 1; i <= count; i++ {
		out = append(out, ports.LegacyRecord{
			SKU:           fmt.Sprintf("LEG-%04d", i),
			Name:          fmt.Sprintf("Legacy item %d", i),
			Category:      string(domain.CategoryConsumable),
			Unit:          "kg",
			Quantity:      decimal.NewFromInt(int64(i * 10)),
			MinStockLevel: decimal.NewFromInt(5),
			CostPrice:     decimal.NewFromFloat(3.5),
			SalePrice:     decimal.NewFromFloat(5),
			Currency:      "EUR",
			WarehouseCode: warehouseCode,
		})
	}
	return out
}
