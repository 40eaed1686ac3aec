// internal/core/ports/reporting_service.go
package ports

import (
	"context"
	"time"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatisticsService derives read-only aggregates over the catalog and ledger
type StatisticsService interface {
	GetStatistics(ctx context.Context, filter StatisticsFilter) (*Statistics, error)
}

// MigrationService imports legacy stock and wipes test environments
type MigrationService interface {
	ImportLegacy(ctx context.Context, records []LegacyRecord, actor string) (*ImportReport, error)
	ResetAll(ctx context.Context, confirmation string) (*ResetCounts, error)
}

// StatisticsFilter bounds the transaction period and the item scope
type StatisticsFilter struct {
	From        *time.Time
	To          *time.Time
	WarehouseID *uuid.UUID
	Category    domain.ItemCategory
	RecentLimit int
}

// CurrencyAmounts maps a currency to a summed amount
type CurrencyAmounts map[domain.Currency]decimal.Decimal

// Add accumulates v under c
func (m CurrencyAmounts) Add(c domain.Currency, v decimal.Decimal) {
	m[c] = m[c].Add(v)
}

// Statistics is the aggregate view returned to callers
type Statistics struct {
	GeneratedAt    time.Time            `json:"generated_at"`
	TotalItems     int                  `json:"total_items"`
	ActiveItems    int                  `json:"active_items"`
	TotalQuantity  decimal.Decimal      `json:"total_quantity"`
	StockValue     CurrencyAmounts      `json:"stock_value"`
	SaleValue      CurrencyAmounts      `json:"sale_value"`
	LowStock       []StockAlert         `json:"low_stock"`
	OutOfStock     []StockAlert         `json:"out_of_stock"`
	ByCategory     []CategoryStats      `json:"by_category"`
	ByWarehouse    []WarehouseStats     `json:"by_warehouse"`
	Transactions   TransactionStats     `json:"transactions"`
	RecentActivity []domain.Transaction `json:"recent_activity"`
}

// StockAlert is an item at or under its minimum level
type StockAlert struct {
	ItemID        uuid.UUID       `json:"item_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Quantity      decimal.Decimal `json:"quantity"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	Unit          string          `json:"unit"`
	WarehouseID   *uuid.UUID      `json:"warehouse_id,omitempty"`
}

// CategoryStats aggregates items of one category
type CategoryStats struct {
	Category  domain.ItemCategory `json:"category"`
	ItemCount int                 `json:"item_count"`
	Quantity  decimal.Decimal     `json:"quantity"`
	Value     CurrencyAmounts     `json:"value"`
}

// WarehouseStats aggregates items held in one warehouse; a nil id collects unassigned items
type WarehouseStats struct {
	WarehouseID *uuid.UUID      `json:"warehouse_id,omitempty"`
	Code        string          `json:"code,omitempty"`
	Name        string          `json:"name,omitempty"`
	ItemCount   int             `json:"item_count"`
	Quantity    decimal.Decimal `json:"quantity"`
	Value       CurrencyAmounts `json:"value"`
}

// TransactionStats summarizes ledger activity over the filter period.
// Cancelled entries are counted separately and excluded from ByType.
type TransactionStats struct {
	Total     int                                   `json:"total"`
	Cancelled int                                   `json:"cancelled"`
	ByType    map[domain.TransactionType]*TypeStats `json:"by_type"`
}

// TypeStats aggregates active entries of one type
type TypeStats struct {
	Count    int             `json:"count"`
	Quantity decimal.Decimal `json:"quantity"`
	Value    CurrencyAmounts `json:"value"`
}

// LegacyRecord is one product row from the legacy collection
type LegacyRecord struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category,omitempty"`
	Unit          string          `json:"unit,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Currency      string          `json:"currency,omitempty"`
	WarehouseCode string          `json:"warehouse_code,omitempty"`
	LotNumber     string          `json:"lot_number,omitempty"`
	SerialNumber  string          `json:"serial_number,omitempty"`
}

// ImportReport summarizes a legacy import run
type ImportReport struct {
	Total   int           `json:"total"`
	Created int           `json:"created"`
	Skipped int           `json:"skipped"`
	Failed  int           `json:"failed"`
	Errors  []ImportError `json:"errors,omitempty"`
}

// ImportError describes one rejected legacy row
type ImportError struct {
	Row     int    `json:"row"`
	SKU     string `json:"sku"`
	Message string `json:"message"`
}
