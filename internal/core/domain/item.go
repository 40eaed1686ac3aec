// internal/core/domain/item.go
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemCategory represents item categories
type ItemCategory string

// Category constants
const (
	CategoryRawMaterial  ItemCategory = "raw_material"
	CategoryComponent    ItemCategory = "component"
	CategoryFinishedGood ItemCategory = "finished_good"
	CategoryConsumable   ItemCategory = "consumable"
	CategoryPackaging    ItemCategory = "packaging"
	CategorySparePart    ItemCategory = "spare_part"
	CategoryMerchandise  ItemCategory = "merchandise"
	CategoryOther        ItemCategory = "other"
)

var validCategories = map[ItemCategory]bool{
	CategoryRawMaterial:  true,
	CategoryComponent:    true,
	CategoryFinishedGood: true,
	CategoryConsumable:   true,
	CategoryPackaging:    true,
	CategorySparePart:    true,
	CategoryMerchandise:  true,
	CategoryOther:        true,
}

// IsValid reports whether c is a known category
func (c ItemCategory) IsValid() bool { return validCategories[c] }

// Ownership tells whether the stock belongs to us or is held for a customer
type Ownership string

const (
	OwnershipOwn      Ownership = "own"
	OwnershipCustomer Ownership = "customer"
)

// ItemStatus represents the lifecycle status of an item
type ItemStatus string

const (
	ItemStatusActive       ItemStatus = "active"
	ItemStatusInactive     ItemStatus = "inactive"
	ItemStatusDiscontinued ItemStatus = "discontinued"
)

// IsValid reports whether s is a known status
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusActive, ItemStatusInactive, ItemStatusDiscontinued:
		return true
	}
	return false
}

// Currency is an ISO 4217 code from the supported set
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyCHF Currency = "CHF"
	CurrencyRSD Currency = "RSD"
)

// DefaultCurrency is applied when an item or transaction does not name one
const DefaultCurrency = CurrencyEUR

// DefaultUnit is the unit of measure applied when none is given
const DefaultUnit = "pcs"

// ParseCurrency normalizes and validates a currency code
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if c == "" {
		return DefaultCurrency, nil
	}
	if !c.IsValid() {
		return "", invalidArg("unsupported currency %q", s)
	}
	return c, nil
}

// IsValid reports whether c is a supported currency
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyEUR, CurrencyUSD, CurrencyGBP, CurrencyCHF, CurrencyRSD:
		return true
	}
	return false
}

// StockInfo holds the cached stock position of an item.
// Quantity is owned by the stock ledger and never written by catalog edits.
type StockInfo struct {
	Quantity      decimal.Decimal `json:"quantity"`
	Reserved      decimal.Decimal `json:"reserved"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	Unit          string          `json:"unit"`
}

// Available returns quantity not held by reservations
func (s StockInfo) Available() decimal.Decimal {
	a := s.Quantity.Sub(s.Reserved)
	if a.IsNegative() {
		return decimal.Zero
	}
	return a
}

// Pricing holds unit prices for valuation
type Pricing struct {
	CostPrice decimal.Decimal `json:"cost_price"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Currency  Currency        `json:"currency"`
}

// Tracking holds optional lot/serial tracking
type Tracking struct {
	LotTracked    bool   `json:"lot_tracked"`
	SerialTracked bool   `json:"serial_tracked"`
	LotNumber     string `json:"lot_number,omitempty"`
	SerialNumber  string `json:"serial_number,omitempty"`
}

// Item is a stock keeping unit
type Item struct {
	ID          uuid.UUID    `json:"id"`
	SKU         string       `json:"sku"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Category    ItemCategory `json:"category"`
	Ownership   Ownership    `json:"ownership"`
	CustomerID  *uuid.UUID   `json:"customer_id,omitempty"`
	Stock       StockInfo    `json:"stock"`
	Pricing     Pricing      `json:"pricing"`
	WarehouseID *uuid.UUID   `json:"warehouse_id,omitempty"`
	SupplierID  *uuid.UUID   `json:"supplier_id,omitempty"`
	Tracking    Tracking     `json:"tracking"`
	Status      ItemStatus   `json:"status"`
	Version     int64        `json:"version"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Validate performs domain validation on the item and fills defaults
func (i *Item) Validate() error {
	i.SKU = strings.TrimSpace(i.SKU)
	if i.SKU == "" {
		return invalidArg("sku is required")
	}
	if strings.TrimSpace(i.Name) == "" {
		return invalidArg("name is required")
	}
	if i.Category == "" {
		i.Category = CategoryOther
	}
	if !i.Category.IsValid() {
		return invalidArg("unknown category %q", i.Category)
	}
	if i.Ownership == "" {
		i.Ownership = OwnershipOwn
	}
	switch i.Ownership {
	case OwnershipOwn:
	case OwnershipCustomer:
		if i.CustomerID == nil || *i.CustomerID == uuid.Nil {
			return invalidArg("customer_id is required for customer owned items")
		}
	default:
		return invalidArg("unknown ownership %q", i.Ownership)
	}
	if i.Status == "" {
		i.Status = ItemStatusActive
	}
	if !i.Status.IsValid() {
		return invalidArg("unknown status %q", i.Status)
	}
	if i.Stock.Unit == "" {
		i.Stock.Unit = DefaultUnit
	}
	if i.Stock.Quantity.IsNegative() {
		return invalidArg("stock quantity cannot be negative")
	}
	if i.Stock.Reserved.IsNegative() {
		return invalidArg("reserved quantity cannot be negative")
	}
	if i.Stock.Reserved.GreaterThan(i.Stock.Quantity) {
		return invalidArg("reserved quantity cannot exceed stock quantity")
	}
	if i.Stock.MinStockLevel.IsNegative() {
		return invalidArg("min_stock_level cannot be negative")
	}
	if i.Pricing.CostPrice.IsNegative() || i.Pricing.SalePrice.IsNegative() {
		return invalidArg("prices cannot be negative")
	}
	if i.Pricing.Currency == "" {
		i.Pricing.Currency = DefaultCurrency
	}
	if !i.Pricing.Currency.IsValid() {
		return invalidArg("unsupported currency %q", i.Pricing.Currency)
	}
	return nil
}

// PrepareForStorage assigns identity and timestamps
func (i *Item) PrepareForStorage() {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	now := time.Now().UTC()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	i.UpdatedAt = now
}

// Snapshot returns the denormalized copy stored on ledger entries
func (i *Item) Snapshot() ItemSnapshot {
	return ItemSnapshot{Name: i.Name, SKU: i.SKU, Unit: i.Stock.Unit}
}

// IsLowStock reports 0 < quantity <= min stock level
func (i *Item) IsLowStock() bool {
	return i.Stock.Quantity.IsPositive() && i.Stock.Quantity.LessThanOrEqual(i.Stock.MinStockLevel)
}

// IsOutOfStock reports quantity == 0
func (i *Item) IsOutOfStock() bool {
	return i.Stock.Quantity.IsZero()
}

// StockValue is quantity times cost price
func (i *Item) StockValue() decimal.Decimal {
	return i.Stock.Quantity.Mul(i.Pricing.CostPrice)
}

// AcceptsMovements reports whether receive/issue may post against the item
func (i *Item) AcceptsMovements() bool {
	return i.Status == ItemStatusActive
}
