// internal/core/domain/transaction.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction class of a ledger entry
type TransactionType string

const (
	TransactionInbound    TransactionType = "inbound"
	TransactionOutbound   TransactionType = "outbound"
	TransactionAdjustment TransactionType = "adjustment"
	TransactionTransfer   TransactionType = "transfer"
)

// IsValid reports whether t is a known type
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionInbound, TransactionOutbound, TransactionAdjustment, TransactionTransfer:
		return true
	}
	return false
}

// AcceptsQuantity reports whether a signed quantity is allowed for the type
func (t TransactionType) AcceptsQuantity(q decimal.Decimal) bool {
	if q.IsZero() {
		return false
	}
	switch t {
	case TransactionInbound:
		return q.IsPositive()
	case TransactionOutbound:
		return q.IsNegative()
	}
	return true
}

// TransactionSubtype is the informational business reason of an entry
type TransactionSubtype string

const (
	SubtypePurchase         TransactionSubtype = "purchase"
	SubtypeProduction       TransactionSubtype = "production"
	SubtypeReturn           TransactionSubtype = "return"
	SubtypeCustomerInbound  TransactionSubtype = "customer_inbound"
	SubtypeOpeningBalance   TransactionSubtype = "opening_balance"
	SubtypeSale             TransactionSubtype = "sale"
	SubtypeDamage           TransactionSubtype = "damage"
	SubtypeConsumption      TransactionSubtype = "consumption"
	SubtypeCustomerOutbound TransactionSubtype = "customer_outbound"
	SubtypeManual           TransactionSubtype = "manual"
	SubtypeStockCount       TransactionSubtype = "stock_count"
	SubtypeCorrection       TransactionSubtype = "correction"
	SubtypeTransfer         TransactionSubtype = "transfer"
)

// TransactionStatus is completed or cancelled; cancelled is terminal
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// ItemSnapshot is the item identity copied onto a ledger entry when it is written.
// It is held by value so later catalog edits never reach historical entries.
type ItemSnapshot struct {
	Name string `json:"name"`
	SKU  string `json:"sku"`
	Unit string `json:"unit"`
}

// Transaction is one stock affecting ledger entry
type Transaction struct {
	ID                   uuid.UUID          `json:"id"`
	TransactionNumber    int64              `json:"transaction_number"`
	Type                 TransactionType    `json:"type"`
	Subtype              TransactionSubtype `json:"subtype,omitempty"`
	ItemID               uuid.UUID          `json:"item_id"`
	Item                 ItemSnapshot       `json:"item"`
	Quantity             decimal.Decimal    `json:"quantity"`
	PreviousStock        decimal.Decimal    `json:"previous_stock"`
	NewStock             decimal.Decimal    `json:"new_stock"`
	UnitPrice            decimal.Decimal    `json:"unit_price"`
	Currency             Currency           `json:"currency"`
	TotalValue           decimal.Decimal    `json:"total_value"`
	WarehouseID          *uuid.UUID         `json:"warehouse_id,omitempty"`
	CompanyID            *uuid.UUID         `json:"company_id,omitempty"`
	CompanyName          string             `json:"company_name,omitempty"`
	LotNumber            string             `json:"lot_number,omitempty"`
	SerialNumber         string             `json:"serial_number,omitempty"`
	Reference            string             `json:"reference,omitempty"`
	Notes                string             `json:"notes,omitempty"`
	Status               TransactionStatus  `json:"status"`
	LinkedDeliveryID     *string            `json:"linked_delivery_id,omitempty"`
	FinanceTransactionID *string            `json:"finance_transaction_id,omitempty"`
	CreatedAt            time.Time          `json:"created_at"`
	CreatedBy            string             `json:"created_by"`
	CancelledAt          *time.Time         `json:"cancelled_at,omitempty"`
	CancelledBy          string             `json:"cancelled_by,omitempty"`
	CorrectedAt          *time.Time         `json:"corrected_at,omitempty"`
	CorrectedBy          string             `json:"corrected_by,omitempty"`
}

// Number renders the human readable transaction number
func (t *Transaction) Number() string {
	return FormatTransactionNumber(t.TransactionNumber)
}

// FormatTransactionNumber renders n as TX-000042
func FormatTransactionNumber(n int64) string {
	return fmt.Sprintf("TX-%06d", n)
}

// IsActive reports whether the entry counts toward stock
func (t *Transaction) IsActive() bool {
	return t.Status != TransactionCancelled
}

// ComputeTotalValue sets TotalValue to |quantity| x unit price
func (t *Transaction) ComputeTotalValue() {
	t.TotalValue = t.Quantity.Abs().Mul(t.UnitPrice)
}

// Validate checks record validity before the entry is appended
func (t *Transaction) Validate() error {
	if t.ItemID == uuid.Nil {
		return invalidArg("item_id is required")
	}
	if !t.Type.IsValid() {
		return invalidArg("unknown transaction type %q", t.Type)
	}
	if t.Quantity.IsZero() {
		return invalidArg("quantity cannot be zero")
	}
	if !t.Type.AcceptsQuantity(t.Quantity) {
		return invalidArg("quantity %s does not match %s transaction", t.Quantity.String(), t.Type)
	}
	if t.UnitPrice.IsNegative() {
		return invalidArg("unit_price cannot be negative")
	}
	if t.Currency == "" {
		t.Currency = DefaultCurrency
	}
	if !t.Currency.IsValid() {
		return invalidArg("unsupported currency %q", t.Currency)
	}
	if t.PreviousStock.IsNegative() {
		return invalidArg("previous_stock cannot be negative")
	}
	if !t.PreviousStock.Add(t.Quantity).Equal(t.NewStock) {
		return invalidArg("new_stock %s does not equal previous_stock %s + quantity %s",
			t.NewStock.String(), t.PreviousStock.String(), t.Quantity.String())
	}
	if t.NewStock.IsNegative() {
		return &WouldGoNegativeError{ItemID: t.ItemID, EntryID: t.ID, Current: t.PreviousStock, Resulting: t.NewStock}
	}
	t.CreatedBy = strings.TrimSpace(t.CreatedBy)
	if t.CreatedBy == "" {
		t.CreatedBy = SystemActor
	}
	return nil
}

// PrepareForStorage assigns identity, status and timestamps
func (t *Transaction) PrepareForStorage() {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TransactionCompleted
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	t.ComputeTotalValue()
}

// Cancel flips the entry to cancelled; quantity and balances stay as posted
func (t *Transaction) Cancel(actor string, at time.Time) error {
	if !t.IsActive() {
		return NewInvalidState("transaction", t.ID, "already cancelled")
	}
	t.Status = TransactionCancelled
	t.CancelledAt = &at
	t.CancelledBy = actor
	return nil
}

// SystemActor is recorded when no caller identity is supplied
const SystemActor = "system"

// FoldStock sums the quantities of active entries
func FoldStock(entries []Transaction) decimal.Decimal {
	total := decimal.Zero
	for i := range entries {
		if entries[i].IsActive() {
			total = total.Add(entries[i].Quantity)
		}
	}
	return total
}

// CorrectionPlan is the result of replaying an item's history with amended quantities
type CorrectionPlan struct {
	// Changed holds copies of the entries whose quantity or balances moved
	Changed    []Transaction
	FinalStock decimal.Decimal
}

// PlanCorrections replays the chronological history of one item with the given
// quantity amendments applied. The running balance starts from the fold of the
// active entries before the first amended one; cancelled entries are skipped
// and keep their historical values. Any negative balance fails the whole plan.
func PlanCorrections(itemID uuid.UUID, history []Transaction, amendments map[uuid.UUID]decimal.Decimal, actor string, at time.Time) (*CorrectionPlan, error) {
	first := -1
	for i := range history {
		if _, ok := amendments[history[i].ID]; ok {
			if !history[i].IsActive() {
				return nil, NewInvalidState("transaction", history[i].ID, "cannot correct a cancelled transaction")
			}
			if first < 0 {
				first = i
			}
		}
	}
	if first < 0 {
		return nil, invalidArg("no amended transactions belong to item %s", itemID)
	}
	for id, q := range amendments {
		found := false
		for i := range history {
			if history[i].ID != id {
				continue
			}
			found = true
			if !history[i].Type.AcceptsQuantity(q) {
				return nil, invalidArg("quantity %s does not match %s transaction %s", q.String(), history[i].Type, id)
			}
		}
		if !found {
			return nil, NewNotFound("transaction", id)
		}
	}

	running := FoldStock(history[:first])
	plan := &CorrectionPlan{}
	for i := first; i < len(history); i++ {
		e := history[i]
		if !e.IsActive() {
			continue
		}
		changed := false
		if q, ok := amendments[e.ID]; ok && !q.Equal(e.Quantity) {
			e.Quantity = q
			e.ComputeTotalValue()
			e.CorrectedAt = &at
			e.CorrectedBy = actor
			changed = true
		}
		prev := running
		next := prev.Add(e.Quantity)
		if next.IsNegative() {
			return nil, &WouldGoNegativeError{ItemID: itemID, EntryID: e.ID, Current: prev, Resulting: next}
		}
		if !e.PreviousStock.Equal(prev) || !e.NewStock.Equal(next) {
			e.PreviousStock = prev
			e.NewStock = next
			changed = true
		}
		if changed {
			plan.Changed = append(plan.Changed, e)
		}
		running = next
	}
	plan.FinalStock = running
	return plan, nil
}
