// internal/core/ports/stock_service.go
package ports

import (
	"context"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockOperations is the only entry point allowed to change item stock.
// Request types live here to keep handlers free of the services package.
type StockOperations interface {
	Receive(ctx context.Context, req MovementRequest) (*domain.Transaction, error)
	Issue(ctx context.Context, req MovementRequest) (*domain.Transaction, error)
	Adjust(ctx context.Context, req AdjustRequest) (*domain.Transaction, error)
	Cancel(ctx context.Context, entryID uuid.UUID, actor string) (*domain.Transaction, error)
	BatchCorrectQuantities(ctx context.Context, updates []QuantityCorrection, actor string) ([]ItemCorrectionResult, error)
	Reconcile(ctx context.Context, itemID uuid.UUID) (*ReconcileResult, error)
	AttachLinks(ctx context.Context, entryID uuid.UUID, links TransactionLinks) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) (*TransactionPage, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetItemHistory(ctx context.Context, itemID uuid.UUID) ([]domain.Transaction, error)
}

// TransactionMetadata is the optional counterparty and tracking data of a movement
type TransactionMetadata struct {
	CompanyID    *uuid.UUID
	CompanyName  string
	LotNumber    string
	SerialNumber string
	Reference    string
	Notes        string
}

// MovementRequest describes a receive or an issue; Quantity is always positive
type MovementRequest struct {
	ItemID      uuid.UUID
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Currency    domain.Currency
	WarehouseID *uuid.UUID
	Subtype     domain.TransactionSubtype
	Metadata    TransactionMetadata
	Actor       string
}

// AdjustRequest is a direct correction of an item's stock by a signed delta
type AdjustRequest struct {
	ItemID  uuid.UUID
	Delta   decimal.Decimal
	Reason  string
	Subtype domain.TransactionSubtype
	Actor   string
}

// QuantityCorrection amends the quantity of one historical entry
type QuantityCorrection struct {
	EntryID     uuid.UUID       `json:"entry_id"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
}

// ItemCorrectionResult reports the outcome of a batch correction for one item
type ItemCorrectionResult struct {
	ItemID     uuid.UUID       `json:"item_id"`
	EntryIDs   []uuid.UUID     `json:"entry_ids"`
	Applied    bool            `json:"applied"`
	Rewritten  int             `json:"rewritten"`
	FinalStock decimal.Decimal `json:"final_stock"`
	Error      string          `json:"error,omitempty"`
	Err        error           `json:"-"`
}

// ReconcileResult reports a recompute of an item's cached stock
type ReconcileResult struct {
	ItemID   uuid.UUID       `json:"item_id"`
	Previous decimal.Decimal `json:"previous"`
	Current  decimal.Decimal `json:"current"`
	Drifted  bool            `json:"drifted"`
}

// TransactionPage is a paginated transaction listing
type TransactionPage struct {
	Transactions []domain.Transaction `json:"transactions"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
	TotalCount   int64                `json:"total_count"`
	TotalPages   int                  `json:"total_pages"`
}
