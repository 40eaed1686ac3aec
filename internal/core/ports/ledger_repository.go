// internal/core/ports/ledger_repository.go
package ports

import (
	"context"
	"time"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/google/uuid"
)

// LedgerRepository is the read side of the transaction ledger plus the
// weak link attachment used by the finance and delivery collaborators.
type LedgerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, int64, error)
	// ListByItem returns every entry of the item ordered oldest first, cancelled included.
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Transaction, error)
	UpdateLinks(ctx context.Context, id uuid.UUID, links TransactionLinks) error
}

// TransactionFilter narrows transaction listings. Limit 0 returns every match.
type TransactionFilter struct {
	ItemID      *uuid.UUID
	WarehouseID *uuid.UUID
	Type        domain.TransactionType
	Status      domain.TransactionStatus
	From        *time.Time
	To          *time.Time
	Newest      bool
	Limit       int
	Offset      int
}

// TransactionLinks carries the external references attached to an entry.
// A nil field leaves the stored value unchanged.
type TransactionLinks struct {
	FinanceTransactionID *string `json:"finance_transaction_id,omitempty"`
	LinkedDeliveryID     *string `json:"linked_delivery_id,omitempty"`
}

// ResetCounts reports how many rows a destructive reset removed
type ResetCounts struct {
	Transactions int64 `json:"transactions"`
	Items        int64 `json:"items"`
	Warehouses   int64 `json:"warehouses"`
	Suppliers    int64 `json:"suppliers"`
}

// Resetter wipes every ledger and catalog row
type Resetter interface {
	ResetAll(ctx context.Context) (ResetCounts, error)
}
