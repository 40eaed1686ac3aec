// internal/core/ports/unit_of_work.go
package ports

import (
	"context"
	"time"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/google/uuid"
)

// UnitOfWork runs read-validate-write sequences atomically per item.
//
// WithItemTransaction loads the item, hands fn an ItemTx scoped to it and
// commits every write fn made, or none of them. A concurrent writer that
// committed against the same item first makes the call fail with
// domain.ErrConcurrencyConflict; the caller retries the whole operation.
// An unknown item yields a domain.NotFoundError.
type UnitOfWork interface {
	WithItemTransaction(ctx context.Context, itemID uuid.UUID, fn func(ctx context.Context, tx ItemTx) error) error
}

// ItemTx is the transactional view of one item and its ledger
type ItemTx interface {
	// Item returns the working copy of the item as read at the start of the unit of work
	Item() *domain.Item
	// SaveItemStock writes the stock quantity and warehouse of the working copy
	SaveItemStock(ctx context.Context, item *domain.Item) error
	// InsertTransaction appends an entry and assigns its transaction number
	InsertTransaction(ctx context.Context, t *domain.Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	// ListItemTransactions returns the item's entries oldest first, cancelled included
	ListItemTransactions(ctx context.Context) ([]domain.Transaction, error)
	MarkCancelled(ctx context.Context, id uuid.UUID, actor string, at time.Time) error
	// UpdateTransactionQuantities rewrites quantity, balances, value and correction stamps
	UpdateTransactionQuantities(ctx context.Context, entries []domain.Transaction) error
	GetWarehouse(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error)
	GetDefaultWarehouse(ctx context.Context) (*domain.Warehouse, error)
}
