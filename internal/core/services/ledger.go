// internal/core/services/ledger.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/google/uuid"
)

// Ledger validates ledger entries and appends them inside a unit of work.
// It carries no business rules beyond record validity.
type Ledger struct {
	repo   ports.LedgerRepository
	logger *slog.Logger
}

// NewLedger creates a new transaction ledger
func NewLedger(repo ports.LedgerRepository, logger *slog.Logger) *Ledger {
	return &Ledger{
		repo:   repo,
		logger: logger.With(slog.String("service", "ledger")),
	}
}

// Append validates entry and writes it through tx. On success the entry
// carries its id; the transaction number is set once tx commits.
func (l *Ledger) Append(ctx context.Context, tx ports.ItemTx, entry *domain.Transaction) error {
	item := tx.Item()
	if entry.ItemID != item.ID {
		return domain.InvalidArgument("entry item %s does not match unit of work item %s", entry.ItemID, item.ID)
	}

	entry.PrepareForStorage()
	if err := entry.Validate(); err != nil {
		return err
	}

	if entry.WarehouseID != nil {
		w, err := tx.GetWarehouse(ctx, *entry.WarehouseID)
		if err != nil {
			return fmt.Errorf("failed to resolve warehouse: %w", err)
		}
		if w == nil {
			return domain.NewNotFound("warehouse", *entry.WarehouseID)
		}
	}

	if err := tx.InsertTransaction(ctx, entry); err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	l.logger.DebugContext(ctx, "transaction appended",
		slog.String("transaction_id", entry.ID.String()),
		slog.String("item_id", entry.ItemID.String()),
		slog.String("type", string(entry.Type)),
		slog.String("quantity", entry.Quantity.String()))
	return nil
}

// MarkCancelled flips the entry to cancelled; quantity and balances keep their posted values
func (l *Ledger) MarkCancelled(ctx context.Context, tx ports.ItemTx, entryID uuid.UUID, actor string, at time.Time) error {
	if err := tx.MarkCancelled(ctx, entryID, actor, at); err != nil {
		return fmt.Errorf("failed to cancel transaction %s: %w", entryID, err)
	}
	return nil
}

// Get returns one entry
func (l *Ledger) Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	t, err := l.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if t == nil {
		return nil, domain.NewNotFound("transaction", id)
	}
	return t, nil
}

// ListByItem returns the item's entries oldest first, cancelled included
func (l *Ledger) ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Transaction, error) {
	entries, err := l.repo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list item transactions: %w", err)
	}
	return entries, nil
}

// List returns entries matching filter and the total match count
func (l *Ledger) List(ctx context.Context, filter ports.TransactionFilter) ([]domain.Transaction, int64, error) {
	entries, total, err := l.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return entries, total, nil
}

// AttachLinks stores external finance/delivery references on an entry without validating them
func (l *Ledger) AttachLinks(ctx context.Context, id uuid.UUID, links ports.TransactionLinks) (*domain.Transaction, error) {
	if links.FinanceTransactionID == nil && links.LinkedDeliveryID == nil {
		return nil, domain.InvalidArgument("at least one link is required")
	}
	if err := l.repo.UpdateLinks(ctx, id, links); err != nil {
		return nil, fmt.Errorf("failed to attach links: %w", err)
	}
	l.logger.InfoContext(ctx, "transaction links attached", slog.String("transaction_id", id.String()))
	return l.Get(ctx, id)
}
