// internal/core/services/projector.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockProjector keeps an item's cached quantity equal to the fold of its active ledger entries
type StockProjector struct {
	catalog ports.CatalogReader
	ledger  ports.LedgerRepository
	logger  *slog.Logger
}

// NewStockProjector creates a new stock projector
func NewStockProjector(catalog ports.CatalogReader, ledger ports.LedgerRepository, logger *slog.Logger) *StockProjector {
	return &StockProjector{
		catalog: catalog,
		ledger:  ledger,
		logger:  logger.With(slog.String("service", "projector")),
	}
}

// Recompute folds the item's full active history from zero and writes the result back
func (p *StockProjector) Recompute(ctx context.Context, tx ports.ItemTx) (decimal.Decimal, error) {
	entries, err := tx.ListItemTransactions(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load item history: %w", err)
	}

	item := tx.Item()
	total := domain.FoldStock(entries)
	if total.IsNegative() {
		return decimal.Zero, &domain.WouldGoNegativeError{ItemID: item.ID, Current: item.Stock.Quantity, Resulting: total}
	}

	if !total.Equal(item.Stock.Quantity) {
		p.logger.DebugContext(ctx, "cached stock recomputed",
			slog.String("item_id", item.ID.String()),
			slog.String("cached", item.Stock.Quantity.String()),
			slog.String("folded", total.String()))
	}
	return total, p.write(ctx, tx, item, total)
}

// ApplyIncremental adds delta to the cached value. Equivalent to Recompute
// when the entry carrying delta was appended after every existing one.
func (p *StockProjector) ApplyIncremental(ctx context.Context, tx ports.ItemTx, delta decimal.Decimal) (decimal.Decimal, error) {
	item := tx.Item()
	next := item.Stock.Quantity.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, &domain.WouldGoNegativeError{ItemID: item.ID, Current: item.Stock.Quantity, Resulting: next}
	}
	return next, p.write(ctx, tx, item, next)
}

func (p *StockProjector) write(ctx context.Context, tx ports.ItemTx, item *domain.Item, quantity decimal.Decimal) error {
	item.Stock.Quantity = quantity
	if item.Stock.Reserved.GreaterThan(quantity) {
		item.Stock.Reserved = quantity
	}
	if err := tx.SaveItemStock(ctx, item); err != nil {
		return fmt.Errorf("failed to save item stock: %w", err)
	}
	return nil
}

// Verify compares the cached quantity against a fresh fold without writing
func (p *StockProjector) Verify(ctx context.Context, itemID uuid.UUID) (*ports.ReconcileResult, error) {
	item, err := p.catalog.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, domain.NewNotFound("item", itemID)
	}
	entries, err := p.ledger.ListByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item history: %w", err)
	}
	folded := domain.FoldStock(entries)
	return &ports.ReconcileResult{
		ItemID:   itemID,
		Previous: item.Stock.Quantity,
		Current:  folded,
		Drifted:  !folded.Equal(item.Stock.Quantity),
	}, nil
}
