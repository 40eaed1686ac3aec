// internal/core/services/operations.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultMaxRetries   = 5
	defaultRetryBackoff = 10 * time.Millisecond
	defaultPageSize     = 50
	maxPageSize         = 500
)

// OperationsService is the only writer of item stock. Each call runs as one
// unit of work per item and is retried on concurrency conflicts.
type OperationsService struct {
	uow         ports.UnitOfWork
	catalog     ports.CatalogReader
	ledger      *Ledger
	projector   *StockProjector
	invalidator ports.StockCacheInvalidator
	maxRetries  int
	backoff     time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// Statically assert that *OperationsService implements the StockOperations interface.
var _ ports.StockOperations = (*OperationsService)(nil)

// OperationsOption configures an OperationsService
type OperationsOption func(*OperationsService)

// WithRetryPolicy sets how many times a conflicting unit of work is attempted
func WithRetryPolicy(maxAttempts int, backoff time.Duration) OperationsOption {
	return func(s *OperationsService) {
		if maxAttempts > 0 {
			s.maxRetries = maxAttempts
		}
		if backoff >= 0 {
			s.backoff = backoff
		}
	}
}

// WithCacheInvalidator drops cached stock views after every successful mutation
func WithCacheInvalidator(inv ports.StockCacheInvalidator) OperationsOption {
	return func(s *OperationsService) { s.invalidator = inv }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) OperationsOption {
	return func(s *OperationsService) { s.now = now }
}

// NewOperationsService creates the operations facade
func NewOperationsService(
	uow ports.UnitOfWork,
	catalog ports.CatalogReader,
	ledger *Ledger,
	projector *StockProjector,
	logger *slog.Logger,
	opts ...OperationsOption,
) *OperationsService {
	s := &OperationsService{
		uow:        uow,
		catalog:    catalog,
		ledger:     ledger,
		projector:  projector,
		maxRetries: defaultMaxRetries,
		backoff:    defaultRetryBackoff,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger.With(slog.String("service", "operations")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Receive posts an inbound entry and increments cached stock
func (s *OperationsService) Receive(ctx context.Context, req ports.MovementRequest) (*domain.Transaction, error) {
	if !req.Quantity.IsPositive() {
		return nil, domain.InvalidArgument("quantity must be positive")
	}
	if req.UnitPrice.IsNegative() {
		return nil, domain.InvalidArgument("unit_price cannot be negative")
	}

	var entry *domain.Transaction
	err := s.withRetry(ctx, req.ItemID, "receive", func(ctx context.Context, tx ports.ItemTx) error {
		item := tx.Item()
		if !item.AcceptsMovements() {
			return domain.NewInvalidState("item", item.ID, fmt.Sprintf("cannot receive stock while %s", item.Status))
		}
		warehouseID, err := s.resolveWarehouse(ctx, tx, item, req.WarehouseID)
		if err != nil {
			return err
		}

		entry = s.newEntry(item, domain.TransactionInbound, req.Subtype, domain.SubtypePurchase, req.Quantity, req)
		entry.WarehouseID = warehouseID
		if item.WarehouseID == nil {
			item.WarehouseID = warehouseID
		}

		if err := s.ledger.Append(ctx, tx, entry); err != nil {
			return err
		}
		_, err = s.projector.ApplyIncremental(ctx, tx, entry.Quantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.stockChanged(ctx, "receive", entry)
	return entry, nil
}

// Issue posts an outbound entry; the requested quantity may not exceed cached stock
func (s *OperationsService) Issue(ctx context.Context, req ports.MovementRequest) (*domain.Transaction, error) {
	if !req.Quantity.IsPositive() {
		return nil, domain.InvalidArgument("quantity must be positive")
	}
	if req.UnitPrice.IsNegative() {
		return nil, domain.InvalidArgument("unit_price cannot be negative")
	}

	var entry *domain.Transaction
	err := s.withRetry(ctx, req.ItemID, "issue", func(ctx context.Context, tx ports.ItemTx) error {
		item := tx.Item()
		if !item.AcceptsMovements() {
			return domain.NewInvalidState("item", item.ID, fmt.Sprintf("cannot issue stock while %s", item.Status))
		}
		if req.Quantity.GreaterThan(item.Stock.Quantity) {
			return &domain.InsufficientStockError{
				ItemID:    item.ID,
				SKU:       item.SKU,
				Requested: req.Quantity,
				Available: item.Stock.Quantity,
			}
		}
		warehouseID, err := s.resolveWarehouse(ctx, tx, item, req.WarehouseID)
		if err != nil {
			return err
		}

		entry = s.newEntry(item, domain.TransactionOutbound, req.Subtype, domain.SubtypeSale, req.Quantity.Neg(), req)
		entry.WarehouseID = warehouseID
		if item.WarehouseID == nil {
			item.WarehouseID = warehouseID
		}

		if err := s.ledger.Append(ctx, tx, entry); err != nil {
			return err
		}
		_, err = s.projector.ApplyIncremental(ctx, tx, entry.Quantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.stockChanged(ctx, "issue", entry)
	return entry, nil
}

// Adjust posts a signed correction valued at the item's cost price
func (s *OperationsService) Adjust(ctx context.Context, req ports.AdjustRequest) (*domain.Transaction, error) {
	if req.Delta.IsZero() {
		return nil, domain.InvalidArgument("delta cannot be zero")
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, domain.InvalidArgument("reason is required")
	}

	var entry *domain.Transaction
	err := s.withRetry(ctx, req.ItemID, "adjust", func(ctx context.Context, tx ports.ItemTx) error {
		item := tx.Item()
		resulting := item.Stock.Quantity.Add(req.Delta)
		if resulting.IsNegative() {
			return &domain.WouldGoNegativeError{ItemID: item.ID, Current: item.Stock.Quantity, Resulting: resulting}
		}

		entry = s.newEntry(item, domain.TransactionAdjustment, req.Subtype, domain.SubtypeManual, req.Delta, ports.MovementRequest{
			UnitPrice: item.Pricing.CostPrice,
			Currency:  item.Pricing.Currency,
			Metadata:  ports.TransactionMetadata{Notes: reason},
			Actor:     req.Actor,
		})
		entry.WarehouseID = item.WarehouseID

		if err := s.ledger.Append(ctx, tx, entry); err != nil {
			return err
		}
		_, err := s.projector.ApplyIncremental(ctx, tx, entry.Quantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.stockChanged(ctx, "adjust", entry)
	return entry, nil
}

// Cancel undoes an entry's effect against the item's current stock. Later
// entries keep their posted balances and the cached value is recomputed.
func (s *OperationsService) Cancel(ctx context.Context, entryID uuid.UUID, actor string) (*domain.Transaction, error) {
	existing, err := s.ledger.Get(ctx, entryID)
	if err != nil {
		return nil, err
	}
	actor = actorOrSystem(actor)

	var cancelled *domain.Transaction
	err = s.withRetry(ctx, existing.ItemID, "cancel", func(ctx context.Context, tx ports.ItemTx) error {
		e, err := tx.GetTransaction(ctx, entryID)
		if err != nil {
			return fmt.Errorf("failed to load transaction: %w", err)
		}
		if e == nil {
			return domain.NewNotFound("transaction", entryID)
		}
		if !e.IsActive() {
			return domain.NewInvalidState("transaction", e.Number(), "already cancelled")
		}

		item := tx.Item()
		resulting := item.Stock.Quantity.Sub(e.Quantity)
		if resulting.IsNegative() {
			return &domain.WouldGoNegativeError{
				ItemID:    item.ID,
				EntryID:   e.ID,
				Current:   item.Stock.Quantity,
				Resulting: resulting,
			}
		}

		at := s.now()
		if err := s.ledger.MarkCancelled(ctx, tx, entryID, actor, at); err != nil {
			return err
		}
		if _, err := s.projector.Recompute(ctx, tx); err != nil {
			return err
		}
		if err := e.Cancel(actor, at); err != nil {
			return err
		}
		cancelled = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.stockChanged(ctx, "cancel", cancelled)
	return cancelled, nil
}

// BatchCorrectQuantities amends historical quantities and ripples the
// balances through each touched item's later history. Items are corrected
// independently and all-or-nothing; the joined error lists every item that failed.
func (s *OperationsService) BatchCorrectQuantities(ctx context.Context, updates []ports.QuantityCorrection, actor string) ([]ports.ItemCorrectionResult, error) {
	if len(updates) == 0 {
		return nil, domain.InvalidArgument("at least one correction is required")
	}
	actor = actorOrSystem(actor)

	seen := make(map[uuid.UUID]bool, len(updates))
	groups := make(map[uuid.UUID]map[uuid.UUID]decimal.Decimal)
	var order []uuid.UUID
	var results []ports.ItemCorrectionResult
	var errs []error

	for _, u := range updates {
		if seen[u.EntryID] {
			return nil, domain.InvalidArgument("transaction %s is corrected more than once", u.EntryID)
		}
		seen[u.EntryID] = true
	}

	for _, u := range updates {
		e, err := s.ledger.Get(ctx, u.EntryID)
		if err != nil {
			results = append(results, failedCorrection(uuid.Nil, []uuid.UUID{u.EntryID}, err))
			errs = append(errs, err)
			continue
		}
		if _, ok := groups[e.ItemID]; !ok {
			groups[e.ItemID] = make(map[uuid.UUID]decimal.Decimal)
			order = append(order, e.ItemID)
		}
		groups[e.ItemID][u.EntryID] = u.NewQuantity
	}

	for _, itemID := range order {
		amendments := groups[itemID]
		entryIDs := make([]uuid.UUID, 0, len(amendments))
		for id := range amendments {
			entryIDs = append(entryIDs, id)
		}

		result := ports.ItemCorrectionResult{ItemID: itemID, EntryIDs: entryIDs}
		err := s.withRetry(ctx, itemID, "batch correct", func(ctx context.Context, tx ports.ItemTx) error {
			history, err := tx.ListItemTransactions(ctx)
			if err != nil {
				return fmt.Errorf("failed to load item history: %w", err)
			}
			plan, err := domain.PlanCorrections(itemID, history, amendments, actor, s.now())
			if err != nil {
				return err
			}
			if len(plan.Changed) > 0 {
				if err := tx.UpdateTransactionQuantities(ctx, plan.Changed); err != nil {
					return fmt.Errorf("failed to rewrite transactions: %w", err)
				}
			}
			final, err := s.projector.Recompute(ctx, tx)
			if err != nil {
				return err
			}
			result.Rewritten = len(plan.Changed)
			result.FinalStock = final
			return nil
		})
		if err != nil {
			s.logger.WarnContext(ctx, "batch correction rejected for item",
				slog.String("item_id", itemID.String()),
				slog.String("error", err.Error()))
			results = append(results, failedCorrection(itemID, entryIDs, err))
			errs = append(errs, fmt.Errorf("item %s: %w", itemID, err))
			continue
		}

		result.Applied = true
		results = append(results, result)
		s.invalidate(ctx, itemID)
		s.logger.InfoContext(ctx, "batch correction applied",
			slog.String("item_id", itemID.String()),
			slog.Int("rewritten", result.Rewritten),
			slog.String("final_stock", result.FinalStock.String()),
			slog.String("actor", actor))
	}

	return results, errors.Join(errs...)
}

func failedCorrection(itemID uuid.UUID, entryIDs []uuid.UUID, err error) ports.ItemCorrectionResult {
	return ports.ItemCorrectionResult{ItemID: itemID, EntryIDs: entryIDs, Err: err, Error: err.Error()}
}

// Reconcile recomputes the cached stock of one item from its ledger
func (s *OperationsService) Reconcile(ctx context.Context, itemID uuid.UUID) (*ports.ReconcileResult, error) {
	var result *ports.ReconcileResult
	err := s.withRetry(ctx, itemID, "reconcile", func(ctx context.Context, tx ports.ItemTx) error {
		previous := tx.Item().Stock.Quantity
		current, err := s.projector.Recompute(ctx, tx)
		if err != nil {
			return err
		}
		result = &ports.ReconcileResult{
			ItemID:   itemID,
			Previous: previous,
			Current:  current,
			Drifted:  !previous.Equal(current),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Drifted {
		s.logger.WarnContext(ctx, "cached stock drift repaired",
			slog.String("item_id", itemID.String()),
			slog.String("previous", result.Previous.String()),
			slog.String("current", result.Current.String()))
		s.invalidate(ctx, itemID)
	}
	return result, nil
}

// AttachLinks stores finance or delivery references on an entry
func (s *OperationsService) AttachLinks(ctx context.Context, entryID uuid.UUID, links ports.TransactionLinks) (*domain.Transaction, error) {
	return s.ledger.AttachLinks(ctx, entryID, links)
}

// ListTransactions returns one page of ledger entries
func (s *OperationsService) ListTransactions(ctx context.Context, filter ports.TransactionFilter) (*ports.TransactionPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.InvalidArgument("to must not be before from")
	}

	entries, total, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.TransactionPage{
		Transactions: entries,
		Page:         filter.Offset/filter.Limit + 1,
		PageSize:     filter.Limit,
		TotalCount:   total,
		TotalPages:   totalPages(total, filter.Limit),
	}, nil
}

// GetTransaction returns one entry
func (s *OperationsService) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return s.ledger.Get(ctx, id)
}

// GetItemHistory returns the item's entries oldest first, cancelled included
func (s *OperationsService) GetItemHistory(ctx context.Context, itemID uuid.UUID) ([]domain.Transaction, error) {
	exists, err := s.catalog.ItemExists(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to check item: %w", err)
	}
	if !exists {
		return nil, domain.NewNotFound("item", itemID)
	}
	return s.ledger.ListByItem(ctx, itemID)
}

// withRetry runs fn in a unit of work and repeats it while the store reports a conflict
func (s *OperationsService) withRetry(ctx context.Context, itemID uuid.UUID, op string, fn func(ctx context.Context, tx ports.ItemTx) error) error {
	var err error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		err = s.uow.WithItemTransaction(ctx, itemID, fn)
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}

		s.logger.DebugContext(ctx, "concurrency conflict",
			slog.String("operation", op),
			slog.String("item_id", itemID.String()),
			slog.Int("attempt", attempt))

		if attempt == s.maxRetries {
			break
		}
		if s.backoff > 0 {
			wait := s.backoff*time.Duration(attempt) + rand.N(s.backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	s.logger.WarnContext(ctx, "giving up after concurrency conflicts",
		slog.String("operation", op),
		slog.String("item_id", itemID.String()),
		slog.Int("attempts", s.maxRetries))
	return fmt.Errorf("%s item %s after %d attempts: %w", op, itemID, s.maxRetries, err)
}

// resolveWarehouse picks the requested warehouse, else the item's, else the default one
func (s *OperationsService) resolveWarehouse(ctx context.Context, tx ports.ItemTx, item *domain.Item, requested *uuid.UUID) (*uuid.UUID, error) {
	if requested != nil {
		if item.WarehouseID != nil && *item.WarehouseID != *requested {
			return nil, domain.InvalidArgument("warehouse %s does not match item warehouse %s", *requested, *item.WarehouseID)
		}
		w, err := tx.GetWarehouse(ctx, *requested)
		if err != nil {
			return nil, fmt.Errorf("failed to get warehouse: %w", err)
		}
		if w == nil {
			return nil, domain.NewNotFound("warehouse", *requested)
		}
		if !w.IsActive {
			return nil, domain.NewInvalidState("warehouse", w.Code, "inactive")
		}
		id := w.ID
		return &id, nil
	}
	if item.WarehouseID != nil {
		id := *item.WarehouseID
		return &id, nil
	}

	w, err := tx.GetDefaultWarehouse(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get default warehouse: %w", err)
	}
	if w == nil {
		return nil, domain.InvalidArgument("warehouse_id is required: item %s has no warehouse and no default is set", item.SKU)
	}
	id := w.ID
	return &id, nil
}

func (s *OperationsService) newEntry(
	item *domain.Item,
	typ domain.TransactionType,
	subtype, fallback domain.TransactionSubtype,
	quantity decimal.Decimal,
	req ports.MovementRequest,
) *domain.Transaction {
	if subtype == "" {
		subtype = fallback
	}
	currency := req.Currency
	if currency == "" {
		currency = item.Pricing.Currency
	}
	return &domain.Transaction{
		Type:          typ,
		Subtype:       subtype,
		ItemID:        item.ID,
		Item:          item.Snapshot(),
		Quantity:      quantity,
		PreviousStock: item.Stock.Quantity,
		NewStock:      item.Stock.Quantity.Add(quantity),
		UnitPrice:     req.UnitPrice,
		Currency:      currency,
		CompanyID:     req.Metadata.CompanyID,
		CompanyName:   req.Metadata.CompanyName,
		LotNumber:     req.Metadata.LotNumber,
		SerialNumber:  req.Metadata.SerialNumber,
		Reference:     req.Metadata.Reference,
		Notes:         req.Metadata.Notes,
		Status:        domain.TransactionCompleted,
		CreatedAt:     s.now(),
		CreatedBy:     actorOrSystem(req.Actor),
	}
}

func (s *OperationsService) stockChanged(ctx context.Context, op string, entry *domain.Transaction) {
	s.logger.InfoContext(ctx, "stock changed",
		slog.String("operation", op),
		slog.String("transaction_id", entry.ID.String()),
		slog.Int64("transaction_number", entry.TransactionNumber),
		slog.String("item_id", entry.ItemID.String()),
		slog.String("quantity", entry.Quantity.String()),
		slog.String("actor", entry.CreatedBy))
	s.invalidate(ctx, entry.ItemID)
}

func (s *OperationsService) invalidate(ctx context.Context, itemIDs ...uuid.UUID) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateStock(ctx, itemIDs...); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate stock cache", slog.String("error", err.Error()))
	}
}

func actorOrSystem(actor string) string {
	if a := strings.TrimSpace(actor); a != "" {
		return a
	}
	return domain.SystemActor
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
