// internal/adapters/db/store.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
)

// Store is the PostgreSQL backed stock ledger. It implements
// ports.UnitOfWork, ports.CatalogReader and ports.Resetter and hands out the
// repositories sharing its pool.
type Store struct {
	db          *Database
	logger      *slog.Logger
	lockTimeout time.Duration

	items      ports.ItemRepository
	warehouses ports.WarehouseRepository
	suppliers  ports.SupplierRepository
	ledger     ports.LedgerRepository
}

var (
	_ ports.UnitOfWork    = (*Store)(nil)
	_ ports.CatalogReader = (*Store)(nil)
	_ ports.Resetter      = (*Store)(nil)
)

// StoreOption configures a Store
type StoreOption func(*Store)

// WithLockTimeout bounds how long a unit of work waits for the item row lock.
// A timed out wait surfaces as domain.ErrConcurrencyConflict.
func WithLockTimeout(d time.Duration) StoreOption {
	return func(s *Store) { s.lockTimeout = d }
}

// NewStore wires the repositories over one database
func NewStore(database *Database, logger *slog.Logger, opts ...StoreOption) *Store {
	s := &Store{
		db:          database,
		logger:      logger.With(slog.String("component", "pg_store")),
		lockTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.items = NewItemRepository(database, logger)
	s.warehouses = NewWarehouseRepository(database, logger)
	s.suppliers = NewSupplierRepository(database, logger)
	s.ledger = NewLedgerRepository(database, logger)
	return s
}

func (s *Store) Items() ports.ItemRepository           { return s.items }
func (s *Store) Warehouses() ports.WarehouseRepository { return s.warehouses }
func (s *Store) Suppliers() ports.SupplierRepository   { return s.suppliers }
func (s *Store) Ledger() ports.LedgerRepository        { return s.ledger }

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	return getItem(ctx, s.db, id, false)
}

func (s *Store) GetItemBySKU(ctx context.Context, sku string) (*domain.Item, error) {
	return s.items.GetBySKU(ctx, sku)
}

func (s *Store) GetWarehouse(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error) {
	return getWarehouse(ctx, s.db, id)
}

func (s *Store) GetDefaultWarehouse(ctx context.Context) (*domain.Warehouse, error) {
	return getDefaultWarehouse(ctx, s.db)
}

func (s *Store) ItemExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.items.Exists(ctx, id)
}

func (s *Store) WarehouseExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.warehouses.Exists(ctx, id)
}

// WithItemTransaction locks the item row for the duration of fn. Every write
// fn makes commits with the transaction or rolls back with it.
func (s *Store) WithItemTransaction(ctx context.Context, itemID uuid.UUID, fn func(ctx context.Context, tx ports.ItemTx) error) error {
	return s.db.Transaction(ctx, func(tx pgx.Tx) error {
		if s.lockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to set lock timeout: %w", mapError(err))
			}
		}

		item, err := getItem(ctx, tx, itemID, true)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NewNotFound("item", itemID)
		}

		itx := &itemTx{tx: tx, item: item, version: item.Version}
		if err := fn(ctx, itx); err != nil {
			return err
		}
		return itx.finish(ctx)
	})
}

// ResetAll deletes every ledger and catalog row and restarts numbering
func (s *Store) ResetAll(ctx context.Context) (ports.ResetCounts, error) {
	var counts ports.ResetCounts
	err := s.db.Transaction(ctx, func(tx pgx.Tx) error {
		steps := []struct {
			table string
			count *int64
		}{
			{"transactions", &counts.Transactions},
			{"items", &counts.Items},
			{"warehouses", &counts.Warehouses},
			{"suppliers", &counts.Suppliers},
		}
		for _, step := range steps {
			tag, err := tx.Exec(ctx, "DELETE FROM "+step.table)
			if err != nil {
				return fmt.Errorf("failed to clear %s: %w", step.table, mapError(err))
			}
			*step.count = tag.RowsAffected()
		}
		if _, err := tx.Exec(ctx, `ALTER SEQUENCE transaction_number_seq RESTART WITH 1`); err != nil {
			return fmt.Errorf("failed to restart transaction numbering: %w", mapError(err))
		}
		return nil
	})
	if err != nil {
		return ports.ResetCounts{}, err
	}

	s.logger.WarnContext(ctx, "store reset",
		slog.Int64("transactions", counts.Transactions),
		slog.Int64("items", counts.Items),
		slog.Int64("warehouses", counts.Warehouses),
		slog.Int64("suppliers", counts.Suppliers))
	return counts, nil
}

// itemTx is the ItemTx of one locked item row
type itemTx struct {
	tx         pgx.Tx
	item       *domain.Item
	version    int64
	dirty      bool
	stockSaved bool
}

func (t *itemTx) Item() *domain.Item { return t.item }

func (t *itemTx) scoped(id uuid.UUID) error {
	if id != t.item.ID {
		return domain.InvalidArgument("unit of work is scoped to item %s", t.item.ID)
	}
	return nil
}

// SaveItemStock writes quantity, reserved and warehouse guarded by the version read under lock
func (t *itemTx) SaveItemStock(ctx context.Context, item *domain.Item) error {
	if err := t.scoped(item.ID); err != nil {
		return err
	}
	err := t.tx.QueryRow(ctx, `
		UPDATE items SET
			quantity = $2, reserved = $3, warehouse_id = $4,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $5
		RETURNING version, updated_at`,
		item.ID, item.Stock.Quantity, item.Stock.Reserved, item.WarehouseID, t.version,
	).Scan(&t.version, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrConcurrencyConflict
		}
		return fmt.Errorf("failed to save item stock: %w", mapError(err))
	}
	item.Version = t.version
	t.stockSaved = true
	t.dirty = true
	return nil
}

// InsertTransaction appends the entry; the sequence assigns its number
func (t *itemTx) InsertTransaction(ctx context.Context, e *domain.Transaction) error {
	if err := t.scoped(e.ItemID); err != nil {
		return err
	}
	err := t.tx.QueryRow(ctx, `
		INSERT INTO transactions (
			id, type, subtype, item_id, item_name, item_sku, item_unit,
			quantity, previous_stock, new_stock, unit_price, currency, total_value,
			warehouse_id, company_id, company_name, lot_number, serial_number, reference, notes, status,
			linked_delivery_id, finance_transaction_id, created_at, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25
		) RETURNING transaction_number`,
		e.ID, e.Type, e.Subtype, e.ItemID, e.Item.Name, e.Item.SKU, e.Item.Unit,
		e.Quantity, e.PreviousStock, e.NewStock, e.UnitPrice, e.Currency, e.TotalValue,
		e.WarehouseID, e.CompanyID, e.CompanyName, e.LotNumber, e.SerialNumber, e.Reference, e.Notes, e.Status,
		e.LinkedDeliveryID, e.FinanceTransactionID, e.CreatedAt, e.CreatedBy,
	).Scan(&e.TransactionNumber)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", mapError(err))
	}
	t.dirty = true
	return nil
}

func (t *itemTx) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return getTransaction(ctx, t.tx, id)
}

func (t *itemTx) ListItemTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return listItemTransactions(ctx, t.tx, t.item.ID)
}

func (t *itemTx) MarkCancelled(ctx context.Context, id uuid.UUID, actor string, at time.Time) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE transactions SET status = $3, cancelled_at = $4, cancelled_by = $5
		WHERE id = $1 AND item_id = $2`,
		id, t.item.ID, domain.TransactionCancelled, at, actor)
	if err != nil {
		return fmt.Errorf("failed to cancel transaction: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("transaction", id)
	}
	t.dirty = true
	return nil
}

// UpdateTransactionQuantities rewrites the amended entries in one batch
func (t *itemTx) UpdateTransactionQuantities(ctx context.Context, entries []domain.Transaction) error {
	if len(entries) == 0 {
		return nil
	}

	const query = `
		UPDATE transactions SET
			quantity = $3, previous_stock = $4, new_stock = $5, total_value = $6,
			corrected_at = $7, corrected_by = $8
		WHERE id = $1 AND item_id = $2`

	batch := &pgx.Batch{}
	for i := range entries {
		e := &entries[i]
		batch.Queue(query, e.ID, t.item.ID, e.Quantity, e.PreviousStock, e.NewStock, e.TotalValue, e.CorrectedAt, e.CorrectedBy)
	}

	br := t.tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := range entries {
		tag, err := br.Exec()
		if err != nil {
			return fmt.Errorf("failed to update transaction %s: %w", entries[i].ID, mapError(err))
		}
		if tag.RowsAffected() == 0 {
			return domain.NewNotFound("transaction", entries[i].ID)
		}
	}
	t.dirty = true
	return nil
}

func (t *itemTx) GetWarehouse(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error) {
	return getWarehouse(ctx, t.tx, id)
}

func (t *itemTx) GetDefaultWarehouse(ctx context.Context) (*domain.Warehouse, error) {
	return getDefaultWarehouse(ctx, t.tx)
}

// finish bumps the item version when only ledger rows changed
func (t *itemTx) finish(ctx context.Context) error {
	if !t.dirty || t.stockSaved {
		return nil
	}
	err := t.tx.QueryRow(ctx,
		`UPDATE items SET version = version + 1, updated_at = NOW() WHERE id = $1 AND version = $2 RETURNING version`,
		t.item.ID, t.version).Scan(&t.version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrConcurrencyConflict
		}
		return fmt.Errorf("failed to bump item version: %w", mapError(err))
	}
	t.item.Version = t.version
	return nil
}
