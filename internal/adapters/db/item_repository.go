// internal/adapters/db/item_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
)

const itemColumns = `id, sku, name, description, category, ownership, customer_id,
	quantity, reserved, min_stock_level, unit, cost_price, sale_price, currency,
	warehouse_id, supplier_id, lot_tracked, serial_tracked, lot_number, serial_number,
	status, version, created_at, updated_at`

// itemRepository implements ports.ItemRepository
type itemRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *Database, logger *slog.Logger) ports.ItemRepository {
	return &itemRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "items")),
	}
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var item domain.Item
	err := row.Scan(
		&item.ID, &item.SKU, &item.Name, &item.Description, &item.Category, &item.Ownership, &item.CustomerID,
		&item.Stock.Quantity, &item.Stock.Reserved, &item.Stock.MinStockLevel, &item.Stock.Unit,
		&item.Pricing.CostPrice, &item.Pricing.SalePrice, &item.Pricing.Currency,
		&item.WarehouseID, &item.SupplierID,
		&item.Tracking.LotTracked, &item.Tracking.SerialTracked, &item.Tracking.LotNumber, &item.Tracking.SerialNumber,
		&item.Status, &item.Version, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func getItem(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	item, err := ScanOne(q.QueryRow(ctx, query, id), scanItem)
	if err != nil {
		return nil, fmt.Errorf("failed to get item %s: %w", id, mapError(err))
	}
	return item, nil
}

// Create inserts a new item at version 1
func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	item.Version = 1
	query := `
		INSERT INTO items (` + itemColumns + `) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		)`

	_, err := r.db.Exec(ctx, query,
		item.ID, item.SKU, item.Name, item.Description, item.Category, item.Ownership, item.CustomerID,
		item.Stock.Quantity, item.Stock.Reserved, item.Stock.MinStockLevel, item.Stock.Unit,
		item.Pricing.CostPrice, item.Pricing.SalePrice, item.Pricing.Currency,
		item.WarehouseID, item.SupplierID,
		item.Tracking.LotTracked, item.Tracking.SerialTracked, item.Tracking.LotNumber, item.Tracking.SerialNumber,
		item.Status, item.Version, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.InvalidArgument("sku %s already exists", item.SKU)
		}
		return fmt.Errorf("failed to create item: %w", mapError(err))
	}

	r.logger.DebugContext(ctx, "item created",
		slog.String("item_id", item.ID.String()),
		slog.String("sku", item.SKU))
	return nil
}

// GetByID returns the item or nil when it does not exist
func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	return getItem(ctx, r.db, id, false)
}

// GetBySKU matches the sku case-insensitively
func (r *itemRepository) GetBySKU(ctx context.Context, sku string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE UPPER(sku) = UPPER($1)`
	item, err := ScanOne(r.db.QueryRow(ctx, query, strings.TrimSpace(sku)), scanItem)
	if err != nil {
		return nil, fmt.Errorf("failed to get item by sku: %w", mapError(err))
	}
	return item, nil
}

// itemFilter applies the non-paging part of an item filter
func itemFilter(filter ports.ItemFilter) squirrel.Sqlizer {
	where := squirrel.And{}
	if filter.Category != "" {
		where = append(where, squirrel.Eq{"category": filter.Category})
	}
	if filter.Status != "" {
		where = append(where, squirrel.Eq{"status": filter.Status})
	}
	if filter.WarehouseID != nil {
		where = append(where, squirrel.Eq{"warehouse_id": filter.WarehouseID.String()})
	}
	if filter.SupplierID != nil {
		where = append(where, squirrel.Eq{"supplier_id": filter.SupplierID.String()})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"sku": pattern},
		})
	}
	return where
}

// buildItemListQueries renders the page and count statements of an item listing
func buildItemListQueries(filter ports.ItemFilter) (string, []interface{}, string, []interface{}, error) {
	where := itemFilter(filter)

	page := psql.Select(itemColumns).From("items").Where(where).OrderBy("sku ASC")
	if filter.Limit > 0 {
		page = page.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		page = page.Offset(uint64(filter.Offset))
	}
	pageSQL, pageArgs, err := buildSQL(page)
	if err != nil {
		return "", nil, "", nil, err
	}

	countSQL, countArgs, err := buildSQL(psql.Select("COUNT(*)").From("items").Where(where))
	if err != nil {
		return "", nil, "", nil, err
	}
	return pageSQL, pageArgs, countSQL, countArgs, nil
}

// List returns one page of matching items ordered by sku plus the total match count
func (r *itemRepository) List(ctx context.Context, filter ports.ItemFilter) ([]domain.Item, int64, error) {
	pageSQL, pageArgs, countSQL, countArgs, err := buildItemListQueries(filter)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", mapError(err))
	}

	rows, err := r.db.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", mapError(err))
	}
	items, err := ScanMany(rows, scanItem)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan items: %w", err)
	}
	return items, total, nil
}

// UpdateDetails rewrites catalog fields. Quantity, warehouse and version stay
// owned by the ledger; reserved is clamped to the stored quantity.
func (r *itemRepository) UpdateDetails(ctx context.Context, item *domain.Item) error {
	query := `
		UPDATE items SET
			sku = $2, name = $3, description = $4, category = $5, ownership = $6, customer_id = $7,
			reserved = LEAST($8, quantity), min_stock_level = $9, unit = $10,
			cost_price = $11, sale_price = $12, currency = $13, supplier_id = $14,
			lot_tracked = $15, serial_tracked = $16, lot_number = $17, serial_number = $18,
			status = $19, updated_at = $20
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		item.ID, item.SKU, item.Name, item.Description, item.Category, item.Ownership, item.CustomerID,
		item.Stock.Reserved, item.Stock.MinStockLevel, item.Stock.Unit,
		item.Pricing.CostPrice, item.Pricing.SalePrice, item.Pricing.Currency, item.SupplierID,
		item.Tracking.LotTracked, item.Tracking.SerialTracked, item.Tracking.LotNumber, item.Tracking.SerialNumber,
		item.Status, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.InvalidArgument("sku %s already exists", item.SKU)
		}
		return fmt.Errorf("failed to update item: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("item", item.ID)
	}
	return nil
}

// SetStatus changes the lifecycle status only
func (r *itemRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.ItemStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE items SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set item status: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("item", id)
	}
	return nil
}

// Delete removes the item. Ledger entries block the delete unless cascade is set.
func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID, cascade bool) error {
	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		item, err := getItem(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NewNotFound("item", id)
		}

		var entries int64
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE item_id = $1`, id).Scan(&entries); err != nil {
			return fmt.Errorf("failed to count ledger entries: %w", mapError(err))
		}
		if entries > 0 {
			if !cascade {
				return fmt.Errorf("%w: item %s has %d ledger entries", domain.ErrReferentialIntegrity, id, entries)
			}
			if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE item_id = $1`, id); err != nil {
				return fmt.Errorf("failed to delete ledger entries: %w", mapError(err))
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM items WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete item: %w", mapError(err))
		}

		r.logger.InfoContext(ctx, "item deleted",
			slog.String("item_id", id.String()),
			slog.Int64("ledger_entries", entries),
			slog.Bool("cascade", cascade))
		return nil
	})
}

// Exists reports whether the item row exists
func (r *itemRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM items WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check item existence: %w", mapError(err))
	}
	return exists, nil
}

// escapeLike escapes LIKE wildcards in user input
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
