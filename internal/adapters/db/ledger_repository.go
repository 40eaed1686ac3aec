// internal/adapters/db/ledger_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
)

const transactionColumns = `id, transaction_number, type, subtype, item_id, item_name, item_sku, item_unit,
	quantity, previous_stock, new_stock, unit_price, currency, total_value,
	warehouse_id, company_id, company_name, lot_number, serial_number, reference, notes, status,
	linked_delivery_id, finance_transaction_id, created_at, created_by,
	cancelled_at, cancelled_by, corrected_at, corrected_by`

// ledgerRepository implements ports.LedgerRepository
type ledgerRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *Database, logger *slog.Logger) ports.LedgerRepository {
	return &ledgerRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "ledger")),
	}
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.ID, &t.TransactionNumber, &t.Type, &t.Subtype, &t.ItemID, &t.Item.Name, &t.Item.SKU, &t.Item.Unit,
		&t.Quantity, &t.PreviousStock, &t.NewStock, &t.UnitPrice, &t.Currency, &t.TotalValue,
		&t.WarehouseID, &t.CompanyID, &t.CompanyName, &t.LotNumber, &t.SerialNumber, &t.Reference, &t.Notes, &t.Status,
		&t.LinkedDeliveryID, &t.FinanceTransactionID, &t.CreatedAt, &t.CreatedBy,
		&t.CancelledAt, &t.CancelledBy, &t.CorrectedAt, &t.CorrectedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func getTransaction(ctx context.Context, q querier, id uuid.UUID) (*domain.Transaction, error) {
	t, err := ScanOne(q.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id), scanTransaction)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", id, mapError(err))
	}
	return t, nil
}

func listItemTransactions(ctx context.Context, q querier, itemID uuid.UUID) ([]domain.Transaction, error) {
	rows, err := q.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE item_id = $1 ORDER BY transaction_number ASC`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list item transactions: %w", mapError(err))
	}
	entries, err := ScanMany(rows, scanTransaction)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return entries, nil
}

func (r *ledgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return getTransaction(ctx, r.db, id)
}

// transactionFilter applies the non-paging part of a transaction filter.
// From is inclusive, To exclusive.
func transactionFilter(filter ports.TransactionFilter) squirrel.Sqlizer {
	where := squirrel.And{}
	if filter.ItemID != nil {
		where = append(where, squirrel.Eq{"item_id": filter.ItemID.String()})
	}
	if filter.WarehouseID != nil {
		where = append(where, squirrel.Eq{"warehouse_id": filter.WarehouseID.String()})
	}
	if filter.Type != "" {
		where = append(where, squirrel.Eq{"type": filter.Type})
	}
	if filter.Status != "" {
		where = append(where, squirrel.Eq{"status": filter.Status})
	}
	if filter.From != nil {
		where = append(where, squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		where = append(where, squirrel.Lt{"created_at": *filter.To})
	}
	return where
}

// buildTransactionListQueries renders the page and count statements of a ledger listing
func buildTransactionListQueries(filter ports.TransactionFilter) (string, []interface{}, string, []interface{}, error) {
	where := transactionFilter(filter)

	order := "transaction_number ASC"
	if filter.Newest {
		order = "transaction_number DESC"
	}
	page := psql.Select(transactionColumns).From("transactions").Where(where).OrderBy(order)
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

	countSQL, countArgs, err := buildSQL(psql.Select("COUNT(*)").From("transactions").Where(where))
	if err != nil {
		return "", nil, "", nil, err
	}
	return pageSQL, pageArgs, countSQL, countArgs, nil
}

// List returns one page of matching entries plus the total match count
func (r *ledgerRepository) List(ctx context.Context, filter ports.TransactionFilter) ([]domain.Transaction, int64, error) {
	pageSQL, pageArgs, countSQL, countArgs, err := buildTransactionListQueries(filter)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", mapError(err))
	}

	rows, err := r.db.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", mapError(err))
	}
	entries, err := ScanMany(rows, scanTransaction)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return entries, total, nil
}

func (r *ledgerRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Transaction, error) {
	return listItemTransactions(ctx, r.db, itemID)
}

// UpdateLinks attaches external references; nil fields keep their stored value
func (r *ledgerRepository) UpdateLinks(ctx context.Context, id uuid.UUID, links ports.TransactionLinks) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE transactions SET
			finance_transaction_id = COALESCE($2, finance_transaction_id),
			linked_delivery_id = COALESCE($3, linked_delivery_id)
		WHERE id = $1`,
		id, links.FinanceTransactionID, links.LinkedDeliveryID)
	if err != nil {
		return fmt.Errorf("failed to update transaction links: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("transaction", id)
	}

	r.logger.DebugContext(ctx, "transaction links updated", slog.String("transaction_id", id.String()))
	return nil
}
