// internal/adapters/db/warehouse_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
)

const warehouseColumns = `id, code, name, address, is_default, is_active, created_at, updated_at`

// warehouseRepository implements ports.WarehouseRepository
type warehouseRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewWarehouseRepository creates a new warehouse repository
func NewWarehouseRepository(db *Database, logger *slog.Logger) ports.WarehouseRepository {
	return &warehouseRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "warehouses")),
	}
}

func scanWarehouse(row pgx.Row) (*domain.Warehouse, error) {
	var w domain.Warehouse
	if err := row.Scan(&w.ID, &w.Code, &w.Name, &w.Address, &w.IsDefault, &w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

func getWarehouse(ctx context.Context, q querier, id uuid.UUID) (*domain.Warehouse, error) {
	w, err := ScanOne(q.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, id), scanWarehouse)
	if err != nil {
		return nil, fmt.Errorf("failed to get warehouse %s: %w", id, mapError(err))
	}
	return w, nil
}

func getDefaultWarehouse(ctx context.Context, q querier) (*domain.Warehouse, error) {
	w, err := ScanOne(q.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE is_default`), scanWarehouse)
	if err != nil {
		return nil, fmt.Errorf("failed to get default warehouse: %w", mapError(err))
	}
	return w, nil
}

// Create inserts the warehouse; a default warehouse takes the flag from the previous one
func (r *warehouseRepository) Create(ctx context.Context, w *domain.Warehouse) error {
	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		if w.IsDefault {
			if _, err := tx.Exec(ctx, `UPDATE warehouses SET is_default = FALSE WHERE is_default`); err != nil {
				return fmt.Errorf("failed to clear default warehouse: %w", mapError(err))
			}
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO warehouses (`+warehouseColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			w.ID, w.Code, w.Name, w.Address, w.IsDefault, w.IsActive, w.CreatedAt, w.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.InvalidArgument("warehouse code %s already exists", w.Code)
			}
			return fmt.Errorf("failed to create warehouse: %w", mapError(err))
		}
		r.logger.DebugContext(ctx, "warehouse created",
			slog.String("warehouse_id", w.ID.String()),
			slog.String("code", w.Code),
			slog.Bool("default", w.IsDefault))
		return nil
	})
}

func (r *warehouseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error) {
	return getWarehouse(ctx, r.db, id)
}

func (r *warehouseRepository) GetByCode(ctx context.Context, code string) (*domain.Warehouse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	w, err := ScanOne(r.db.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE code = $1`, code), scanWarehouse)
	if err != nil {
		return nil, fmt.Errorf("failed to get warehouse by code: %w", mapError(err))
	}
	return w, nil
}

func (r *warehouseRepository) GetDefault(ctx context.Context) (*domain.Warehouse, error) {
	return getDefaultWarehouse(ctx, r.db)
}

func (r *warehouseRepository) List(ctx context.Context, activeOnly bool) ([]domain.Warehouse, error) {
	q := psql.Select(warehouseColumns).From("warehouses").OrderBy("code ASC")
	if activeOnly {
		q = q.Where("is_active")
	}
	query, args, err := buildSQL(q)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", mapError(err))
	}
	return ScanMany(rows, scanWarehouse)
}

// Update rewrites everything but the default flag and creation time
func (r *warehouseRepository) Update(ctx context.Context, w *domain.Warehouse) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE warehouses SET code = $2, name = $3, address = $4, is_active = $5, updated_at = $6 WHERE id = $1`,
		w.ID, w.Code, w.Name, w.Address, w.IsActive, w.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.InvalidArgument("warehouse code %s already exists", w.Code)
		}
		return fmt.Errorf("failed to update warehouse: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("warehouse", w.ID)
	}
	return nil
}

// SetDefault moves the default flag to id
func (r *warehouseRepository) SetDefault(ctx context.Context, id uuid.UUID) error {
	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE warehouses SET is_default = FALSE WHERE is_default AND id <> $1`, id); err != nil {
			return fmt.Errorf("failed to clear default warehouse: %w", mapError(err))
		}
		tag, err := tx.Exec(ctx, `UPDATE warehouses SET is_default = TRUE, updated_at = NOW() WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to set default warehouse: %w", mapError(err))
		}
		if tag.RowsAffected() == 0 {
			return domain.NewNotFound("warehouse", id)
		}
		return nil
	})
}

// Delete refuses while items or ledger entries reference the warehouse
func (r *warehouseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		var holdsItems, hasEntries bool
		err := tx.QueryRow(ctx, `
			SELECT
				EXISTS(SELECT 1 FROM items WHERE warehouse_id = $1),
				EXISTS(SELECT 1 FROM transactions WHERE warehouse_id = $1)`, id).Scan(&holdsItems, &hasEntries)
		if err != nil {
			return fmt.Errorf("failed to check warehouse references: %w", mapError(err))
		}
		if holdsItems {
			return fmt.Errorf("%w: warehouse %s holds items", domain.ErrReferentialIntegrity, id)
		}
		if hasEntries {
			return fmt.Errorf("%w: warehouse %s has ledger entries", domain.ErrReferentialIntegrity, id)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM warehouses WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete warehouse: %w", mapError(err))
		}
		if tag.RowsAffected() == 0 {
			return domain.NewNotFound("warehouse", id)
		}
		return nil
	})
}

func (r *warehouseRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM warehouses WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check warehouse existence: %w", mapError(err))
	}
	return exists, nil
}

const supplierColumns = `id, code, name, contact_email, phone, is_active, created_at, updated_at`

// supplierRepository implements ports.SupplierRepository
type supplierRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *Database, logger *slog.Logger) ports.SupplierRepository {
	return &supplierRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "suppliers")),
	}
}

func scanSupplier(row pgx.Row) (*domain.Supplier, error) {
	var s domain.Supplier
	if err := row.Scan(&s.ID, &s.Code, &s.Name, &s.ContactEmail, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *supplierRepository) Create(ctx context.Context, s *domain.Supplier) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO suppliers (`+supplierColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Code, s.Name, s.ContactEmail, s.Phone, s.IsActive, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.InvalidArgument("supplier code %s already exists", s.Code)
		}
		return fmt.Errorf("failed to create supplier: %w", mapError(err))
	}
	return nil
}

func (r *supplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	s, err := ScanOne(r.db.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id), scanSupplier)
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier %s: %w", id, mapError(err))
	}
	return s, nil
}

func (r *supplierRepository) List(ctx context.Context, activeOnly bool) ([]domain.Supplier, error) {
	q := psql.Select(supplierColumns).From("suppliers").OrderBy("code ASC")
	if activeOnly {
		q = q.Where("is_active")
	}
	query, args, err := buildSQL(q)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", mapError(err))
	}
	return ScanMany(rows, scanSupplier)
}

func (r *supplierRepository) Update(ctx context.Context, s *domain.Supplier) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE suppliers SET code = $2, name = $3, contact_email = $4, phone = $5, is_active = $6, updated_at = $7 WHERE id = $1`,
		s.ID, s.Code, s.Name, s.ContactEmail, s.Phone, s.IsActive, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.InvalidArgument("supplier code %s already exists", s.Code)
		}
		return fmt.Errorf("failed to update supplier: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("supplier", s.ID)
	}
	return nil
}

// Delete refuses while items reference the supplier
func (r *supplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var referenced bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM items WHERE supplier_id = $1)`, id).Scan(&referenced); err != nil {
		return fmt.Errorf("failed to check supplier references: %w", mapError(err))
	}
	if referenced {
		return fmt.Errorf("%w: supplier %s is referenced by items", domain.ErrReferentialIntegrity, id)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("supplier", id)
	}
	return nil
}
