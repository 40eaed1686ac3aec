// internal/core/services/catalog.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogService handles item, warehouse and supplier registry operations
type CatalogService struct {
	items       ports.ItemRepository
	warehouses  ports.WarehouseRepository
	suppliers   ports.SupplierRepository
	invalidator ports.StockCacheInvalidator
	logger      *slog.Logger
}

// Statically assert that *CatalogService implements the CatalogService interface.
var _ ports.CatalogService = (*CatalogService)(nil)

// NewCatalogService creates a new catalog service. invalidator may be nil.
func NewCatalogService(
	items ports.ItemRepository,
	warehouses ports.WarehouseRepository,
	suppliers ports.SupplierRepository,
	invalidator ports.StockCacheInvalidator,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		items:       items,
		warehouses:  warehouses,
		suppliers:   suppliers,
		invalidator: invalidator,
		logger:      logger.With(slog.String("service", "catalog")),
	}
}

// CreateItem registers an item with zero stock; stock only enters through the ledger
func (s *CatalogService) CreateItem(ctx context.Context, item *domain.Item) error {
	item.Stock.Quantity = decimal.Zero
	item.Stock.Reserved = decimal.Zero
	item.Version = 0
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := s.checkReferences(ctx, item); err != nil {
		return err
	}

	item.PrepareForStorage()
	if err := s.items.Create(ctx, item); err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.InfoContext(ctx, "item created",
		slog.String("item_id", item.ID.String()),
		slog.String("sku", item.SKU))
	s.invalidate(ctx, item.ID)
	return nil
}

func (s *CatalogService) checkReferences(ctx context.Context, item *domain.Item) error {
	if item.WarehouseID != nil {
		ok, err := s.warehouses.Exists(ctx, *item.WarehouseID)
		if err != nil {
			return fmt.Errorf("failed to check warehouse: %w", err)
		}
		if !ok {
			return domain.NewNotFound("warehouse", *item.WarehouseID)
		}
	}
	if item.SupplierID != nil {
		sup, err := s.suppliers.GetByID(ctx, *item.SupplierID)
		if err != nil {
			return fmt.Errorf("failed to check supplier: %w", err)
		}
		if sup == nil {
			return domain.NewNotFound("supplier", *item.SupplierID)
		}
	}
	return nil
}

// GetItem returns an item by id
func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, domain.NewNotFound("item", id)
	}
	return item, nil
}

// GetItemBySKU returns an item by its business key
func (s *CatalogService) GetItemBySKU(ctx context.Context, sku string) (*domain.Item, error) {
	item, err := s.items.GetBySKU(ctx, strings.TrimSpace(sku))
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, domain.NewNotFound("item", sku)
	}
	return item, nil
}

// ListItems returns one page of items
func (s *CatalogService) ListItems(ctx context.Context, filter ports.ItemFilter) (*ports.ItemPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	items, total, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return &ports.ItemPage{
		Items:      items,
		Page:       filter.Offset/filter.Limit + 1,
		PageSize:   filter.Limit,
		TotalCount: total,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// UpdateItem edits catalog fields. Stock quantity, warehouse and version are
// kept from the stored item whatever the caller sends.
func (s *CatalogService) UpdateItem(ctx context.Context, id uuid.UUID, item *domain.Item) (*domain.Item, error) {
	existing, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	item.ID = id
	item.Stock.Quantity = existing.Stock.Quantity
	item.WarehouseID = existing.WarehouseID
	item.Version = existing.Version
	item.CreatedAt = existing.CreatedAt
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := s.checkReferences(ctx, item); err != nil {
		return nil, err
	}

	item.PrepareForStorage()
	if err := s.items.UpdateDetails(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.logger.InfoContext(ctx, "item updated", slog.String("item_id", id.String()))
	s.invalidate(ctx, id)
	return s.GetItem(ctx, id)
}

// DeleteItem soft deletes (inactive) by default. permanent removes the item in a
// single repository call; items with ledger history need cascade, and a refused
// delete leaves the item untouched.
func (s *CatalogService) DeleteItem(ctx context.Context, id uuid.UUID, permanent, cascade bool) error {
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}

	if !permanent {
		if err := s.items.SetStatus(ctx, id, domain.ItemStatusInactive); err != nil {
			return fmt.Errorf("failed to deactivate item: %w", err)
		}
		s.logger.InfoContext(ctx, "item deactivated", slog.String("item_id", id.String()))
		s.invalidate(ctx, id)
		return nil
	}

	if err := s.items.Delete(ctx, id, cascade); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.logger.WarnContext(ctx, "item deleted",
		slog.String("item_id", id.String()),
		slog.Bool("cascade", cascade))
	s.invalidate(ctx, id)
	return nil
}

// CreateWarehouse registers a warehouse. The first warehouse becomes the default.
func (s *CatalogService) CreateWarehouse(ctx context.Context, w *domain.Warehouse) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if !w.IsDefault {
		def, err := s.warehouses.GetDefault(ctx)
		if err != nil {
			return fmt.Errorf("failed to get default warehouse: %w", err)
		}
		w.IsDefault = def == nil
	}
	w.IsActive = w.IsActive || w.IsDefault
	w.PrepareForStorage()

	if err := s.warehouses.Create(ctx, w); err != nil {
		return fmt.Errorf("failed to create warehouse: %w", err)
	}
	s.logger.InfoContext(ctx, "warehouse created",
		slog.String("warehouse_id", w.ID.String()),
		slog.String("code", w.Code),
		slog.Bool("default", w.IsDefault))
	return nil
}

// GetWarehouse returns a warehouse by id
func (s *CatalogService) GetWarehouse(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error) {
	w, err := s.warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get warehouse: %w", err)
	}
	if w == nil {
		return nil, domain.NewNotFound("warehouse", id)
	}
	return w, nil
}

// GetWarehouseByCode returns a warehouse by its code
func (s *CatalogService) GetWarehouseByCode(ctx context.Context, code string) (*domain.Warehouse, error) {
	w, err := s.warehouses.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, fmt.Errorf("failed to get warehouse: %w", err)
	}
	if w == nil {
		return nil, domain.NewNotFound("warehouse", code)
	}
	return w, nil
}

// ListWarehouses returns warehouses ordered by code
func (s *CatalogService) ListWarehouses(ctx context.Context, activeOnly bool) ([]domain.Warehouse, error) {
	ws, err := s.warehouses.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	return ws, nil
}

// UpdateWarehouse edits a warehouse; the default flag only moves through SetDefaultWarehouse
func (s *CatalogService) UpdateWarehouse(ctx context.Context, id uuid.UUID, w *domain.Warehouse) (*domain.Warehouse, error) {
	existing, err := s.GetWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	w.ID = id
	w.IsDefault = existing.IsDefault
	w.CreatedAt = existing.CreatedAt
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if existing.IsDefault && !w.IsActive {
		return nil, domain.NewInvalidState("warehouse", existing.Code, "the default warehouse cannot be deactivated")
	}
	w.PrepareForStorage()
	if err := s.warehouses.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to update warehouse: %w", err)
	}
	s.invalidate(ctx)
	return s.GetWarehouse(ctx, id)
}

// SetDefaultWarehouse moves the default flag to id
func (s *CatalogService) SetDefaultWarehouse(ctx context.Context, id uuid.UUID) error {
	w, err := s.GetWarehouse(ctx, id)
	if err != nil {
		return err
	}
	if !w.IsActive {
		return domain.NewInvalidState("warehouse", w.Code, "an inactive warehouse cannot be the default")
	}
	if err := s.warehouses.SetDefault(ctx, id); err != nil {
		return fmt.Errorf("failed to set default warehouse: %w", err)
	}
	s.logger.InfoContext(ctx, "default warehouse changed", slog.String("warehouse_id", id.String()))
	return nil
}

// DeleteWarehouse removes an unreferenced, non-default warehouse
func (s *CatalogService) DeleteWarehouse(ctx context.Context, id uuid.UUID) error {
	w, err := s.GetWarehouse(ctx, id)
	if err != nil {
		return err
	}
	if w.IsDefault {
		return domain.NewInvalidState("warehouse", w.Code, "the default warehouse cannot be deleted")
	}
	if err := s.warehouses.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete warehouse: %w", err)
	}
	s.logger.InfoContext(ctx, "warehouse deleted", slog.String("warehouse_id", id.String()))
	return nil
}

// CreateSupplier registers a supplier
func (s *CatalogService) CreateSupplier(ctx context.Context, sup *domain.Supplier) error {
	if err := sup.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	sup.PrepareForStorage()
	if err := s.suppliers.Create(ctx, sup); err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}
	s.logger.InfoContext(ctx, "supplier created", slog.String("supplier_id", sup.ID.String()))
	return nil
}

// GetSupplier returns a supplier by id
func (s *CatalogService) GetSupplier(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	sup, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	if sup == nil {
		return nil, domain.NewNotFound("supplier", id)
	}
	return sup, nil
}

// ListSuppliers returns suppliers ordered by code
func (s *CatalogService) ListSuppliers(ctx context.Context, activeOnly bool) ([]domain.Supplier, error) {
	out, err := s.suppliers.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return out, nil
}

// UpdateSupplier edits a supplier
func (s *CatalogService) UpdateSupplier(ctx context.Context, id uuid.UUID, sup *domain.Supplier) (*domain.Supplier, error) {
	existing, err := s.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	sup.ID = id
	sup.CreatedAt = existing.CreatedAt
	if err := sup.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	sup.PrepareForStorage()
	if err := s.suppliers.Update(ctx, sup); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return s.GetSupplier(ctx, id)
}

// DeleteSupplier removes a supplier no item references
func (s *CatalogService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetSupplier(ctx, id); err != nil {
		return err
	}
	if err := s.suppliers.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, itemIDs ...uuid.UUID) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateStock(ctx, itemIDs...); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate stock cache", slog.String("error", err.Error()))
	}
}
