// internal/core/ports/catalog_repository.go
package ports

import (
	"context"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/google/uuid"
)

// CatalogReader is the read-only view of the catalog consumed by the ledger.
// Getters return nil, nil when the row does not exist.
type CatalogReader interface {
	GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	GetItemBySKU(ctx context.Context, sku string) (*domain.Item, error)
	GetWarehouse(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error)
	GetDefaultWarehouse(ctx context.Context) (*domain.Warehouse, error)
	ItemExists(ctx context.Context, id uuid.UUID) (bool, error)
	WarehouseExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ItemRepository persists catalog items. UpdateDetails never writes stock quantity or version.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]domain.Item, int64, error)
	UpdateDetails(ctx context.Context, item *domain.Item) error
	SetStatus(ctx context.Context, id uuid.UUID, status domain.ItemStatus) error
	Delete(ctx context.Context, id uuid.UUID, cascade bool) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// WarehouseRepository persists warehouses
type WarehouseRepository interface {
	Create(ctx context.Context, w *domain.Warehouse) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error)
	GetByCode(ctx context.Context, code string) (*domain.Warehouse, error)
	GetDefault(ctx context.Context) (*domain.Warehouse, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Warehouse, error)
	Update(ctx context.Context, w *domain.Warehouse) error
	SetDefault(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// SupplierRepository persists suppliers
type SupplierRepository interface {
	Create(ctx context.Context, s *domain.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Supplier, error)
	Update(ctx context.Context, s *domain.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemFilter narrows item listings. Limit 0 returns every match.
type ItemFilter struct {
	Search      string
	Category    domain.ItemCategory
	Status      domain.ItemStatus
	WarehouseID *uuid.UUID
	SupplierID  *uuid.UUID
	Limit       int
	Offset      int
}
