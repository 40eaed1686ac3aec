// internal/core/ports/catalog_service.go
package ports

import (
	"context"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/google/uuid"
)

// CatalogService manages items, warehouses and suppliers. It never changes stock.
type CatalogService interface {
	CreateItem(ctx context.Context, item *domain.Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	GetItemBySKU(ctx context.Context, sku string) (*domain.Item, error)
	ListItems(ctx context.Context, filter ItemFilter) (*ItemPage, error)
	UpdateItem(ctx context.Context, id uuid.UUID, item *domain.Item) (*domain.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID, permanent, cascade bool) error

	CreateWarehouse(ctx context.Context, w *domain.Warehouse) error
	GetWarehouse(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error)
	GetWarehouseByCode(ctx context.Context, code string) (*domain.Warehouse, error)
	ListWarehouses(ctx context.Context, activeOnly bool) ([]domain.Warehouse, error)
	UpdateWarehouse(ctx context.Context, id uuid.UUID, w *domain.Warehouse) (*domain.Warehouse, error)
	SetDefaultWarehouse(ctx context.Context, id uuid.UUID) error
	DeleteWarehouse(ctx context.Context, id uuid.UUID) error

	CreateSupplier(ctx context.Context, s *domain.Supplier) error
	GetSupplier(ctx context.Context, id uuid.UUID) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, activeOnly bool) ([]domain.Supplier, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, s *domain.Supplier) (*domain.Supplier, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
}

// ItemPage is a paginated item listing
type ItemPage struct {
	Items      []domain.Item `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalCount int64         `json:"total_count"`
	TotalPages int           `json:"total_pages"`
}
