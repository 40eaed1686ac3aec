package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/core/services"
	"github.com/ammerola/stockledger/test/helpers"
	"github.com/ammerola/stockledger/test/mocks"
)

type catalogMocks struct {
	items      *mocks.MockItemRepository
	warehouses *mocks.MockWarehouseRepository
	suppliers  *mocks.MockSupplierRepository
}

func newCatalogService(t *testing.T) (*services.CatalogService, catalogMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := catalogMocks{
		items:      mocks.NewMockItemRepository(ctrl),
		warehouses: mocks.NewMockWarehouseRepository(ctrl),
		suppliers:  mocks.NewMockSupplierRepository(ctrl),
	}
	return services.NewCatalogService(m.items, m.warehouses, m.suppliers, nil, helpers.TestLogger()), m
}

func TestCatalogService_CreateItem(t *testing.T) {
	warehouseID := uuid.New()
	supplierID := uuid.New()

	tests := []struct {
		name          string
		item          *domain.Item
		setupMocks    func(m catalogMocks)
		expectedError error
		errorContains string
	}{
		{
			name: "successful_create_forces_zero_stock",
			item: helpers.CreateTestItem(func(i *domain.Item) {
				i.Stock.Quantity = decimal.NewFromInt(500)
				i.Stock.Reserved = decimal.NewFromInt(5)
			}),
			setupMocks: func(m catalogMocks) {
				m.items.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, item *domain.Item) error {
						assert.True(t, item.Stock.Quantity.IsZero())
						assert.True(t, item.Stock.Reserved.IsZero())
						return nil
					})
			},
		},
		{
			name: "validation_fails_for_missing_sku",
			item: helpers.CreateTestItem(func(i *domain.Item) {
				i.SKU = "  "
			}),
			setupMocks:    func(m catalogMocks) {},
			expectedError: domain.ErrInvalidArgument,
			errorContains: "sku is required",
		},
		{
			name: "validation_fails_for_customer_item_without_customer",
			item: helpers.CreateTestItem(func(i *domain.Item) {
				i.Ownership = domain.OwnershipCustomer
			}),
			setupMocks:    func(m catalogMocks) {},
			expectedError: domain.ErrInvalidArgument,
			errorContains: "customer_id is required",
		},
		{
			name: "unknown_warehouse_is_not_found",
			item: helpers.CreateTestItem(func(i *domain.Item) {
				i.WarehouseID = &warehouseID
			}),
			setupMocks: func(m catalogMocks) {
				m.warehouses.EXPECT().Exists(gomock.Any(), warehouseID).Return(false, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name: "unknown_supplier_is_not_found",
			item: helpers.CreateTestItem(func(i *domain.Item) {
				i.SupplierID = &supplierID
			}),
			setupMocks: func(m catalogMocks) {
				m.suppliers.EXPECT().GetByID(gomock.Any(), supplierID).Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name: "repository_create_error",
			item: helpers.CreateTestItem(),
			setupMocks: func(m catalogMocks) {
				m.items.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			errorContains: "failed to create item",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newCatalogService(t)
			tt.setupMocks(m)

			err := svc.CreateItem(context.Background(), tt.item)

			if tt.expectedError == nil && tt.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			}
			if tt.errorContains != "" {
				assert.Contains(t, err.Error(), tt.errorContains)
			}
		})
	}
}

func TestCatalogService_GetItem(t *testing.T) {
	ctx := context.Background()
	svc, m := newCatalogService(t)
	item := helpers.CreateTestItem()

	m.items.EXPECT().GetByID(gomock.Any(), item.ID).Return(item, nil)
	got, err := svc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, got)

	missing := uuid.New()
	m.items.EXPECT().GetByID(gomock.Any(), missing).Return(nil, nil)
	_, err = svc.GetItem(ctx, missing)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "item", nf.Entity)
}

func TestCatalogService_UpdateItemKeepsStock(t *testing.T) {
	ctx := context.Background()
	svc, m := newCatalogService(t)

	stored := helpers.CreateTestItem(func(i *domain.Item) {
		i.Stock.Quantity = decimal.NewFromInt(42)
		i.Version = 7
	})
	edit := helpers.CreateTestItem(func(i *domain.Item) {
		i.SKU = stored.SKU
		i.Name = "Hex bolt M10"
		i.Stock.Quantity = decimal.NewFromInt(1)
		i.Version = 1
	})

	gomock.InOrder(
		m.items.EXPECT().GetByID(gomock.Any(), stored.ID).Return(stored, nil),
		m.items.EXPECT().
			UpdateDetails(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, item *domain.Item) error {
				assert.Equal(t, stored.ID, item.ID)
				assert.True(t, item.Stock.Quantity.Equal(decimal.NewFromInt(42)))
				assert.Equal(t, int64(7), item.Version)
				assert.Equal(t, "Hex bolt M10", item.Name)
				return nil
			}),
		m.items.EXPECT().GetByID(gomock.Any(), stored.ID).Return(stored, nil),
	)

	_, err := svc.UpdateItem(ctx, stored.ID, edit)
	require.NoError(t, err)
}

func TestCatalogService_DeleteItem(t *testing.T) {
	ctx := context.Background()

	t.Run("soft_delete_deactivates", func(t *testing.T) {
		svc, m := newCatalogService(t)
		item := helpers.CreateTestItem()
		m.items.EXPECT().GetByID(gomock.Any(), item.ID).Return(item, nil)
		m.items.EXPECT().SetStatus(gomock.Any(), item.ID, domain.ItemStatusInactive).Return(nil)

		require.NoError(t, svc.DeleteItem(ctx, item.ID, false, false))
	})

	t.Run("permanent_delete_with_history_needs_cascade", func(t *testing.T) {
		svc, m := newCatalogService(t)
		item := helpers.CreateTestItem()
		m.items.EXPECT().GetByID(gomock.Any(), item.ID).Return(item, nil)
		m.items.EXPECT().Delete(gomock.Any(), item.ID, false).Return(domain.ErrReferentialIntegrity)

		err := svc.DeleteItem(ctx, item.ID, true, false)
		assert.ErrorIs(t, err, domain.ErrReferentialIntegrity)
	})

	t.Run("unknown_item_is_not_found", func(t *testing.T) {
		svc, m := newCatalogService(t)
		id := uuid.New()
		m.items.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)

		assert.ErrorIs(t, svc.DeleteItem(ctx, id, true, true), domain.ErrNotFound)
	})
}

func TestCatalogService_Warehouses(t *testing.T) {
	ctx := context.Background()

	t.Run("first_warehouse_becomes_default", func(t *testing.T) {
		svc, m := newCatalogService(t)
		w := helpers.CreateTestWarehouse(func(w *domain.Warehouse) { w.Code = " main " })
		m.warehouses.EXPECT().GetDefault(gomock.Any()).Return(nil, nil)
		m.warehouses.EXPECT().Create(gomock.Any(), w).Return(nil)

		require.NoError(t, svc.CreateWarehouse(ctx, w))
		assert.True(t, w.IsDefault)
		assert.Equal(t, "MAIN", w.Code)
	})

	t.Run("later_warehouse_is_not_default", func(t *testing.T) {
		svc, m := newCatalogService(t)
		w := helpers.CreateTestWarehouse()
		m.warehouses.EXPECT().GetDefault(gomock.Any()).Return(helpers.CreateTestWarehouse(), nil)
		m.warehouses.EXPECT().Create(gomock.Any(), w).Return(nil)

		require.NoError(t, svc.CreateWarehouse(ctx, w))
		assert.False(t, w.IsDefault)
	})

	t.Run("default_warehouse_cannot_be_deleted", func(t *testing.T) {
		svc, m := newCatalogService(t)
		w := helpers.CreateTestWarehouse(func(w *domain.Warehouse) { w.IsDefault = true })
		m.warehouses.EXPECT().GetByID(gomock.Any(), w.ID).Return(w, nil)

		assert.ErrorIs(t, svc.DeleteWarehouse(ctx, w.ID), domain.ErrInvalidState)
	})

	t.Run("default_warehouse_cannot_be_deactivated", func(t *testing.T) {
		svc, m := newCatalogService(t)
		w := helpers.CreateTestWarehouse(func(w *domain.Warehouse) { w.IsDefault = true })
		m.warehouses.EXPECT().GetByID(gomock.Any(), w.ID).Return(w, nil)

		edit := *w
		edit.IsActive = false
		_, err := svc.UpdateWarehouse(ctx, w.ID, &edit)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("inactive_warehouse_cannot_become_default", func(t *testing.T) {
		svc, m := newCatalogService(t)
		w := helpers.CreateTestWarehouse(func(w *domain.Warehouse) { w.IsActive = false })
		m.warehouses.EXPECT().GetByID(gomock.Any(), w.ID).Return(w, nil)

		assert.ErrorIs(t, svc.SetDefaultWarehouse(ctx, w.ID), domain.ErrInvalidState)
	})

	t.Run("set_default_moves_flag", func(t *testing.T) {
		svc, m := newCatalogService(t)
		w := helpers.CreateTestWarehouse()
		m.warehouses.EXPECT().GetByID(gomock.Any(), w.ID).Return(w, nil)
		m.warehouses.EXPECT().SetDefault(gomock.Any(), w.ID).Return(nil)

		assert.NoError(t, svc.SetDefaultWarehouse(ctx, w.ID))
	})
}

func TestCatalogService_ListItemsPaging(t *testing.T) {
	svc, m := newCatalogService(t)

	m.items.EXPECT().
		List(gomock.Any(), ports.ItemFilter{Search: "bolt", Limit: 500, Offset: 0}).
		Return([]domain.Item{*helpers.CreateTestItem()}, int64(1201), nil)

	page, err := svc.ListItems(context.Background(), ports.ItemFilter{Search: "bolt", Limit: 10000, Offset: -5})
	require.NoError(t, err)
	assert.Equal(t, 500, page.PageSize)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 1)
}

func TestCatalogService_Suppliers(t *testing.T) {
	ctx := context.Background()
	svc, m := newCatalogService(t)
	sup := helpers.CreateTestSupplier()

	m.suppliers.EXPECT().Create(gomock.Any(), sup).Return(nil)
	require.NoError(t, svc.CreateSupplier(ctx, sup))

	m.suppliers.EXPECT().GetByID(gomock.Any(), sup.ID).Return(sup, nil)
	m.suppliers.EXPECT().Delete(gomock.Any(), sup.ID).Return(domain.ErrReferentialIntegrity)
	assert.ErrorIs(t, svc.DeleteSupplier(ctx, sup.ID), domain.ErrReferentialIntegrity)

	bad := helpers.CreateTestSupplier(func(s *domain.Supplier) { s.Name = "" })
	assert.ErrorIs(t, svc.CreateSupplier(ctx, bad), domain.ErrInvalidArgument)
}
