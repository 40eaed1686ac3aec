//go:build integration
// +build integration

package db_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/ammerola/stockledger/internal/adapters/db"
	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/core/services"
	"github.com/ammerola/stockledger/test/helpers"
)

type StoreSuite struct {
	suite.Suite
	testDB    *helpers.TestDB
	store     *db.Store
	ops       *services.OperationsService
	warehouse *domain.Warehouse
	ctx       context.Context
}

func (s *StoreSuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.store = db.NewStore(s.testDB.Database, helpers.TestLogger())
	s.ctx = context.Background()

	logger := helpers.TestLogger()
	ledger := services.NewLedger(s.store.Ledger(), logger)
	projector := services.NewStockProjector(s.store, s.store.Ledger(), logger)
	s.ops = services.NewOperationsService(s.store, s.store, ledger, projector, logger,
		services.WithRetryPolicy(50, 0))
}

func (s *StoreSuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)

	s.warehouse = helpers.CreateTestWarehouse(func(w *domain.Warehouse) {
		w.Code = "MAIN"
		w.IsDefault = true
	})
	s.Require().NoError(s.store.Warehouses().Create(s.ctx, s.warehouse))
}

func (s *StoreSuite) createItem(opts ...func(*domain.Item)) *domain.Item {
	item := helpers.CreateTestItem(opts...)
	s.Require().NoError(s.store.Items().Create(s.ctx, item))
	return item
}

func (s *StoreSuite) receive(itemID uuid.UUID, qty int64) *domain.Transaction {
	entry, err := s.ops.Receive(s.ctx, ports.MovementRequest{
		ItemID:    itemID,
		Quantity:  decimal.NewFromInt(qty),
		UnitPrice: decimal.NewFromInt(2),
		Actor:     "tester",
	})
	s.Require().NoError(err)
	return entry
}

func (s *StoreSuite) TestDatabase_HealthReportsLastTransactionNumber() {
	health := s.testDB.Database.Health(s.ctx)
	s.Equal("healthy", health["status"])
	s.Equal(int64(0), health["last_transaction_number"])

	item := s.createItem()
	s.receive(item.ID, 4)
	s.receive(item.ID, 2)

	health = s.testDB.Database.Health(s.ctx)
	s.Equal(int64(2), health["last_transaction_number"])
}

func (s *StoreSuite) TestItemRepository_CreateAndLookup() {
	item := s.createItem(func(i *domain.Item) { i.SKU = "Bolt-M8" })
	s.Equal(int64(1), item.Version)

	found, err := s.store.Items().GetBySKU(s.ctx, "bolt-m8")
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(item.ID, found.ID)
	s.True(item.Pricing.CostPrice.Equal(found.Pricing.CostPrice))

	missing, err := s.store.Items().GetByID(s.ctx, uuid.New())
	s.NoError(err)
	s.Nil(missing)

	dup := helpers.CreateTestItem(func(i *domain.Item) { i.SKU = "Bolt-M8" })
	err = s.store.Items().Create(s.ctx, dup)
	s.ErrorIs(err, domain.ErrInvalidArgument)
}

func (s *StoreSuite) TestItemRepository_ListFiltersAndCounts() {
	s.createItem(func(i *domain.Item) { i.SKU = "A-1"; i.Name = "Washer" })
	s.createItem(func(i *domain.Item) { i.SKU = "B-1"; i.Name = "Hex bolt"; i.Category = domain.CategorySparePart })
	s.createItem(func(i *domain.Item) { i.SKU = "C-1"; i.Name = "Bolt cutter"; i.Category = domain.CategorySparePart })

	items, total, err := s.store.Items().List(s.ctx, ports.ItemFilter{Search: "bolt", Limit: 1})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(items, 1)
	s.Equal("B-1", items[0].SKU)

	items, total, err = s.store.Items().List(s.ctx, ports.ItemFilter{Category: domain.CategorySparePart})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(items, 2)
}

func (s *StoreSuite) TestItemRepository_UpdateDetailsKeepsStock() {
	item := s.createItem()
	s.receive(item.ID, 8)

	item.Name = "Renamed"
	item.Stock.Quantity = decimal.NewFromInt(999)
	item.Stock.Reserved = decimal.NewFromInt(20)
	s.Require().NoError(s.store.Items().UpdateDetails(s.ctx, item))

	stored, err := s.store.Items().GetByID(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Equal("Renamed", stored.Name)
	s.True(decimal.NewFromInt(8).Equal(stored.Stock.Quantity))
	s.True(decimal.NewFromInt(8).Equal(stored.Stock.Reserved), "reserved is clamped to quantity")
}

func (s *StoreSuite) TestItemRepository_DeleteRespectsLedger() {
	item := s.createItem()
	s.receive(item.ID, 3)

	err := s.store.Items().Delete(s.ctx, item.ID, false)
	s.ErrorIs(err, domain.ErrReferentialIntegrity)

	s.Require().NoError(s.store.Items().Delete(s.ctx, item.ID, true))
	exists, err := s.store.Items().Exists(s.ctx, item.ID)
	s.Require().NoError(err)
	s.False(exists)

	entries, err := s.store.Ledger().ListByItem(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *StoreSuite) TestWarehouseRepository_DefaultSwitch() {
	second := helpers.CreateTestWarehouse(func(w *domain.Warehouse) { w.Code = "EAST" })
	s.Require().NoError(s.store.Warehouses().Create(s.ctx, second))
	s.Require().NoError(s.store.Warehouses().SetDefault(s.ctx, second.ID))

	def, err := s.store.Warehouses().GetDefault(s.ctx)
	s.Require().NoError(err)
	s.Equal(second.ID, def.ID)

	first, err := s.store.Warehouses().GetByCode(s.ctx, "main")
	s.Require().NoError(err)
	s.False(first.IsDefault)
}

func (s *StoreSuite) TestWarehouseRepository_DeleteHeldWarehouse() {
	item := s.createItem()
	s.receive(item.ID, 1)

	err := s.store.Warehouses().Delete(s.ctx, s.warehouse.ID)
	s.ErrorIs(err, domain.ErrReferentialIntegrity)
}

func (s *StoreSuite) TestSupplierRepository_ReferencedSupplier() {
	supplier := helpers.CreateTestSupplier()
	s.Require().NoError(s.store.Suppliers().Create(s.ctx, supplier))
	s.createItem(func(i *domain.Item) { i.SupplierID = &supplier.ID })

	err := s.store.Suppliers().Delete(s.ctx, supplier.ID)
	s.ErrorIs(err, domain.ErrReferentialIntegrity)

	listed, err := s.store.Suppliers().List(s.ctx, true)
	s.Require().NoError(err)
	s.Len(listed, 1)
}

func (s *StoreSuite) TestWithItemTransaction_AssignsNumbersAndVersions() {
	item := s.createItem()
	first := s.receive(item.ID, 5)
	second := s.receive(item.ID, 7)

	s.Equal(int64(1), first.TransactionNumber)
	s.Equal(int64(2), second.TransactionNumber)
	s.Equal("TX-000002", second.Number())

	stored, err := s.store.Items().GetByID(s.ctx, item.ID)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(12).Equal(stored.Stock.Quantity))
	s.Equal(int64(3), stored.Version)
	s.Require().NotNil(stored.WarehouseID)
	s.Equal(s.warehouse.ID, *stored.WarehouseID)
}

func (s *StoreSuite) TestWithItemTransaction_RollsBackOnError() {
	item := s.createItem()
	boom := errors.New("boom")

	err := s.store.WithItemTransaction(s.ctx, item.ID, func(ctx context.Context, tx ports.ItemTx) error {
		entry := helpers.CreateTestTransaction(item.ID)
		if err := tx.InsertTransaction(ctx, entry); err != nil {
			return err
		}
		working := tx.Item()
		working.Stock.Quantity = entry.NewStock
		if err := tx.SaveItemStock(ctx, working); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	entries, err := s.store.Ledger().ListByItem(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Empty(entries)

	stored, err := s.store.Items().GetByID(s.ctx, item.ID)
	s.Require().NoError(err)
	s.True(stored.Stock.Quantity.IsZero())
	s.Equal(int64(1), stored.Version)
}

func (s *StoreSuite) TestWithItemTransaction_UnknownItem() {
	err := s.store.WithItemTransaction(s.ctx, uuid.New(), func(context.Context, ports.ItemTx) error {
		s.Fail("fn must not run for an unknown item")
		return nil
	})
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *StoreSuite) TestConcurrentIssuesNeverOversell() {
	item := s.createItem()
	s.receive(item.ID, 5)

	const workers = 12
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		succeeded    int
		insufficient int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ops.Issue(s.ctx, ports.MovementRequest{
				ItemID:   item.ID,
				Quantity: decimal.NewFromInt(1),
				Actor:    "picker",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient++
			default:
				s.Failf("unexpected issue error", "%v", err)
			}
		}()
	}
	wg.Wait()

	s.Equal(5, succeeded)
	s.Equal(workers-5, insufficient)

	stored, err := s.store.Items().GetByID(s.ctx, item.ID)
	s.Require().NoError(err)
	s.True(stored.Stock.Quantity.IsZero())

	entries, err := s.store.Ledger().ListByItem(s.ctx, item.ID)
	s.Require().NoError(err)
	s.True(domain.FoldStock(entries).Equal(stored.Stock.Quantity))
}

func (s *StoreSuite) TestCancelAndCorrectRewriteHistory() {
	item := s.createItem()
	first := s.receive(item.ID, 10)
	second := s.receive(item.ID, 4)

	_, err := s.ops.Issue(s.ctx, ports.MovementRequest{ItemID: item.ID, Quantity: decimal.NewFromInt(6), Actor: "picker"})
	s.Require().NoError(err)

	results, err := s.ops.BatchCorrectQuantities(s.ctx, []ports.QuantityCorrection{
		{EntryID: first.ID, NewQuantity: decimal.NewFromInt(12)},
	}, "auditor")
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.True(results[0].Applied)
	s.True(decimal.NewFromInt(10).Equal(results[0].FinalStock))

	_, err = s.ops.Cancel(s.ctx, first.ID, "auditor")
	s.ErrorIs(err, domain.ErrWouldGoNegative)

	cancelled, err := s.ops.Cancel(s.ctx, second.ID, "auditor")
	s.Require().NoError(err)
	s.Equal(domain.TransactionCancelled, cancelled.Status)

	reconciled, err := s.ops.Reconcile(s.ctx, item.ID)
	s.Require().NoError(err)
	s.False(reconciled.Drifted)
	s.True(decimal.NewFromInt(6).Equal(reconciled.Current))
}

func (s *StoreSuite) TestLedgerRepository_ListAndLinks() {
	item := s.createItem()
	s.receive(item.ID, 1)
	second := s.receive(item.ID, 2)

	page, total, err := s.store.Ledger().List(s.ctx, ports.TransactionFilter{ItemID: &item.ID, Newest: true, Limit: 1})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(page, 1)
	s.Equal(second.ID, page[0].ID)

	finance := "FIN-77"
	s.Require().NoError(s.store.Ledger().UpdateLinks(s.ctx, second.ID, ports.TransactionLinks{FinanceTransactionID: &finance}))

	delivery := "DLV-3"
	s.Require().NoError(s.store.Ledger().UpdateLinks(s.ctx, second.ID, ports.TransactionLinks{LinkedDeliveryID: &delivery}))

	linked, err := s.store.Ledger().GetByID(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Require().NotNil(linked.FinanceTransactionID)
	s.Equal(finance, *linked.FinanceTransactionID)
	s.Require().NotNil(linked.LinkedDeliveryID)
	s.Equal(delivery, *linked.LinkedDeliveryID)

	err = s.store.Ledger().UpdateLinks(s.ctx, uuid.New(), ports.TransactionLinks{FinanceTransactionID: &finance})
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *StoreSuite) TestResetAll() {
	item := s.createItem()
	s.receive(item.ID, 3)
	s.Require().NoError(s.store.Suppliers().Create(s.ctx, helpers.CreateTestSupplier()))

	counts, err := s.store.ResetAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(ports.ResetCounts{Transactions: 1, Items: 1, Warehouses: 1, Suppliers: 1}, counts)

	s.SetupTest()
	again := s.createItem()
	entry := s.receive(again.ID, 1)
	s.Equal(int64(1), entry.TransactionNumber)
}

func TestStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(StoreSuite))
}
