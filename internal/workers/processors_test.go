package workers_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/stockledger/internal/adapters/memstore"
	redis_a "github.com/ammerola/stockledger/internal/adapters/redis_adapter"
	"github.com/ammerola/stockledger/internal/adapters/storage"
	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/core/services"
	"github.com/ammerola/stockledger/internal/workers"
	"github.com/ammerola/stockledger/test/helpers"
	"github.com/ammerola/stockledger/test/mocks"
)

func buildLegacyWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	require.NoError(t, err)
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().Value = v
		}
	}
	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	return buf.Bytes()
}

func TestReportProcessor_UploadsWorkbook(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	statistics := mocks.NewMockStatisticsService(ctrl)
	local, err := storage.NewLocalStorage(t.TempDir(), helpers.TestLogger())
	require.NoError(t, err)
	jobs := newJobStore(t)

	warehouseID := uuid.New()
	generated := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	statistics.EXPECT().
		GetStatistics(gomock.Any(), ports.StatisticsFilter{WarehouseID: &warehouseID}).
		Return(&ports.Statistics{
			GeneratedAt:   generated,
			TotalItems:    3,
			TotalQuantity: decimal.NewFromInt(42),
			StockValue:    ports.CurrencyAmounts{domain.DefaultCurrency: decimal.NewFromInt(100)},
			Transactions:  ports.TransactionStats{ByType: map[domain.TransactionType]*ports.TypeStats{}},
		}, nil)

	task, err := workers.NewReportTask(workers.ReportJobPayload{JobID: "report-1", WarehouseID: &warehouseID})
	require.NoError(t, err)

	processor := workers.NewReportProcessor(statistics, local, jobs, helpers.TestLogger())
	require.NoError(t, processor.GenerateStatisticsReport(ctx, task))

	key := workers.ReportKey("report-1", generated)
	assert.Equal(t, "reports/statistics/2026-03-14/report-1.xlsx", key)

	data, err := local.Download(ctx, key)
	require.NoError(t, err)
	file, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	assert.Equal(t, "Summary", file.Sheets[0].Name)

	status, err := jobs.Get(ctx, "report-1")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, workers.JobCompleted, status.State)
	assert.Contains(t, status.Location, "report-1.xlsx")
}

func TestReportProcessor_StatisticsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	statistics := mocks.NewMockStatisticsService(ctrl)
	store := mocks.NewMockObjectStorage(ctrl)
	jobs := newJobStore(t)

	statistics.EXPECT().GetStatistics(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	task, err := workers.NewReportTask(workers.ReportJobPayload{JobID: "report-2"})
	require.NoError(t, err)

	processor := workers.NewReportProcessor(statistics, store, jobs, helpers.TestLogger())
	err = processor.GenerateStatisticsReport(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))

	status, err := jobs.Get(context.Background(), "report-2")
	require.NoError(t, err)
	assert.Equal(t, workers.JobFailed, status.State)
	assert.Equal(t, "db down", status.Error)
}

func TestCleanupProcessor_Sweep(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	local, err := storage.NewLocalStorage(base, helpers.TestLogger())
	require.NoError(t, err)

	keys := []string{
		"imports/old.xlsx",
		"imports/new.xlsx",
		"reports/statistics/old.xlsx",
		"archive/old.xlsx",
	}
	for _, key := range keys {
		_, err := local.Upload(ctx, key, bytes.NewReader([]byte("x")), "")
		require.NoError(t, err)
	}

	now := time.Now()
	old := now.Add(-10 * 24 * time.Hour)
	for _, key := range []string{"imports/old.xlsx", "reports/statistics/old.xlsx", "archive/old.xlsx"} {
		path := filepath.Join(base, filepath.FromSlash(key))
		require.NoError(t, os.Chtimes(path, old, old))
	}

	processor := workers.NewCleanupProcessor(local, 7*24*time.Hour, helpers.TestLogger())
	deleted, err := processor.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	for key, want := range map[string]bool{
		"imports/old.xlsx":            false,
		"imports/new.xlsx":            true,
		"reports/statistics/old.xlsx": false,
		"archive/old.xlsx":            true,
	} {
		exists, err := local.Exists(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, exists, key)
	}
}

func TestCleanupProcessor_DisabledRetention(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockObjectStorage(ctrl)

	processor := workers.NewCleanupProcessor(store, 0, helpers.TestLogger())
	require.NoError(t, processor.CleanupStorage(context.Background(), workers.NewCleanupTask()))
}

func TestCleanupProcessor_ListFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockObjectStorage(ctrl)
	store.EXPECT().List(gomock.Any(), ports.ImportPrefix).Return(nil, io.ErrUnexpectedEOF)

	processor := workers.NewCleanupProcessor(store, time.Hour, helpers.TestLogger())
	_, err := processor.Sweep(context.Background(), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReconcileProcessor_CorrectsDrift(t *testing.T) {
	ctx := context.Background()
	logger := helpers.TestLogger()
	store := memstore.New(logger)
	catalog := services.NewCatalogService(store.Items(), store.Warehouses(), store.Suppliers(), nil, logger)
	projector := services.NewStockProjector(store, store.Ledger(), logger)
	ops := services.NewOperationsService(store, store, services.NewLedger(store.Ledger(), logger), projector, logger)

	require.NoError(t, catalog.CreateWarehouse(ctx, helpers.CreateTestWarehouse()))

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		item := helpers.CreateTestItem()
		require.NoError(t, catalog.CreateItem(ctx, item))
		_, err := ops.Receive(ctx, ports.MovementRequest{ItemID: item.ID, Quantity: decimal.NewFromInt(5), Actor: "tester"})
		require.NoError(t, err)
		ids = append(ids, item.ID)
	}

	// Corrupt the cached quantity of one item behind the ledger's back
	err := store.WithItemTransaction(ctx, ids[1], func(ctx context.Context, tx ports.ItemTx) error {
		item := tx.Item()
		item.Stock.Quantity = decimal.NewFromInt(99)
		return tx.SaveItemStock(ctx, item)
	})
	require.NoError(t, err)

	r := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(r.Client, time.Hour, logger)

	processor := workers.NewReconcileProcessor(catalog, ops, cache, 2, logger)
	summary, err := processor.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Checked)
	assert.Equal(t, int64(1), summary.Drifted)
	assert.Zero(t, summary.Failed)

	var total int64
	require.NoError(t, cache.Get(ctx, workers.DriftCounterKey(), &total))
	assert.Equal(t, int64(1), total)

	item, err := catalog.GetItem(ctx, ids[1])
	require.NoError(t, err)
	assert.True(t, item.Stock.Quantity.Equal(decimal.NewFromInt(5)))

	require.NoError(t, processor.ReconcileAll(ctx, workers.NewReconcileAllTask()))
}

func TestReconcileProcessor_CountsItemFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalogService(ctrl)
	ops := mocks.NewMockStockOperations(ctrl)

	ok, broken := helpers.CreateTestItem(), helpers.CreateTestItem()
	catalog.EXPECT().ListItems(gomock.Any(), ports.ItemFilter{Limit: 500}).
		Return(&ports.ItemPage{Items: []domain.Item{*ok, *broken}}, nil)
	ops.EXPECT().Reconcile(gomock.Any(), ok.ID).Return(&ports.ReconcileResult{ItemID: ok.ID}, nil)
	ops.EXPECT().Reconcile(gomock.Any(), broken.ID).Return(nil, domain.ErrConcurrencyConflict)

	counter := mocks.NewMockCacheRepository(ctrl)
	processor := workers.NewReconcileProcessor(catalog, ops, counter, 1, helpers.TestLogger())
	summary, err := processor.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Checked)
	assert.Equal(t, int64(1), summary.Failed)
}
