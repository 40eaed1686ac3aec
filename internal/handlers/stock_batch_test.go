package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockledger/internal/adapters/memstore"
	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/core/services"
	"github.com/ammerola/stockledger/internal/handlers"
	"github.com/ammerola/stockledger/test/helpers"
)

type memLedger struct {
	catalog *services.CatalogService
	ops     *services.OperationsService
}

func newMemLedger(t *testing.T) *memLedger {
	t.Helper()
	log := helpers.TestLogger()
	store := memstore.New(log)

	l := &memLedger{
		catalog: services.NewCatalogService(store.Items(), store.Warehouses(), store.Suppliers(), nil, log),
		ops: services.NewOperationsService(store, store,
			services.NewLedger(store.Ledger(), log),
			services.NewStockProjector(store, store.Ledger(), log), log),
	}
	require.NoError(t, l.catalog.CreateWarehouse(context.Background(), &domain.Warehouse{Code: "MAIN", Name: "Main"}))
	return l
}

func (l *memLedger) item(t *testing.T, sku string) *domain.Item {
	t.Helper()
	item := &domain.Item{SKU: sku, Name: sku, Category: domain.CategoryComponent}
	require.NoError(t, l.catalog.CreateItem(context.Background(), item))
	return item
}

func (l *memLedger) stock(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	item, err := l.catalog.GetItem(context.Background(), id)
	require.NoError(t, err)
	return item.Stock.Quantity
}

func TestStockHandler_BatchCorrect_ReportsPartialCommit(t *testing.T) {
	ctx := context.Background()
	l := newMemLedger(t)
	handler := handlers.NewStockHandler(l.ops, helpers.TestLogger())

	itemA := l.item(t, "BATCH-A")
	itemB := l.item(t, "BATCH-B")

	receiptA, err := l.ops.Receive(ctx, ports.MovementRequest{ItemID: itemA.ID, Quantity: decimal.NewFromInt(10)})
	require.NoError(t, err)
	receiptB, err := l.ops.Receive(ctx, ports.MovementRequest{ItemID: itemB.ID, Quantity: decimal.NewFromInt(10)})
	require.NoError(t, err)
	_, err = l.ops.Issue(ctx, ports.MovementRequest{ItemID: itemB.ID, Quantity: decimal.NewFromInt(8)})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/transactions/batch-correct", jsonBody(t, map[string]interface{}{
		"updates": []map[string]string{
			{"entry_id": receiptA.ID.String(), "new_quantity": "7"},
			{"entry_id": receiptB.ID.String(), "new_quantity": "2"},
		},
	}))
	w := httptest.NewRecorder()

	handler.BatchCorrect(w, req)

	require.Equal(t, http.StatusMultiStatus, w.Code, w.Body.String())
	var resp struct {
		Results []ports.ItemCorrectionResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)

	byItem := map[uuid.UUID]ports.ItemCorrectionResult{}
	for _, res := range resp.Results {
		byItem[res.ItemID] = res
	}
	assert.True(t, byItem[itemA.ID].Applied)
	assert.True(t, byItem[itemA.ID].FinalStock.Equal(decimal.NewFromInt(7)))
	assert.False(t, byItem[itemB.ID].Applied)
	assert.NotEmpty(t, byItem[itemB.ID].Error)

	assert.True(t, l.stock(t, itemA.ID).Equal(decimal.NewFromInt(7)))
	assert.True(t, l.stock(t, itemB.ID).Equal(decimal.NewFromInt(2)))
}

func TestStockHandler_BatchCorrect_AllRejected(t *testing.T) {
	ctx := context.Background()
	l := newMemLedger(t)
	handler := handlers.NewStockHandler(l.ops, helpers.TestLogger())

	item := l.item(t, "BATCH-C")
	receipt, err := l.ops.Receive(ctx, ports.MovementRequest{ItemID: item.ID, Quantity: decimal.NewFromInt(10)})
	require.NoError(t, err)
	_, err = l.ops.Issue(ctx, ports.MovementRequest{ItemID: item.ID, Quantity: decimal.NewFromInt(8)})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/transactions/batch-correct", jsonBody(t, map[string]interface{}{
		"updates": []map[string]string{{"entry_id": receipt.ID.String(), "new_quantity": "2"}},
	}))
	w := httptest.NewRecorder()

	handler.BatchCorrect(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.True(t, l.stock(t, item.ID).Equal(decimal.NewFromInt(2)))
}
