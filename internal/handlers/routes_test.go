package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockledger/internal/adapters/memstore"
	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/core/services"
	"github.com/ammerola/stockledger/internal/handlers"
	"github.com/ammerola/stockledger/internal/handlers/middleware"
	"github.com/ammerola/stockledger/test/helpers"
)

type apiClient struct {
	t       *testing.T
	handler http.Handler
}

func (c apiClient) do(method, path string, body interface{}, out interface{}) int {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		reader = jsonBody(c.t, body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-Actor", "warehouse-clerk")
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	if out != nil && w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func newLedgerAPI(t *testing.T) apiClient {
	t.Helper()
	log := helpers.TestLogger()
	store := memstore.New(log)

	catalog := services.NewCatalogService(store.Items(), store.Warehouses(), store.Suppliers(), nil, log)
	ledger := services.NewLedger(store.Ledger(), log)
	projector := services.NewStockProjector(store, store.Ledger(), log)
	ops := services.NewOperationsService(store, store, ledger, projector, log)
	stats := services.NewStatisticsService(store.Items(), store.Warehouses(), store.Ledger(), log)
	migration := services.NewMigrationService(catalog, ops, store, nil, true, log)

	mux := http.NewServeMux()
	handlers.Routes{
		Stock:      handlers.NewStockHandler(ops, log),
		Catalog:    handlers.NewCatalogHandler(catalog, log),
		Statistics: handlers.NewStatisticsHandler(stats, nil, nil, log),
		Export:     handlers.NewExportHandler(ops, log),
		Admin:      handlers.NewAdminHandler(migration, log),
	}.Register(mux)

	return apiClient{
		t: t,
		handler: middleware.Chain(mux,
			middleware.Recovery(log),
			middleware.RequestID("X-Request-ID"),
			middleware.Actor("X-Actor"),
			middleware.Logger(log),
		),
	}
}

func TestRoutes_StockLifecycle(t *testing.T) {
	api := newLedgerAPI(t)

	var warehouse domain.Warehouse
	require.Equal(t, http.StatusCreated, api.do("POST", "/api/v1/warehouses",
		map[string]string{"code": "MAIN", "name": "Main warehouse"}, &warehouse))
	require.Equal(t, http.StatusOK, api.do("POST", "/api/v1/warehouses/"+warehouse.ID.String()+"/default", nil, nil))

	var item domain.Item
	require.Equal(t, http.StatusCreated, api.do("POST", "/api/v1/items", map[string]string{
		"sku": "BOLT-M8", "name": "Hex bolt M8", "category": "component", "min_stock_level": "5",
	}, &item))
	itemPath := "/api/v1/items/" + item.ID.String()

	var receipt domain.Transaction
	require.Equal(t, http.StatusCreated, api.do("POST", "/api/v1/stock/receive", map[string]string{
		"item_id": item.ID.String(), "quantity": "10", "unit_price": "0.50",
	}, &receipt))
	assert.Equal(t, "warehouse-clerk", receipt.CreatedBy)
	assert.True(t, receipt.NewStock.Equal(decimal.NewFromInt(10)))
	require.NotNil(t, receipt.WarehouseID)
	assert.Equal(t, warehouse.ID, *receipt.WarehouseID)

	var issue domain.Transaction
	require.Equal(t, http.StatusCreated, api.do("POST", "/api/v1/stock/issue", map[string]string{
		"item_id": item.ID.String(), "quantity": "4",
	}, &issue))
	assert.True(t, issue.PreviousStock.Equal(decimal.NewFromInt(10)))
	assert.True(t, issue.NewStock.Equal(decimal.NewFromInt(6)))

	var rejected handlers.ErrorResponse
	assert.Equal(t, http.StatusUnprocessableEntity, api.do("POST", "/api/v1/stock/issue", map[string]string{
		"item_id": item.ID.String(), "quantity": "7",
	}, &rejected))
	assert.Equal(t, "insufficient_stock", rejected.Code)

	// cancelling the receipt would leave the later issue uncovered
	assert.Equal(t, http.StatusUnprocessableEntity,
		api.do("POST", "/api/v1/transactions/"+receipt.ID.String()+"/cancel", nil, &rejected))
	assert.Equal(t, "would_go_negative", rejected.Code)

	var cancelled domain.Transaction
	require.Equal(t, http.StatusOK,
		api.do("POST", "/api/v1/transactions/"+issue.ID.String()+"/cancel", nil, &cancelled))
	assert.Equal(t, domain.TransactionCancelled, cancelled.Status)
	assert.Equal(t, "warehouse-clerk", cancelled.CancelledBy)

	assert.Equal(t, http.StatusConflict,
		api.do("POST", "/api/v1/transactions/"+issue.ID.String()+"/cancel", nil, &rejected))

	var current domain.Item
	require.Equal(t, http.StatusOK, api.do("GET", itemPath, nil, &current))
	assert.True(t, current.Stock.Quantity.Equal(decimal.NewFromInt(10)), current.Stock.Quantity.String())

	var history struct {
		Transactions []domain.Transaction `json:"transactions"`
	}
	require.Equal(t, http.StatusOK, api.do("GET", itemPath+"/history", nil, &history))
	assert.Len(t, history.Transactions, 2)

	var reconcile ports.ReconcileResult
	require.Equal(t, http.StatusOK, api.do("POST", itemPath+"/reconcile", nil, &reconcile))
	assert.False(t, reconcile.Drifted)

	var stats ports.Statistics
	require.Equal(t, http.StatusOK, api.do("GET", "/api/v1/statistics", nil, &stats))
	assert.Equal(t, 1, stats.TotalItems)
	assert.True(t, stats.TotalQuantity.Equal(decimal.NewFromInt(10)))

	// the item has history, so a permanent delete needs cascade
	assert.Equal(t, http.StatusConflict, api.do("DELETE", itemPath+"?permanent=true", nil, &rejected))
}

func TestRoutes_AdminReset(t *testing.T) {
	api := newLedgerAPI(t)

	require.Equal(t, http.StatusCreated, api.do("POST", "/api/v1/warehouses",
		map[string]string{"code": "MAIN", "name": "Main warehouse"}, nil))

	assert.Equal(t, http.StatusBadRequest,
		api.do("POST", "/api/v1/admin/reset", map[string]string{"confirmation": "please"}, nil))

	var resp struct {
		Deleted ports.ResetCounts `json:"deleted"`
	}
	require.Equal(t, http.StatusOK, api.do("POST", "/api/v1/admin/reset",
		map[string]string{"confirmation": services.ResetConfirmationPhrase}, &resp))
	assert.Equal(t, int64(1), resp.Deleted.Warehouses)

	var list struct {
		Warehouses []domain.Warehouse `json:"warehouses"`
	}
	require.Equal(t, http.StatusOK, api.do("GET", "/api/v1/warehouses", nil, &list))
	assert.Empty(t, list.Warehouses)
}

func TestRoutes_UnknownTransaction(t *testing.T) {
	api := newLedgerAPI(t)

	assert.Equal(t, http.StatusNotFound,
		api.do("GET", "/api/v1/transactions/5b0f6a1e-3c1e-4ad1-9a55-5b1f1f0c2d11", nil, nil))
	assert.Equal(t, http.StatusMethodNotAllowed,
		api.do("DELETE", "/api/v1/transactions/5b0f6a1e-3c1e-4ad1-9a55-5b1f1f0c2d11", nil, nil))
}
