// internal/handlers/routes.go
package handlers

import "net/http"

const apiV1 = "/api/v1"

// Routes bundles the handlers mounted on the API mux. Nil handlers are skipped.
type Routes struct {
	Health     *HealthHandler
	Stock      *StockHandler
	Catalog    *CatalogHandler
	Statistics *StatisticsHandler
	Import     *ImportHandler
	Export     *ExportHandler
	Admin      *AdminHandler
}

// Register mounts every route using Go 1.22 method patterns
func (rt Routes) Register(mux *http.ServeMux) {
	if h := rt.Health; h != nil {
		mux.HandleFunc("GET /health", h.Health)
		mux.HandleFunc("GET /ready", h.Readiness)
		mux.HandleFunc("GET "+apiV1+"/health", h.Health)
	}

	if h := rt.Stock; h != nil {
		mux.HandleFunc("POST "+apiV1+"/stock/receive", h.Receive)
		mux.HandleFunc("POST "+apiV1+"/stock/issue", h.Issue)
		mux.HandleFunc("POST "+apiV1+"/stock/adjust", h.Adjust)

		mux.HandleFunc("GET "+apiV1+"/transactions", h.ListTransactions)
		mux.HandleFunc("GET "+apiV1+"/transactions/{id}", h.GetTransaction)
		mux.HandleFunc("POST "+apiV1+"/transactions/{id}/cancel", h.CancelTransaction)
		mux.HandleFunc("PATCH "+apiV1+"/transactions/{id}/links", h.AttachLinks)
		mux.HandleFunc("POST "+apiV1+"/transactions/batch-correct", h.BatchCorrect)

		mux.HandleFunc("GET "+apiV1+"/items/{id}/history", h.ItemHistory)
		mux.HandleFunc("POST "+apiV1+"/items/{id}/reconcile", h.ReconcileItem)
	}

	if h := rt.Catalog; h != nil {
		mux.HandleFunc("GET "+apiV1+"/items", h.ListItems)
		mux.HandleFunc("POST "+apiV1+"/items", h.CreateItem)
		mux.HandleFunc("GET "+apiV1+"/items/{id}", h.GetItem)
		mux.HandleFunc("PUT "+apiV1+"/items/{id}", h.UpdateItem)
		mux.HandleFunc("DELETE "+apiV1+"/items/{id}", h.DeleteItem)

		mux.HandleFunc("GET "+apiV1+"/warehouses", h.ListWarehouses)
		mux.HandleFunc("POST "+apiV1+"/warehouses", h.CreateWarehouse)
		mux.HandleFunc("GET "+apiV1+"/warehouses/{id}", h.GetWarehouse)
		mux.HandleFunc("PUT "+apiV1+"/warehouses/{id}", h.UpdateWarehouse)
		mux.HandleFunc("DELETE "+apiV1+"/warehouses/{id}", h.DeleteWarehouse)
		mux.HandleFunc("POST "+apiV1+"/warehouses/{id}/default", h.SetDefaultWarehouse)

		mux.HandleFunc("GET "+apiV1+"/suppliers", h.ListSuppliers)
		mux.HandleFunc("POST "+apiV1+"/suppliers", h.CreateSupplier)
		mux.HandleFunc("GET "+apiV1+"/suppliers/{id}", h.GetSupplier)
		mux.HandleFunc("PUT "+apiV1+"/suppliers/{id}", h.UpdateSupplier)
		mux.HandleFunc("DELETE "+apiV1+"/suppliers/{id}", h.DeleteSupplier)
	}

	if h := rt.Statistics; h != nil {
		mux.HandleFunc("GET "+apiV1+"/statistics", h.GetStatistics)
		mux.HandleFunc("POST "+apiV1+"/reports/statistics", h.QueueReport)
	}

	if h := rt.Import; h != nil {
		mux.HandleFunc("POST "+apiV1+"/import/legacy", h.ImportLegacy)
		mux.HandleFunc("GET "+apiV1+"/import/status/{jobId}", h.GetStatus)
		mux.HandleFunc("GET "+apiV1+"/jobs/{jobId}", h.GetStatus)
	}

	if h := rt.Export; h != nil {
		mux.HandleFunc("GET "+apiV1+"/export/transactions", h.ExportTransactions)
	}

	if h := rt.Admin; h != nil {
		mux.HandleFunc("POST "+apiV1+"/admin/reset", h.Reset)
	}
}
