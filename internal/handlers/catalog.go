// internal/handlers/catalog.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
)

// CatalogHandler serves item, warehouse and supplier CRUD. None of it moves stock.
type CatalogHandler struct {
	responder
	catalog ports.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog ports.CatalogService, log *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		responder: responder{logger: log.With(slog.String("handler", "catalog"))},
		catalog:   catalog,
	}
}

// ItemRequest is the body of POST /items and PUT /items/{id}.
// Stock quantity is not accepted: it only moves through the stock endpoints.
type ItemRequest struct {
	SKU           string          `json:"sku" validate:"required,max=64"`
	Name          string          `json:"name" validate:"required,max=255"`
	Description   string          `json:"description,omitempty" validate:"max=4000"`
	Category      string          `json:"category,omitempty" validate:"max=32"`
	Ownership     string          `json:"ownership,omitempty" validate:"omitempty,oneof=own customer"`
	CustomerID    string          `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	Unit          string          `json:"unit,omitempty" validate:"max=16"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Currency      string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	WarehouseID   string          `json:"warehouse_id,omitempty" validate:"omitempty,uuid"`
	SupplierID    string          `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
	LotTracked    bool            `json:"lot_tracked,omitempty"`
	SerialTracked bool            `json:"serial_tracked,omitempty"`
	Status        string          `json:"status,omitempty" validate:"omitempty,oneof=active inactive discontinued"`
}

// ToDomain converts the request to a domain model
func (r *ItemRequest) ToDomain() (*domain.Item, error) {
	currency, err := domain.ParseCurrency(r.Currency)
	if err != nil {
		return nil, err
	}
	return &domain.Item{
		SKU:         r.SKU,
		Name:        r.Name,
		Description: r.Description,
		Category:    domain.ItemCategory(r.Category),
		Ownership:   domain.Ownership(r.Ownership),
		CustomerID:  optionalUUID(r.CustomerID),
		Stock: domain.StockInfo{
			MinStockLevel: r.MinStockLevel,
			Unit:          r.Unit,
		},
		Pricing: domain.Pricing{
			CostPrice: r.CostPrice,
			SalePrice: r.SalePrice,
			Currency:  currency,
		},
		WarehouseID: optionalUUID(r.WarehouseID),
		SupplierID:  optionalUUID(r.SupplierID),
		Tracking: domain.Tracking{
			LotTracked:    r.LotTracked,
			SerialTracked: r.SerialTracked,
		},
		Status: domain.ItemStatus(r.Status),
	}, nil
}

// WarehouseRequest is the body of POST /warehouses and PUT /warehouses/{id}
type WarehouseRequest struct {
	Code     string `json:"code" validate:"required,max=32"`
	Name     string `json:"name" validate:"required,max=255"`
	Address  string `json:"address,omitempty" validate:"max=500"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// ToDomain converts the request to a domain model
func (r *WarehouseRequest) ToDomain() *domain.Warehouse {
	w := &domain.Warehouse{Code: r.Code, Name: r.Name, Address: r.Address, IsActive: true}
	if r.IsActive != nil {
		w.IsActive = *r.IsActive
	}
	return w
}

// SupplierRequest is the body of POST /suppliers and PUT /suppliers/{id}
type SupplierRequest struct {
	Code         string `json:"code" validate:"required,max=32"`
	Name         string `json:"name" validate:"required,max=255"`
	ContactEmail string `json:"contact_email,omitempty" validate:"omitempty,email"`
	Phone        string `json:"phone,omitempty" validate:"max=32"`
	IsActive     *bool  `json:"is_active,omitempty"`
}

// ToDomain converts the request to a domain model
func (r *SupplierRequest) ToDomain() *domain.Supplier {
	s := &domain.Supplier{Code: r.Code, Name: r.Name, ContactEmail: r.ContactEmail, Phone: r.Phone, IsActive: true}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
	return s
}

// ListItems handles GET /api/v1/items
func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ports.ItemFilter{
		Search:   q.Get("search"),
		Category: domain.ItemCategory(q.Get("category")),
		Status:   domain.ItemStatus(q.Get("status")),
	}
	var err error
	if filter.WarehouseID, err = queryUUID(r, "warehouse_id"); err != nil {
		h.respondServiceError(w, r, err, "list items")
		return
	}
	if filter.SupplierID, err = queryUUID(r, "supplier_id"); err != nil {
		h.respondServiceError(w, r, err, "list items")
		return
	}
	filter.Limit, filter.Offset = pagination(r, 50)

	page, err := h.catalog.ListItems(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, err, "list items")
		return
	}

	h.respondJSON(w, http.StatusOK, page)
}

// CreateItem handles POST /api/v1/items
func (h *CatalogHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	item, err := req.ToDomain()
	if err != nil {
		h.respondServiceError(w, r, err, "create item")
		return
	}

	if err := h.catalog.CreateItem(ctx, item); err != nil {
		h.respondServiceError(w, r, err, "create item")
		return
	}

	h.respondJSON(w, http.StatusCreated, item)
}

// GetItem handles GET /api/v1/items/{id}
func (h *CatalogHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.catalog.GetItem(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "get item")
		return
	}

	h.respondJSON(w, http.StatusOK, item)
}

// UpdateItem handles PUT /api/v1/items/{id}
func (h *CatalogHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req ItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	item, err := req.ToDomain()
	if err != nil {
		h.respondServiceError(w, r, err, "update item")
		return
	}

	updated, err := h.catalog.UpdateItem(r.Context(), id, item)
	if err != nil {
		h.respondServiceError(w, r, err, "update item")
		return
	}

	h.respondJSON(w, http.StatusOK, updated)
}

// DeleteItem handles DELETE /api/v1/items/{id}?permanent=true&cascade=true
func (h *CatalogHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	permanent, _ := strconv.ParseBool(r.URL.Query().Get("permanent"))
	cascade, _ := strconv.ParseBool(r.URL.Query().Get("cascade"))

	if err := h.catalog.DeleteItem(r.Context(), id, permanent, cascade); err != nil {
		h.respondServiceError(w, r, err, "delete item")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Item deleted successfully",
		"item_id":   id,
		"permanent": permanent,
	})
}

// ListWarehouses handles GET /api/v1/warehouses
func (h *CatalogHandler) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))

	warehouses, err := h.catalog.ListWarehouses(r.Context(), activeOnly)
	if err != nil {
		h.respondServiceError(w, r, err, "list warehouses")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"warehouses": warehouses})
}

// CreateWarehouse handles POST /api/v1/warehouses
func (h *CatalogHandler) CreateWarehouse(w http.ResponseWriter, r *http.Request) {
	var req WarehouseRequest
	if !h.decode(w, r, &req) {
		return
	}
	warehouse := req.ToDomain()

	if err := h.catalog.CreateWarehouse(r.Context(), warehouse); err != nil {
		h.respondServiceError(w, r, err, "create warehouse")
		return
	}

	h.respondJSON(w, http.StatusCreated, warehouse)
}

// GetWarehouse handles GET /api/v1/warehouses/{id}
func (h *CatalogHandler) GetWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	warehouse, err := h.catalog.GetWarehouse(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "get warehouse")
		return
	}

	h.respondJSON(w, http.StatusOK, warehouse)
}

// UpdateWarehouse handles PUT /api/v1/warehouses/{id}
func (h *CatalogHandler) UpdateWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req WarehouseRequest
	if !h.decode(w, r, &req) {
		return
	}

	updated, err := h.catalog.UpdateWarehouse(r.Context(), id, req.ToDomain())
	if err != nil {
		h.respondServiceError(w, r, err, "update warehouse")
		return
	}

	h.respondJSON(w, http.StatusOK, updated)
}

// SetDefaultWarehouse handles POST /api/v1/warehouses/{id}/default
func (h *CatalogHandler) SetDefaultWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalog.SetDefaultWarehouse(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, "set default warehouse")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Default warehouse updated",
		"warehouse_id": id,
	})
}

// DeleteWarehouse handles DELETE /api/v1/warehouses/{id}
func (h *CatalogHandler) DeleteWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteWarehouse(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, "delete warehouse")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSuppliers handles GET /api/v1/suppliers
func (h *CatalogHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))

	suppliers, err := h.catalog.ListSuppliers(r.Context(), activeOnly)
	if err != nil {
		h.respondServiceError(w, r, err, "list suppliers")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"suppliers": suppliers})
}

// CreateSupplier handles POST /api/v1/suppliers
func (h *CatalogHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req SupplierRequest
	if !h.decode(w, r, &req) {
		return
	}
	supplier := req.ToDomain()

	if err := h.catalog.CreateSupplier(r.Context(), supplier); err != nil {
		h.respondServiceError(w, r, err, "create supplier")
		return
	}

	h.respondJSON(w, http.StatusCreated, supplier)
}

// GetSupplier handles GET /api/v1/suppliers/{id}
func (h *CatalogHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	supplier, err := h.catalog.GetSupplier(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "get supplier")
		return
	}

	h.respondJSON(w, http.StatusOK, supplier)
}

// UpdateSupplier handles PUT /api/v1/suppliers/{id}
func (h *CatalogHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req SupplierRequest
	if !h.decode(w, r, &req) {
		return
	}

	updated, err := h.catalog.UpdateSupplier(r.Context(), id, req.ToDomain())
	if err != nil {
		h.respondServiceError(w, r, err, "update supplier")
		return
	}

	h.respondJSON(w, http.StatusOK, updated)
}

// DeleteSupplier handles DELETE /api/v1/suppliers/{id}
func (h *CatalogHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteSupplier(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, "delete supplier")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
