// internal/handlers/stock.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/pkg/logger"
)

// StockHandler exposes the operations facade: movements, cancellation,
// corrections and ledger reads
type StockHandler struct {
	responder
	ops ports.StockOperations
}

// NewStockHandler creates a new stock handler
func NewStockHandler(ops ports.StockOperations, log *slog.Logger) *StockHandler {
	return &StockHandler{
		responder: responder{logger: log.With(slog.String("handler", "stock"))},
		ops:       ops,
	}
}

// MovementRequest is the body of POST /stock/receive and POST /stock/issue
type MovementRequest struct {
	ItemID       string          `json:"item_id" validate:"required,uuid"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Currency     string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	WarehouseID  string          `json:"warehouse_id,omitempty" validate:"omitempty,uuid"`
	Subtype      string          `json:"subtype,omitempty" validate:"max=32"`
	CompanyID    string          `json:"company_id,omitempty" validate:"omitempty,uuid"`
	CompanyName  string          `json:"company_name,omitempty" validate:"max=255"`
	LotNumber    string          `json:"lot_number,omitempty" validate:"max=100"`
	SerialNumber string          `json:"serial_number,omitempty" validate:"max=100"`
	Reference    string          `json:"reference,omitempty" validate:"max=100"`
	Notes        string          `json:"notes,omitempty" validate:"max=2000"`
}

// ToPort converts the body into a facade request for the given actor
func (m *MovementRequest) ToPort(actor string) (ports.MovementRequest, error) {
	req := ports.MovementRequest{
		ItemID:      *optionalUUID(m.ItemID),
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		WarehouseID: optionalUUID(m.WarehouseID),
		Subtype:     domain.TransactionSubtype(m.Subtype),
		Metadata: ports.TransactionMetadata{
			CompanyID:    optionalUUID(m.CompanyID),
			CompanyName:  m.CompanyName,
			LotNumber:    m.LotNumber,
			SerialNumber: m.SerialNumber,
			Reference:    m.Reference,
			Notes:        m.Notes,
		},
		Actor: actor,
	}
	if m.Currency != "" {
		c, err := domain.ParseCurrency(m.Currency)
		if err != nil {
			return req, err
		}
		req.Currency = c
	}
	return req, nil
}

// AdjustRequest is the body of POST /stock/adjust
type AdjustRequest struct {
	ItemID  string          `json:"item_id" validate:"required,uuid"`
	Delta   decimal.Decimal `json:"delta"`
	Reason  string          `json:"reason" validate:"required,max=2000"`
	Subtype string          `json:"subtype,omitempty" validate:"max=32"`
}

// BatchCorrectRequest is the body of POST /transactions/batch-correct
type BatchCorrectRequest struct {
	Updates []ports.QuantityCorrection `json:"updates" validate:"required,min=1,max=1000"`
}

type movementFunc func(ctx context.Context, req ports.MovementRequest) (*domain.Transaction, error)

// Receive handles POST /api/v1/stock/receive
func (h *StockHandler) Receive(w http.ResponseWriter, r *http.Request) {
	h.movement(w, r, "receive stock", h.ops.Receive)
}

// Issue handles POST /api/v1/stock/issue
func (h *StockHandler) Issue(w http.ResponseWriter, r *http.Request) {
	h.movement(w, r, "issue stock", h.ops.Issue)
}

func (h *StockHandler) movement(w http.ResponseWriter, r *http.Request, action string, apply movementFunc) {
	ctx := r.Context()

	var body MovementRequest
	if !h.decode(w, r, &body) {
		return
	}
	req, err := body.ToPort(logger.ActorFromContext(ctx))
	if err != nil {
		h.respondServiceError(w, r, err, action)
		return
	}

	entry, err := apply(ctx, req)
	if err != nil {
		h.respondServiceError(w, r, err, action)
		return
	}

	h.respondJSON(w, http.StatusCreated, entry)
}

// Adjust handles POST /api/v1/stock/adjust
func (h *StockHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body AdjustRequest
	if !h.decode(w, r, &body) {
		return
	}

	entry, err := h.ops.Adjust(ctx, ports.AdjustRequest{
		ItemID:  *optionalUUID(body.ItemID),
		Delta:   body.Delta,
		Reason:  body.Reason,
		Subtype: domain.TransactionSubtype(body.Subtype),
		Actor:   logger.ActorFromContext(ctx),
	})
	if err != nil {
		h.respondServiceError(w, r, err, "adjust stock")
		return
	}

	h.respondJSON(w, http.StatusCreated, entry)
}

// ListTransactions handles GET /api/v1/transactions
func (h *StockHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r)
	if err != nil {
		h.respondServiceError(w, r, err, "list transactions")
		return
	}
	filter.Limit, filter.Offset = pagination(r, 50)

	page, err := h.ops.ListTransactions(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, err, "list transactions")
		return
	}

	h.respondJSON(w, http.StatusOK, page)
}

// GetTransaction handles GET /api/v1/transactions/{id}
func (h *StockHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	entry, err := h.ops.GetTransaction(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "get transaction")
		return
	}

	h.respondJSON(w, http.StatusOK, entry)
}

// CancelTransaction handles POST /api/v1/transactions/{id}/cancel
func (h *StockHandler) CancelTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	entry, err := h.ops.Cancel(ctx, id, logger.ActorFromContext(ctx))
	if err != nil {
		h.respondServiceError(w, r, err, "cancel transaction")
		return
	}

	h.respondJSON(w, http.StatusOK, entry)
}

// BatchCorrect handles POST /api/v1/transactions/batch-correct.
// Groups commit per item. A batch where some items committed and others
// failed answers 207 with every item's outcome; the joined error is already
// reported item by item. A batch where nothing committed maps to the error.
func (h *StockHandler) BatchCorrect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body BatchCorrectRequest
	if !h.decode(w, r, &body) {
		return
	}

	results, err := h.ops.BatchCorrectQuantities(ctx, body.Updates, logger.ActorFromContext(ctx))

	applied := 0
	for _, res := range results {
		if res.Applied {
			applied++
		}
	}

	switch {
	case applied == 0 && err != nil:
		h.respondServiceError(w, r, err, "correct transactions")
	case applied < len(results):
		h.logger.WarnContext(ctx, "batch correction partially applied",
			slog.Int("applied", applied),
			slog.Int("items", len(results)))
		h.respondJSON(w, http.StatusMultiStatus, map[string]interface{}{"results": results})
	default:
		h.respondJSON(w, http.StatusOK, map[string]interface{}{"results": results})
	}
}

// AttachLinks handles PATCH /api/v1/transactions/{id}/links
func (h *StockHandler) AttachLinks(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var links ports.TransactionLinks
	if !h.decode(w, r, &links) {
		return
	}

	entry, err := h.ops.AttachLinks(r.Context(), id, links)
	if err != nil {
		h.respondServiceError(w, r, err, "attach links")
		return
	}

	h.respondJSON(w, http.StatusOK, entry)
}

// ItemHistory handles GET /api/v1/items/{id}/history
func (h *StockHandler) ItemHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	history, err := h.ops.GetItemHistory(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "get item history")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"item_id":      id,
		"transactions": history,
	})
}

// ReconcileItem handles POST /api/v1/items/{id}/reconcile
func (h *StockHandler) ReconcileItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	res, err := h.ops.Reconcile(ctx, id)
	if err != nil {
		h.respondServiceError(w, r, err, "reconcile item")
		return
	}
	if res.Drifted {
		h.logger.WarnContext(ctx, "stock drift corrected",
			slog.String("item_id", id.String()),
			slog.String("previous", res.Previous.String()),
			slog.String("current", res.Current.String()))
	}

	h.respondJSON(w, http.StatusOK, res)
}

func parseTransactionFilter(r *http.Request) (ports.TransactionFilter, error) {
	var (
		filter ports.TransactionFilter
		err    error
	)
	q := r.URL.Query()

	if filter.ItemID, err = queryUUID(r, "item_id"); err != nil {
		return filter, err
	}
	if filter.WarehouseID, err = queryUUID(r, "warehouse_id"); err != nil {
		return filter, err
	}
	if v := q.Get("type"); v != "" {
		filter.Type = domain.TransactionType(v)
		if !filter.Type.IsValid() {
			return filter, domain.InvalidArgument("unknown transaction type %q", v)
		}
	}
	if v := q.Get("status"); v != "" {
		filter.Status = domain.TransactionStatus(v)
		if filter.Status != domain.TransactionCompleted && filter.Status != domain.TransactionCancelled {
			return filter, domain.InvalidArgument("unknown transaction status %q", v)
		}
	}
	if filter.From, err = queryTime(r, "from", false); err != nil {
		return filter, err
	}
	if filter.To, err = queryTime(r, "to", true); err != nil {
		return filter, err
	}
	filter.Newest = q.Get("order") != "asc"
	return filter, nil
}
