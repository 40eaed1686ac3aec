// internal/handlers/export.go
package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ammerola/stockledger/internal/adapters/spreadsheet"
	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
)

const (
	exportPageSize = 500
	maxExportRows  = 100000
)

// JSONExportResponse is the body of a JSON ledger export
type JSONExportResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	Metadata     ExportMetadata       `json:"metadata"`
}

// ExportMetadata contains metadata about the export
type ExportMetadata struct {
	ExportDate time.Time `json:"export_date"`
	TotalRows  int       `json:"total_rows"`
	Truncated  bool      `json:"truncated"`
	Filters    string    `json:"filters,omitempty"`
}

// ExportHandler streams the ledger out as a workbook or JSON document
type ExportHandler struct {
	responder
	ops ports.StockOperations
}

// NewExportHandler creates a new export handler
func NewExportHandler(ops ports.StockOperations, log *slog.Logger) *ExportHandler {
	return &ExportHandler{
		responder: responder{logger: log.With(slog.String("handler", "export"))},
		ops:       ops,
	}
}

// ExportTransactions handles GET /api/v1/export/transactions?format=xlsx|json.
// It accepts the same filters as GET /transactions and exports oldest first.
func (h *ExportHandler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "json" {
		h.respondError(w, http.StatusBadRequest, "format must be xlsx or json")
		return
	}

	filter, err := parseTransactionFilter(r)
	if err != nil {
		h.respondServiceError(w, r, err, "export transactions")
		return
	}
	filter.Newest = false

	entries, truncated, err := h.collect(ctx, filter)
	if err != nil {
		h.respondServiceError(w, r, err, "export transactions")
		return
	}

	now := time.Now()
	if format == "json" {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="transactions_%s.json"`, now.Format("20060102_150405")))
		h.respondJSON(w, http.StatusOK, JSONExportResponse{
			Transactions: entries,
			Metadata: ExportMetadata{
				ExportDate: now,
				TotalRows:  len(entries),
				Truncated:  truncated,
				Filters:    r.URL.RawQuery,
			},
		})
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteTransactions(&buf, entries); err != nil {
		h.logger.ErrorContext(ctx, "failed to generate workbook", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("transactions_%s.xlsx", now.Format("20060102_150405"))
	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	if truncated {
		w.Header().Set("X-Export-Truncated", "true")
	}
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		h.logger.ErrorContext(ctx, "failed to write workbook", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "ledger export completed",
		slog.Int("total_rows", len(entries)),
		slog.String("filename", filename))
}

// collect pages through the ledger until the filter is exhausted or maxExportRows is reached
func (h *ExportHandler) collect(ctx context.Context, filter ports.TransactionFilter) ([]domain.Transaction, bool, error) {
	var entries []domain.Transaction
	filter.Limit = exportPageSize

	for filter.Offset = 0; ; filter.Offset += exportPageSize {
		page, err := h.ops.ListTransactions(ctx, filter)
		if err != nil {
			return nil, false, err
		}
		entries = append(entries, page.Transactions...)

		if len(entries) >= maxExportRows {
			return entries[:maxExportRows], true, nil
		}
		if len(page.Transactions) < exportPageSize {
			return entries, false, nil
		}
	}
}
