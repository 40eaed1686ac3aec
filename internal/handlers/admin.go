// internal/handlers/admin.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/pkg/logger"
)

// AdminHandler exposes destructive maintenance operations
type AdminHandler struct {
	responder
	migration ports.MigrationService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(migration ports.MigrationService, log *slog.Logger) *AdminHandler {
	return &AdminHandler{
		responder: responder{logger: log.With(slog.String("handler", "admin"))},
		migration: migration,
	}
}

// ResetRequest must carry the exact confirmation phrase
type ResetRequest struct {
	Confirmation string `json:"confirmation" validate:"required"`
}

// Reset handles POST /api/v1/admin/reset
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ResetRequest
	if !h.decode(w, r, &req) {
		return
	}

	counts, err := h.migration.ResetAll(ctx, req.Confirmation)
	if err != nil {
		h.respondServiceError(w, r, err, "reset stock data")
		return
	}

	h.logger.WarnContext(ctx, "stock data reset",
		slog.String("actor", logger.ActorFromContext(ctx)),
		slog.Int64("transactions", counts.Transactions),
		slog.Int64("items", counts.Items))

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "All stock data deleted",
		"deleted": counts,
	})
}
