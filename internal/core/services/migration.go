// internal/core/services/migration.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
)

// ResetConfirmationPhrase must be passed verbatim to ResetAll
const ResetConfirmationPhrase = "DELETE ALL STOCK DATA"

// LegacyImportReference marks opening entries posted by the legacy import
const LegacyImportReference = "legacy-import"

// MigrationService imports legacy stock through the catalog and the
// operations facade, and wipes non-production environments
type MigrationService struct {
	catalog      ports.CatalogService
	ops          ports.StockOperations
	resetter     ports.Resetter
	invalidator  ports.StockCacheInvalidator
	resetAllowed bool
	logger       *slog.Logger
}

// Statically assert that *MigrationService implements the MigrationService interface.
var _ ports.MigrationService = (*MigrationService)(nil)

// NewMigrationService creates a migration service. resetAllowed is false in production.
func NewMigrationService(
	catalog ports.CatalogService,
	ops ports.StockOperations,
	resetter ports.Resetter,
	invalidator ports.StockCacheInvalidator,
	resetAllowed bool,
	logger *slog.Logger,
) *MigrationService {
	return &MigrationService{
		catalog:      catalog,
		ops:          ops,
		resetter:     resetter,
		invalidator:  invalidator,
		resetAllowed: resetAllowed,
		logger:       logger.With(slog.String("service", "migration")),
	}
}

// ImportLegacy creates one item per unseen SKU and posts its opening balance
// as a receive. Rows whose SKU already exists are skipped, so re-running the
// same source creates nothing. Row failures are collected, not fatal.
func (s *MigrationService) ImportLegacy(ctx context.Context, records []ports.LegacyRecord, actor string) (*ports.ImportReport, error) {
	actor = actorOrSystem(actor)
	report := &ports.ImportReport{Total: len(records)}
	warehouses := make(map[string]*domain.Warehouse)

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		row := i + 1
		sku := strings.TrimSpace(rec.SKU)

		created, err := s.importRecord(ctx, rec, sku, actor, warehouses)
		switch {
		case err != nil:
			report.Failed++
			report.Errors = append(report.Errors, ports.ImportError{Row: row, SKU: sku, Message: err.Error()})
			s.logger.WarnContext(ctx, "legacy row rejected",
				slog.Int("row", row),
				slog.String("sku", sku),
				slog.String("error", err.Error()))
		case created:
			report.Created++
		default:
			report.Skipped++
		}
	}

	s.logger.InfoContext(ctx, "legacy import finished",
		slog.Int("total", report.Total),
		slog.Int("created", report.Created),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed))
	return report, nil
}

func (s *MigrationService) importRecord(ctx context.Context, rec ports.LegacyRecord, sku, actor string, warehouses map[string]*domain.Warehouse) (bool, error) {
	if sku == "" {
		return false, domain.InvalidArgument("sku is required")
	}
	if rec.Quantity.IsNegative() {
		return false, domain.InvalidArgument("quantity cannot be negative")
	}

	_, err := s.catalog.GetItemBySKU(ctx, sku)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	currency, err := domain.ParseCurrency(rec.Currency)
	if err != nil {
		return false, err
	}
	category := domain.ItemCategory(strings.ToLower(strings.TrimSpace(rec.Category)))
	if !category.IsValid() {
		category = domain.CategoryOther
	}

	item := &domain.Item{
		SKU:         sku,
		Name:        strings.TrimSpace(rec.Name),
		Description: rec.Description,
		Category:    category,
		Stock: domain.StockInfo{
			MinStockLevel: rec.MinStockLevel,
			Unit:          strings.TrimSpace(rec.Unit),
		},
		Pricing: domain.Pricing{
			CostPrice: rec.CostPrice,
			SalePrice: rec.SalePrice,
			Currency:  currency,
		},
		Tracking: domain.Tracking{
			LotTracked:    rec.LotNumber != "",
			SerialTracked: rec.SerialNumber != "",
			LotNumber:     rec.LotNumber,
			SerialNumber:  rec.SerialNumber,
		},
	}
	if err := s.catalog.CreateItem(ctx, item); err != nil {
		return false, err
	}
	if !rec.Quantity.IsPositive() {
		return true, nil
	}

	wh, err := s.resolveWarehouse(ctx, rec.WarehouseCode, warehouses)
	if err != nil {
		s.rollbackItem(ctx, item)
		return false, err
	}
	req := ports.MovementRequest{
		ItemID:    item.ID,
		Quantity:  rec.Quantity,
		UnitPrice: rec.CostPrice,
		Currency:  currency,
		Subtype:   domain.SubtypeOpeningBalance,
		Metadata: ports.TransactionMetadata{
			LotNumber:    rec.LotNumber,
			SerialNumber: rec.SerialNumber,
			Reference:    LegacyImportReference,
		},
		Actor: actor,
	}
	if wh != nil {
		req.WarehouseID = &wh.ID
	}
	if _, err := s.ops.Receive(ctx, req); err != nil {
		s.rollbackItem(ctx, item)
		return false, fmt.Errorf("failed to post opening balance: %w", err)
	}
	return true, nil
}

// resolveWarehouse maps a legacy code to a warehouse; unknown or empty codes
// return nil so the facade falls back to the default warehouse
func (s *MigrationService) resolveWarehouse(ctx context.Context, code string, seen map[string]*domain.Warehouse) (*domain.Warehouse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, nil
	}
	if w, ok := seen[code]; ok {
		return w, nil
	}
	w, err := s.catalog.GetWarehouseByCode(ctx, code)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if w == nil {
		s.logger.WarnContext(ctx, "unknown legacy warehouse code, using default", slog.String("code", code))
	}
	seen[code] = w
	return w, nil
}

// rollbackItem removes an item whose opening balance failed so a re-run can import it
func (s *MigrationService) rollbackItem(ctx context.Context, item *domain.Item) {
	if err := s.catalog.DeleteItem(ctx, item.ID, true, false); err != nil {
		s.logger.ErrorContext(ctx, "failed to roll back imported item",
			slog.String("sku", item.SKU),
			slog.String("error", err.Error()))
	}
}

// ResetAll deletes every transaction, item, supplier and warehouse.
// It is refused unless resets are allowed and confirmation matches ResetConfirmationPhrase.
func (s *MigrationService) ResetAll(ctx context.Context, confirmation string) (*ports.ResetCounts, error) {
	if !s.resetAllowed {
		return nil, domain.NewInvalidState("environment", "current", "reset is disabled")
	}
	if confirmation != ResetConfirmationPhrase {
		return nil, domain.InvalidArgument("confirmation must be %q", ResetConfirmationPhrase)
	}

	counts, err := s.resetter.ResetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reset stock data: %w", err)
	}
	if s.invalidator != nil {
		if err := s.invalidator.InvalidateStock(ctx); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate stock cache", slog.String("error", err.Error()))
		}
	}

	s.logger.WarnContext(ctx, "all stock data deleted",
		slog.Int64("transactions", counts.Transactions),
		slog.Int64("items", counts.Items),
		slog.Int64("warehouses", counts.Warehouses),
		slog.Int64("suppliers", counts.Suppliers))
	return &counts, nil
}
