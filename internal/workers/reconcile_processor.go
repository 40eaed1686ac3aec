// internal/workers/reconcile_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	redis_a "github.com/ammerola/stockledger/internal/adapters/redis_adapter"
	"github.com/ammerola/stockledger/internal/core/ports"
)

const reconcilePageSize = 500

// DriftCounterKey holds the running total of drifted items corrected by reconcile runs
func DriftCounterKey() string {
	return redis_a.BuildKey(redis_a.PrefixReconcile, "drifted")
}

// ReconcileProcessor recomputes every item's stock from its ledger
type ReconcileProcessor struct {
	catalog     ports.CatalogService
	ops         ports.StockOperations
	counter     ports.CacheRepository
	concurrency int
	logger      *slog.Logger
}

// NewReconcileProcessor creates a new reconcile processor. counter may be nil.
func NewReconcileProcessor(catalog ports.CatalogService, ops ports.StockOperations, counter ports.CacheRepository, concurrency int, logger *slog.Logger) *ReconcileProcessor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &ReconcileProcessor{
		catalog:     catalog,
		ops:         ops,
		counter:     counter,
		concurrency: concurrency,
		logger:      logger.With(slog.String("processor", "reconcile")),
	}
}

// ReconcileSummary counts the outcome of a full reconcile run
type ReconcileSummary struct {
	Checked int64
	Drifted int64
	Failed  int64
}

// ReconcileAll walks the catalog page by page. A failing item is logged and
// counted; the task fails only when the catalog itself cannot be read.
func (p *ReconcileProcessor) ReconcileAll(ctx context.Context, t *asynq.Task) error {
	summary, err := p.Run(ctx)
	if err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "reconcile finished",
		slog.Int64("checked", summary.Checked),
		slog.Int64("drifted", summary.Drifted),
		slog.Int64("failed", summary.Failed))
	return nil
}

// Run reconciles every item and returns the counts
func (p *ReconcileProcessor) Run(ctx context.Context) (ReconcileSummary, error) {
	var checked, drifted, failed atomic.Int64

	for offset := 0; ; offset += reconcilePageSize {
		page, err := p.catalog.ListItems(ctx, ports.ItemFilter{Limit: reconcilePageSize, Offset: offset})
		if err != nil {
			return ReconcileSummary{}, fmt.Errorf("failed to list items: %w", err)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.concurrency)
		for i := range page.Items {
			item := page.Items[i]
			g.Go(func() error {
				res, err := p.ops.Reconcile(gctx, item.ID)
				checked.Add(1)
				if err != nil {
					failed.Add(1)
					p.logger.WarnContext(gctx, "reconcile failed",
						slog.String("item_id", item.ID.String()),
						slog.String("error", err.Error()))
					return nil
				}
				if res.Drifted {
					drifted.Add(1)
					p.logger.WarnContext(gctx, "stock drift corrected",
						slog.String("item_id", item.ID.String()),
						slog.String("sku", item.SKU),
						slog.String("previous", res.Previous.String()),
						slog.String("current", res.Current.String()))
					p.countDrift(gctx)
				}
				return nil
			})
		}
		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			return ReconcileSummary{}, err
		}
		if len(page.Items) < reconcilePageSize {
			break
		}
	}

	return ReconcileSummary{
		Checked: checked.Load(),
		Drifted: drifted.Load(),
		Failed:  failed.Load(),
	}, nil
}

// countDrift bumps the drift total. A cache failure never fails the run.
func (p *ReconcileProcessor) countDrift(ctx context.Context) {
	if p.counter == nil {
		return
	}
	if _, err := p.counter.Increment(ctx, DriftCounterKey()); err != nil {
		p.logger.WarnContext(ctx, "failed to count stock drift", slog.String("error", err.Error()))
	}
}
