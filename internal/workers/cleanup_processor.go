// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/stockledger/internal/core/ports"
)

// CleanupProcessor enforces storage retention for uploads and reports
type CleanupProcessor struct {
	storage   ports.ObjectStorage
	retainFor time.Duration
	prefixes  []string
	logger    *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(storage ports.ObjectStorage, retainFor time.Duration, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		storage:   storage,
		retainFor: retainFor,
		prefixes:  []string{ports.ImportPrefix, ports.ReportPrefix},
		logger:    logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupStorage removes import uploads and reports older than the retention period
func (p *CleanupProcessor) CleanupStorage(ctx context.Context, t *asynq.Task) error {
	deleted, err := p.Sweep(ctx, time.Now())
	if err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "storage cleaned up", slog.Int("objects_deleted", deleted))
	return nil
}

// Sweep deletes every object last modified before now minus the retention period
func (p *CleanupProcessor) Sweep(ctx context.Context, now time.Time) (int, error) {
	if p.retainFor <= 0 {
		return 0, nil
	}
	cutoff := now.Add(-p.retainFor)

	var deleted int
	for _, prefix := range p.prefixes {
		objects, err := p.storage.List(ctx, prefix)
		if err != nil {
			return deleted, fmt.Errorf("failed to list %s: %w", prefix, err)
		}

		var stale []string
		for _, obj := range objects {
			if obj.LastModified.Before(cutoff) {
				stale = append(stale, obj.Key)
			}
		}
		if len(stale) == 0 {
			continue
		}
		if err := p.storage.Delete(ctx, stale...); err != nil {
			return deleted, fmt.Errorf("failed to delete expired objects: %w", err)
		}
		deleted += len(stale)
	}
	return deleted, nil
}
