// internal/workers/import_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/stockledger/internal/adapters/spreadsheet"
	"github.com/ammerola/stockledger/internal/core/ports"
)

// JobKindLegacyImport tags job statuses written for legacy imports
const JobKindLegacyImport = "legacy_import"

// ImportProcessor runs legacy imports from files uploaded to object storage
type ImportProcessor struct {
	storage   ports.ObjectStorage
	migration ports.MigrationService
	jobs      *JobStore
	timeout   time.Duration
	logger    *slog.Logger
}

// NewImportProcessor creates a new import processor. timeout bounds one run; zero disables it.
func NewImportProcessor(
	storage ports.ObjectStorage,
	migration ports.MigrationService,
	jobs *JobStore,
	timeout time.Duration,
	logger *slog.Logger,
) *ImportProcessor {
	return &ImportProcessor{
		storage:   storage,
		migration: migration,
		jobs:      jobs,
		timeout:   timeout,
		logger:    logger.With(slog.String("processor", "import")),
	}
}

// importLease outlives the processing timeout so a lease never expires under a running import
func importLease(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return time.Hour
	}
	return timeout + time.Minute
}

// ProcessImport downloads the uploaded file, parses it and imports the rows.
// Unreadable files fail the job without retry; storage and store errors are retried.
func (p *ImportProcessor) ProcessImport(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var payload ImportJobPayload
	if err := decodePayload(t, &payload); err != nil {
		return err
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	log := p.logger.With(slog.String("job_id", payload.JobID), slog.String("filename", payload.Filename))

	claimed, err := p.jobs.Claim(ctx, payload.JobID, importLease(p.timeout))
	if err != nil {
		return err
	}
	if !claimed {
		return fmt.Errorf("import %s is already running", payload.JobID)
	}
	defer func() {
		if err := p.jobs.Release(context.WithoutCancel(ctx), payload.JobID); err != nil {
			log.WarnContext(ctx, "failed to release import lease", slog.String("error", err.Error()))
		}
	}()

	log.InfoContext(ctx, "processing legacy import", slog.String("object_key", payload.ObjectKey))

	p.setState(ctx, payload, JobProcessing, nil, "")

	data, err := p.storage.Download(ctx, payload.ObjectKey)
	if err != nil {
		p.setState(ctx, payload, JobFailed, nil, err.Error())
		return fmt.Errorf("failed to download import file: %w", err)
	}

	records, issues, err := spreadsheet.ReadLegacy(payload.Filename, data)
	if err != nil {
		p.setState(ctx, payload, JobFailed, nil, err.Error())
		return fmt.Errorf("failed to parse %s: %v: %w", payload.Filename, err, asynq.SkipRetry)
	}

	report, err := p.migration.ImportLegacy(ctx, records, payload.Actor)
	if err != nil {
		p.setState(ctx, payload, JobFailed, report, err.Error())
		return fmt.Errorf("failed to import legacy records: %w", err)
	}

	report.Total += len(issues)
	report.Failed += len(issues)
	report.Errors = append(issues, report.Errors...)

	state := JobCompleted
	if report.Failed > 0 {
		state = JobCompletedWithErrors
	}
	p.setState(ctx, payload, state, report, "")

	if err := p.storage.Delete(ctx, payload.ObjectKey); err != nil {
		log.WarnContext(ctx, "failed to remove import file", slog.String("error", err.Error()))
	}

	log.InfoContext(ctx, "legacy import completed",
		slog.Int("total", report.Total),
		slog.Int("created", report.Created),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

func (p *ImportProcessor) setState(ctx context.Context, payload ImportJobPayload, state JobState, report *ports.ImportReport, msg string) {
	err := p.jobs.transition(ctx, payload.JobID, JobKindLegacyImport, func(s *JobStatus) {
		s.State = state
		s.Filename = payload.Filename
		s.Report = report
		s.Error = msg
	})
	if err != nil {
		p.logger.WarnContext(ctx, "failed to update job status",
			slog.String("job_id", payload.JobID),
			slog.String("status", string(state)),
			slog.String("error", err.Error()))
	}
}
