// internal/workers/report_processor.go
package workers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ammerola/stockledger/internal/adapters/spreadsheet"
	"github.com/ammerola/stockledger/internal/core/ports"
)

// JobKindStatisticsReport tags job statuses written for statistics snapshots
const JobKindStatisticsReport = "statistics_report"

// ReportProcessor renders statistics snapshots into workbooks in object storage
type ReportProcessor struct {
	statistics ports.StatisticsService
	storage    ports.ObjectStorage
	jobs       *JobStore
	logger     *slog.Logger
}

// NewReportProcessor creates a new report processor
func NewReportProcessor(statistics ports.StatisticsService, storage ports.ObjectStorage, jobs *JobStore, logger *slog.Logger) *ReportProcessor {
	return &ReportProcessor{
		statistics: statistics,
		storage:    storage,
		jobs:       jobs,
		logger:     logger.With(slog.String("processor", "report")),
	}
}

// ReportKey is the object key of a snapshot generated at the given time
func ReportKey(jobID string, at time.Time) string {
	return fmt.Sprintf("%sstatistics/%s/%s.xlsx", ports.ReportPrefix, at.UTC().Format("2006-01-02"), jobID)
}

// GenerateStatisticsReport computes statistics for the payload filter and uploads the workbook
func (p *ReportProcessor) GenerateStatisticsReport(ctx context.Context, t *asynq.Task) error {
	var payload ReportJobPayload
	if err := decodePayload(t, &payload); err != nil {
		return err
	}
	if payload.JobID == "" {
		payload.JobID = uuid.NewString()
	}

	p.logger.InfoContext(ctx, "generating statistics report", slog.String("job_id", payload.JobID))
	p.setState(ctx, payload.JobID, JobProcessing, "", "")

	stats, err := p.statistics.GetStatistics(ctx, ports.StatisticsFilter{
		From:        payload.From,
		To:          payload.To,
		WarehouseID: payload.WarehouseID,
		Category:    payload.Category,
	})
	if err != nil {
		p.setState(ctx, payload.JobID, JobFailed, "", err.Error())
		return fmt.Errorf("failed to compute statistics: %w", err)
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteStatistics(&buf, stats); err != nil {
		p.setState(ctx, payload.JobID, JobFailed, "", err.Error())
		return fmt.Errorf("failed to render statistics: %v: %w", err, asynq.SkipRetry)
	}

	key := ReportKey(payload.JobID, stats.GeneratedAt)
	location, err := p.storage.Upload(ctx, key, &buf, spreadsheet.ContentType)
	if err != nil {
		p.setState(ctx, payload.JobID, JobFailed, "", err.Error())
		return fmt.Errorf("failed to upload report: %w", err)
	}

	p.setState(ctx, payload.JobID, JobCompleted, location, "")
	p.logger.InfoContext(ctx, "statistics report generated",
		slog.String("job_id", payload.JobID),
		slog.String("key", key))
	return nil
}

func (p *ReportProcessor) setState(ctx context.Context, jobID string, state JobState, location, msg string) {
	err := p.jobs.transition(ctx, jobID, JobKindStatisticsReport, func(s *JobStatus) {
		s.State = state
		s.Location = location
		s.Error = msg
	})
	if err != nil {
		p.logger.WarnContext(ctx, "failed to update job status",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
	}
}
