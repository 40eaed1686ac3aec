// internal/handlers/statistics.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/workers"
)

// StatisticsHandler serves aggregate statistics and queues workbook snapshots
type StatisticsHandler struct {
	responder
	statistics ports.StatisticsService
	enqueuer   workers.TaskEnqueuer
	jobs       *workers.JobStore
}

// NewStatisticsHandler creates a new statistics handler. enqueuer may be nil,
// in which case report snapshots are unavailable.
func NewStatisticsHandler(
	statistics ports.StatisticsService,
	enqueuer workers.TaskEnqueuer,
	jobs *workers.JobStore,
	log *slog.Logger,
) *StatisticsHandler {
	return &StatisticsHandler{
		responder:  responder{logger: log.With(slog.String("handler", "statistics"))},
		statistics: statistics,
		enqueuer:   enqueuer,
		jobs:       jobs,
	}
}

// GetStatistics handles GET /api/v1/statistics
func (h *StatisticsHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	filter, err := parseStatisticsFilter(r)
	if err != nil {
		h.respondServiceError(w, r, err, "get statistics")
		return
	}

	stats, err := h.statistics.GetStatistics(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, err, "get statistics")
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=30")
	h.respondJSON(w, http.StatusOK, stats)
}

// QueueReport handles POST /api/v1/reports/statistics. The filter is read from the query string.
func (h *StatisticsHandler) QueueReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.enqueuer == nil || h.jobs == nil {
		h.respondError(w, http.StatusServiceUnavailable, "Report generation is not available")
		return
	}

	filter, err := parseStatisticsFilter(r)
	if err != nil {
		h.respondServiceError(w, r, err, "queue report")
		return
	}

	jobID := uuid.New().String()
	task, err := workers.NewReportTask(workers.ReportJobPayload{
		JobID:       jobID,
		From:        filter.From,
		To:          filter.To,
		WarehouseID: filter.WarehouseID,
		Category:    filter.Category,
	})
	if err != nil {
		h.respondServiceError(w, r, err, "queue report")
		return
	}

	if err := h.jobs.Save(ctx, &workers.JobStatus{JobID: jobID, Kind: workers.JobKindStatisticsReport, State: workers.JobQueued}); err != nil {
		h.respondServiceError(w, r, err, "queue report")
		return
	}

	info, err := h.enqueuer.EnqueueContext(ctx, task)
	if err != nil {
		h.respondServiceError(w, r, err, "queue report")
		return
	}

	h.logger.InfoContext(ctx, "statistics report queued",
		slog.String("job_id", jobID),
		slog.String("task_id", info.ID))

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":     jobID,
		"status":     workers.JobQueued,
		"status_url": "/api/v1/jobs/" + jobID,
	})
}

func parseStatisticsFilter(r *http.Request) (ports.StatisticsFilter, error) {
	var (
		filter ports.StatisticsFilter
		err    error
	)
	q := r.URL.Query()

	if filter.From, err = queryTime(r, "from", false); err != nil {
		return filter, err
	}
	if filter.To, err = queryTime(r, "to", true); err != nil {
		return filter, err
	}
	if filter.WarehouseID, err = queryUUID(r, "warehouse_id"); err != nil {
		return filter, err
	}
	if v := q.Get("category"); v != "" {
		filter.Category = domain.ItemCategory(v)
		if !filter.Category.IsValid() {
			return filter, domain.InvalidArgument("unknown category %q", v)
		}
	}
	if v := q.Get("recent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, domain.InvalidArgument("recent must be a non-negative integer")
		}
		filter.RecentLimit = n
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, domain.InvalidArgument("to must not be before from")
	}
	return filter, nil
}
