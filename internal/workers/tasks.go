// internal/workers/tasks.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ammerola/stockledger/internal/core/domain"
)

const (
	TypeLegacyImport     = "ledger:legacy_import"
	TypeStatisticsReport = "report:statistics"
	TypeReconcileAll     = "ledger:reconcile_all"
	TypeCleanupStorage   = "cleanup:storage"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// TaskEnqueuer is the subset of *asynq.Client used by producers
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ImportJobPayload points a legacy import at an uploaded file in object storage
type ImportJobPayload struct {
	JobID     string `json:"job_id"`
	ObjectKey string `json:"object_key"`
	Filename  string `json:"filename"`
	Actor     string `json:"actor,omitempty"`
}

// ReportJobPayload selects the statistics rendered into a snapshot workbook
type ReportJobPayload struct {
	JobID       string              `json:"job_id"`
	From        *time.Time          `json:"from,omitempty"`
	To          *time.Time          `json:"to,omitempty"`
	WarehouseID *uuid.UUID          `json:"warehouse_id,omitempty"`
	Category    domain.ItemCategory `json:"category,omitempty"`
}

// NewImportTask builds a legacy import task. The task id is the job id, so
// the same upload cannot be queued twice. Existing SKUs are skipped on retry.
func NewImportTask(p ImportJobPayload, maxRetry int) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal import payload: %w", err)
	}
	return asynq.NewTask(TypeLegacyImport, b,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(maxRetry),
		asynq.TaskID(p.JobID),
		asynq.Retention(24*time.Hour)), nil
}

// NewReportTask builds a statistics snapshot task
func NewReportTask(p ReportJobPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report payload: %w", err)
	}
	return asynq.NewTask(TypeStatisticsReport, b,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour)), nil
}

// NewReconcileAllTask builds the periodic reconcile task
func NewReconcileAllTask() *asynq.Task {
	return asynq.NewTask(TypeReconcileAll, nil, asynq.Queue(QueueLow), asynq.MaxRetry(1))
}

// NewCleanupTask builds the periodic storage retention task
func NewCleanupTask() *asynq.Task {
	return asynq.NewTask(TypeCleanupStorage, nil, asynq.Queue(QueueLow), asynq.MaxRetry(1))
}

func decodePayload(t *asynq.Task, dst interface{}) error {
	if err := json.Unmarshal(t.Payload(), dst); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	return nil
}
