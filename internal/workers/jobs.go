// internal/workers/jobs.go
package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis_a "github.com/ammerola/stockledger/internal/adapters/redis_adapter"
	"github.com/ammerola/stockledger/internal/core/ports"
)

// JobState is the lifecycle of an asynchronous job
type JobState string

const (
	JobQueued              JobState = "queued"
	JobProcessing          JobState = "processing"
	JobCompleted           JobState = "completed"
	JobCompletedWithErrors JobState = "completed_with_errors"
	JobFailed              JobState = "failed"
)

// JobStatus is what callers poll for an import or report job
type JobStatus struct {
	JobID     string              `json:"job_id"`
	Kind      string              `json:"kind"`
	State     JobState            `json:"status"`
	Filename  string              `json:"filename,omitempty"`
	Location  string              `json:"location,omitempty"`
	Report    *ports.ImportReport `json:"report,omitempty"`
	Error     string              `json:"error,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Finished reports whether the job reached a terminal state
func (s *JobStatus) Finished() bool {
	return s.State == JobCompleted || s.State == JobCompletedWithErrors || s.State == JobFailed
}

// JobStore keeps job status in the cache under import:<job id>
type JobStore struct {
	cache ports.CacheRepository
	ttl   time.Duration
}

// NewJobStore creates a job store; statuses expire after ttl
func NewJobStore(cache ports.CacheRepository, ttl time.Duration) *JobStore {
	return &JobStore{cache: cache, ttl: ttl}
}

func jobKey(jobID string) string {
	return redis_a.BuildKey(redis_a.PrefixImportJob, jobID)
}

// Save stamps UpdatedAt and writes status
func (s *JobStore) Save(ctx context.Context, status *JobStatus) error {
	now := time.Now().UTC()
	if status.CreatedAt.IsZero() {
		status.CreatedAt = now
	}
	status.UpdatedAt = now
	if err := s.cache.SetWithTTL(ctx, jobKey(status.JobID), status, s.ttl); err != nil {
		return fmt.Errorf("failed to save job status: %w", err)
	}
	return nil
}

// Get returns nil, nil for an unknown or expired job
func (s *JobStore) Get(ctx context.Context, jobID string) (*JobStatus, error) {
	var status JobStatus
	if err := s.cache.Get(ctx, jobKey(jobID), &status); err != nil {
		if errors.Is(err, redis_a.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load job status: %w", err)
	}
	return &status, nil
}

// Claim takes the processing lease for jobID. It reports false while another
// worker holds the lease, which happens when asynq redelivers a running task.
func (s *JobStore) Claim(ctx context.Context, jobID string, lease time.Duration) (bool, error) {
	ok, err := s.cache.SetNX(ctx, redis_a.BuildKey(redis_a.PrefixLock, "job", jobID), time.Now().UTC(), lease)
	if err != nil {
		return false, fmt.Errorf("failed to claim job: %w", err)
	}
	return ok, nil
}

// Release drops the processing lease
func (s *JobStore) Release(ctx context.Context, jobID string) error {
	return s.cache.Delete(ctx, redis_a.BuildKey(redis_a.PrefixLock, "job", jobID))
}

// transition loads the stored status (or starts a new one) and applies fn
func (s *JobStore) transition(ctx context.Context, jobID, kind string, fn func(*JobStatus)) error {
	status, err := s.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if status == nil {
		status = &JobStatus{JobID: jobID, Kind: kind}
	}
	fn(status)
	return s.Save(ctx, status)
}
