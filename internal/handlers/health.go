// internal/handlers/health.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/pkg/config"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// probe checks one dependency
type probe func(ctx context.Context) ServiceInfo

// HealthHandler handles health check endpoints. Dependencies that are nil are
// not probed: the database is absent on the in-memory store and the queue
// inspector is absent when no worker is deployed.
type HealthHandler struct {
	responder
	db        ports.Database
	redis     *redis.Client
	asynq     *asynq.Inspector
	config    *config.Config
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(
	database ports.Database,
	redisClient *redis.Client,
	asynqInspector *asynq.Inspector,
	cfg *config.Config,
	logger *slog.Logger,
) *HealthHandler {
	return &HealthHandler{
		responder: responder{logger: logger.With(slog.String("handler", "health"))},
		db:        database,
		redis:     redisClient,
		asynq:     asynqInspector,
		config:    cfg,
		startTime: time.Now(),
	}
}

// HealthStatus represents the health status of the application
type HealthStatus struct {
	Status      string                 `json:"status"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	LedgerStore string                 `json:"ledger_store"`
	Uptime      string                 `json:"uptime"`
	Timestamp   time.Time              `json:"timestamp"`
	Services    map[string]ServiceInfo `json:"services"`
	System      SystemInfo             `json:"system"`
}

// ServiceInfo represents the status of a service dependency
type ServiceInfo struct {
	Status       string                 `json:"status"`
	Message      string                 `json:"message,omitempty"`
	ResponseTime string                 `json:"response_time,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// SystemInfo represents system-level information
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	NumCPU        int    `json:"num_cpu"`
	MemoryAllocMB uint64 `json:"memory_alloc_mb"`
	NumGC         uint32 `json:"num_gc"`
}

// Health handles GET /health. Any unhealthy dependency turns the response into a 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	probes := map[string]probe{}
	if h.db != nil {
		probes["database"] = h.checkDatabase
	}
	if h.redis != nil {
		probes["redis"] = h.checkRedis
	}
	if h.asynq != nil {
		probes["queue"] = h.checkQueue
	}

	health := HealthStatus{
		Status:      statusHealthy,
		Version:     h.config.App.Version,
		Environment: h.config.App.Environment,
		LedgerStore: h.config.Ledger.Store,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:   time.Now().UTC(),
		Services:    runProbes(ctx, probes),
		System:      systemInfo(),
	}
	for name, svc := range health.Services {
		if svc.Status != statusHealthy {
			health.Status = statusDegraded
			h.logger.WarnContext(ctx, "dependency unhealthy",
				slog.String("service", name),
				slog.String("message", svc.Message))
		}
	}

	status := http.StatusOK
	if health.Status != statusHealthy {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.respondJSON(w, status, health)
}

// Readiness handles GET /ready. Only the stores a request needs are checked.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	probes := map[string]probe{}
	if h.db != nil {
		probes["database"] = h.checkDatabase
	}
	if h.redis != nil {
		probes["redis"] = h.checkRedis
	}

	ready := true
	details := make(map[string]string)
	for name, svc := range runProbes(ctx, probes) {
		if svc.Status != statusHealthy {
			ready = false
			details[name] = "not ready"
			continue
		}
		details[name] = "ready"
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.respondJSON(w, status, map[string]interface{}{
		"ready":   ready,
		"details": details,
	})
}

func runProbes(ctx context.Context, probes map[string]probe) map[string]ServiceInfo {
	var (
		mu      sync.Mutex
		results = make(map[string]ServiceInfo, len(probes))
	)
	g, ctx := errgroup.WithContext(ctx)
	for name, p := range probes {
		g.Go(func() error {
			start := time.Now()
			info := p(ctx)
			info.ResponseTime = time.Since(start).String()

			mu.Lock()
			results[name] = info
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func unhealthy(err error) ServiceInfo {
	return ServiceInfo{Status: statusUnhealthy, Message: err.Error()}
}

func (h *HealthHandler) checkDatabase(ctx context.Context) ServiceInfo {
	if err := h.db.Ping(ctx); err != nil {
		return unhealthy(err)
	}
	return ServiceInfo{Status: statusHealthy, Details: h.db.Health(ctx)}
}

func (h *HealthHandler) checkRedis(ctx context.Context) ServiceInfo {
	if err := h.redis.Ping(ctx).Err(); err != nil {
		return unhealthy(err)
	}
	stats := h.redis.PoolStats()
	return ServiceInfo{
		Status: statusHealthy,
		Details: map[string]interface{}{
			"total_conns": stats.TotalConns,
			"idle_conns":  stats.IdleConns,
			"stale_conns": stats.StaleConns,
		},
	}
}

// checkQueue reports backlog per queue. Archived tasks are imports or reports
// that exhausted their retries; they are surfaced but do not fail the check.
func (h *HealthHandler) checkQueue(ctx context.Context) ServiceInfo {
	queues, err := h.asynq.Queues()
	if err != nil {
		return unhealthy(err)
	}

	info := ServiceInfo{Status: statusHealthy, Details: make(map[string]interface{})}
	var archived int
	for _, queue := range queues {
		q, err := h.asynq.GetQueueInfo(queue)
		if err != nil {
			continue
		}
		archived += q.Archived
		info.Details[queue] = map[string]int{
			"pending":  q.Pending,
			"active":   q.Active,
			"retry":    q.Retry,
			"archived": q.Archived,
		}
	}
	if archived > 0 {
		info.Message = "archived tasks need attention"
	}

	if servers, err := h.asynq.Servers(); err == nil {
		info.Details["workers"] = len(servers)
	}
	return info
}

func systemInfo() SystemInfo {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		MemoryAllocMB: mem.Alloc / 1024 / 1024,
		NumGC:         mem.NumGC,
	}
}
