// internal/handlers/import.go
package handlers

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/ammerola/stockledger/internal/pkg/logger"
	"github.com/ammerola/stockledger/internal/workers"
)

var importContentTypes = map[string]string{
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".json": "application/json",
}

// ImportHandler accepts legacy stock files and tracks their background jobs
type ImportHandler struct {
	responder
	storage     ports.ObjectStorage
	enqueuer    workers.TaskEnqueuer
	jobs        *workers.JobStore
	maxFileSize int64
	maxRetry    int
}

// NewImportHandler creates a new import handler
func NewImportHandler(
	storage ports.ObjectStorage,
	enqueuer workers.TaskEnqueuer,
	jobs *workers.JobStore,
	maxFileSize int64,
	maxRetry int,
	log *slog.Logger,
) *ImportHandler {
	return &ImportHandler{
		responder:   responder{logger: log.With(slog.String("handler", "import"))},
		storage:     storage,
		enqueuer:    enqueuer,
		jobs:        jobs,
		maxFileSize: maxFileSize,
		maxRetry:    maxRetry,
	}
}

// ImportLegacy handles POST /api/v1/import/legacy (multipart field "file", .xlsx or .json)
func (h *ImportHandler) ImportLegacy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+1<<20)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		h.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		h.respondError(w, http.StatusRequestEntityTooLarge, "File is too large")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := importContentTypes[ext]
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Only .xlsx and .json files are allowed")
		return
	}

	jobID := uuid.New().String()
	key := ports.ImportPrefix + jobID + ext
	if _, err := h.storage.Upload(ctx, key, file, contentType); err != nil {
		h.logger.ErrorContext(ctx, "failed to store upload",
			slog.String("key", key),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to save upload")
		return
	}

	payload := workers.ImportJobPayload{
		JobID:     jobID,
		ObjectKey: key,
		Filename:  header.Filename,
		Actor:     logger.ActorFromContext(ctx),
	}
	task, err := workers.NewImportTask(payload, h.maxRetry)
	if err != nil {
		h.abandon(r, key)
		h.respondServiceError(w, r, err, "queue import job")
		return
	}

	if err := h.jobs.Save(ctx, &workers.JobStatus{
		JobID:    jobID,
		Kind:     workers.JobKindLegacyImport,
		State:    workers.JobQueued,
		Filename: header.Filename,
	}); err != nil {
		h.abandon(r, key)
		h.respondServiceError(w, r, err, "create import job")
		return
	}

	info, err := h.enqueuer.EnqueueContext(ctx, task)
	if err != nil {
		h.abandon(r, key)
		h.respondServiceError(w, r, err, "queue import job")
		return
	}

	h.logger.InfoContext(ctx, "legacy import queued",
		slog.String("job_id", jobID),
		slog.String("task_id", info.ID),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":     jobID,
		"status":     workers.JobQueued,
		"status_url": "/api/v1/import/status/" + jobID,
	})
}

// GetStatus handles GET /api/v1/import/status/{jobId} and GET /api/v1/jobs/{jobId}
func (h *ImportHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobId")
	if _, err := uuid.Parse(jobID); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid jobId format")
		return
	}

	status, err := h.jobs.Get(r.Context(), jobID)
	if err != nil {
		h.respondServiceError(w, r, err, "get job status")
		return
	}
	if status == nil {
		h.respondJSON(w, http.StatusNotFound, ErrorResponse{Error: "job " + jobID + " not found", Code: "not_found"})
		return
	}

	h.respondJSON(w, http.StatusOK, status)
}

func (h *ImportHandler) abandon(r *http.Request, key string) {
	if err := h.storage.Delete(r.Context(), key); err != nil {
		h.logger.WarnContext(r.Context(), "failed to remove abandoned upload",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
