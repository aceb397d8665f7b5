package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/codegen-api/internal/api/shared"
	"github.com/phrazzld/codegen-api/internal/domain"
	"github.com/phrazzld/codegen-api/internal/task"
)

// JobRunner queues background tasks and reports their state.
type JobRunner interface {
	Submit(ctx context.Context, t task.Task) (task.Job, error)
	Get(ctx context.Context, id uuid.UUID) (task.Job, error)
}

// JobHandler serves the asynchronous generation endpoints.
type JobHandler struct {
	runner             JobRunner
	service            GenerationService
	defaultTemperature float64
	logger             *slog.Logger
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(runner JobRunner, service GenerationService, defaultTemperature float64, logger *slog.Logger) *JobHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobHandler{
		runner:             runner,
		service:            service,
		defaultTemperature: defaultTemperature,
		logger:             logger.With("component", "job_handler"),
	}
}

// Submit handles POST /api/jobs. The request body matches POST
// /api/generate; the response is 202 with the job's location.
func (h *JobHandler) Submit(w http.ResponseWriter, r *http.Request) {
	genReq, ok := decodeGenerationRequest(w, r, h.service.Profiles(), h.defaultTemperature)
	if !ok {
		return
	}

	// Provider problems are reported now rather than as a failed job.
	if err := h.checkProvider(genReq.Provider()); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err,
			shared.WithErrorKind(errorKind(err)))
		return
	}

	job, err := h.runner.Submit(r.Context(), task.NewGenerationTask(h.service, genReq))
	if err != nil {
		status := http.StatusInternalServerError
		msg := "Failed to queue job"
		if errors.Is(err, task.ErrQueueFull) || errors.Is(err, task.ErrQueueClosed) {
			status = http.StatusServiceUnavailable
			msg = "Job queue is full, try again later"
		}
		shared.RespondWithErrorAndLog(w, r, status, msg, err)
		return
	}

	h.logger.InfoContext(r.Context(), "generation job queued",
		"job_id", job.ID,
		"trace_id", shared.GetTraceID(r.Context()),
		"provider", canonicalProvider(genReq.Provider()))

	w.Header().Set("Location", "/api/jobs/"+job.ID.String())
	shared.RespondWithJSON(w, r, http.StatusAccepted, jobToResponse(job))
}

// Get handles GET /api/jobs/{id}.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := h.runner.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, task.ErrJobNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Job not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to load job", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, jobToResponse(job))
}

func (h *JobHandler) checkProvider(name string) error {
	p, ok := domain.ParseProvider(name)
	if !ok {
		return domain.NewGenerationError(domain.KindUnknownProvider,
			fmt.Sprintf("Error: Unknown provider %s", name), nil)
	}
	for _, status := range h.service.Providers() {
		if status.Name == p && status.Configured {
			return nil
		}
	}
	return domain.NewGenerationError(domain.KindProviderUnavailable,
		fmt.Sprintf("Error: provider %s is not configured (missing API key)", p), nil)
}
