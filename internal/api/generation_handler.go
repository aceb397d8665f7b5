package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/codegen-api/internal/api/shared"
	"github.com/phrazzld/codegen-api/internal/domain"
	"github.com/phrazzld/codegen-api/internal/generation"
)

// GenerationService is the part of the generation pipeline the HTTP layer
// needs.
type GenerationService interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (string, error)
	Profiles() domain.Profiles
	Models(ctx context.Context, provider string) ([]string, error)
	Providers() []generation.ProviderStatus
}

// GenerationHandler serves POST /api/generate.
type GenerationHandler struct {
	service            GenerationService
	defaultTemperature float64
	logger             *slog.Logger
}

// NewGenerationHandler creates a GenerationHandler. defaultTemperature is
// used when a request omits temperature.
func NewGenerationHandler(service GenerationService, defaultTemperature float64, logger *slog.Logger) *GenerationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationHandler{
		service:            service,
		defaultTemperature: defaultTemperature,
		logger:             logger.With("component", "generation_handler"),
	}
}

// Generate handles POST /api/generate.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	genReq, ok := decodeGenerationRequest(w, r, h.service.Profiles(), h.defaultTemperature)
	if !ok {
		return
	}

	code, err := h.service.Generate(r.Context(), genReq)
	resp := GenerateResponse{
		Code:     code,
		Language: string(genReq.Language()),
		Provider: canonicalProvider(genReq.Provider()),
		Model:    genReq.Model(),
	}

	switch {
	case err == nil:
	case errors.Is(err, domain.ErrCacheWrite) && code != "":
		h.logger.WarnContext(r.Context(), "returning code that could not be cached",
			"trace_id", shared.GetTraceID(r.Context()),
			"provider", resp.Provider)
		resp.Warning = GetSafeErrorMessage(err)
	default:
		h.respondWithGenerationError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

func (h *GenerationHandler) respondWithGenerationError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err,
		shared.WithErrorKind(errorKind(err)))
}

// decodeGenerationRequest reads and validates a GenerateRequest body. On
// failure it writes a 400 response and returns false.
func decodeGenerationRequest(
	w http.ResponseWriter,
	r *http.Request,
	profiles domain.Profiles,
	defaultTemperature float64,
) (domain.GenerationRequest, bool) {
	var req GenerateRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err,
			shared.WithErrorKind(string(domain.KindInvalidRequest)))
		return domain.GenerationRequest{}, false
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err,
			shared.WithErrorKind(string(domain.KindInvalidRequest)))
		return domain.GenerationRequest{}, false
	}

	temperature := defaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	genReq, err := domain.NewGenerationRequest(profiles,
		req.Provider, req.Prompt, req.Language, req.Model, temperature)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err,
			shared.WithErrorKind(errorKind(err)))
		return domain.GenerationRequest{}, false
	}
	return genReq, true
}

func canonicalProvider(name string) string {
	if p, ok := domain.ParseProvider(name); ok {
		return string(p)
	}
	return name
}
