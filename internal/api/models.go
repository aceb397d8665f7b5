package api

import (
	"time"

	"github.com/phrazzld/codegen-api/internal/domain"
	"github.com/phrazzld/codegen-api/internal/generation"
	"github.com/phrazzld/codegen-api/internal/task"
)

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Provider string `json:"provider" validate:"required"`
	Prompt   string `json:"prompt"   validate:"required"`
	Language string `json:"language" validate:"required"`
	Model    string `json:"model"    validate:"required"`
	// Temperature is optional; nil selects the configured default.
	Temperature *float64 `json:"temperature,omitempty" validate:"omitempty,gte=0.1,lte=1"`
}

// GenerateResponse is returned for a successful generation.
type GenerateResponse struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	// Warning is set when the code was produced but could not be persisted.
	Warning string `json:"warning,omitempty"`
}

// LanguageResponse describes one supported language.
type LanguageResponse struct {
	Name       string   `json:"name"`
	Extension  string   `json:"extension"`
	CommonUses []string `json:"common_uses"`
	Frameworks []string `json:"frameworks"`
}

// ProvidersResponse lists the known providers.
type ProvidersResponse struct {
	Providers []generation.ProviderStatus `json:"providers"`
}

// ModelsResponse lists the models offered by one provider.
type ModelsResponse struct {
	Provider string   `json:"provider"`
	Models   []string `json:"models"`
}

func languageToResponse(lang domain.Language, profile domain.LanguageProfile) LanguageResponse {
	return LanguageResponse{
		Name:       string(lang),
		Extension:  profile.Extension,
		CommonUses: profile.CommonUses,
		Frameworks: profile.Frameworks,
	}
}

// JobResponse describes a background generation job.
type JobResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Provider  string    `json:"provider,omitempty"`
	Language  string    `json:"language,omitempty"`
	Model     string    `json:"model,omitempty"`
	Code      string    `json:"code,omitempty"`
	Error     string    `json:"error,omitempty"`
	Kind      string    `json:"kind,omitempty"`
	Warning   string    `json:"warning,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func jobToResponse(job task.Job) JobResponse {
	return JobResponse{
		ID:        job.ID.String(),
		Status:    string(job.Status),
		Provider:  canonicalProvider(job.Labels["provider"]),
		Language:  job.Labels["language"],
		Model:     job.Labels["model"],
		Code:      job.Result,
		Error:     job.Error,
		Kind:      job.ErrorKind,
		Warning:   job.Warning,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}
