package domain

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultTemperature is used when a request does not specify one.
const DefaultTemperature = 0.7

var validate = validator.New()

// requestFields carries the validation rules for GenerationRequest.
type requestFields struct {
	Provider    string  `validate:"required"`
	Prompt      string  `validate:"required"`
	Model       string  `validate:"required"`
	Temperature float64 `validate:"gte=0.1,lte=1"`
}

// GenerationRequest is an immutable description of one generation call.
//
// The provider is kept as the caller supplied it so that an unknown provider
// can be reported by the service rather than rejected here.
type GenerationRequest struct {
	provider    string
	prompt      string
	language    Language
	model       string
	temperature float64
}

// NewGenerationRequest validates the inputs and builds a GenerationRequest.
// A zero temperature selects DefaultTemperature. The language must be present
// in profiles. The prompt must not be blank but is kept as given.
func NewGenerationRequest(
	profiles Profiles,
	provider, prompt, language, model string,
	temperature float64,
) (GenerationRequest, error) {
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	fields := requestFields{
		Provider:    strings.TrimSpace(provider),
		Prompt:      strings.TrimSpace(prompt),
		Model:       strings.TrimSpace(model),
		Temperature: temperature,
	}
	if err := validate.Struct(fields); err != nil {
		return GenerationRequest{}, NewGenerationError(
			KindInvalidRequest,
			fmt.Sprintf("Error: invalid request: %s", describeValidation(err)),
			err,
		)
	}

	lang, ok := profiles.Parse(language)
	if !ok {
		return GenerationRequest{}, NewGenerationError(
			KindInvalidRequest,
			fmt.Sprintf("Error: invalid request: unsupported language %q", language),
			nil,
		)
	}

	return GenerationRequest{
		provider:    fields.Provider,
		prompt:      prompt,
		language:    lang,
		model:       fields.Model,
		temperature: fields.Temperature,
	}, nil
}

// Provider returns the provider name as supplied by the caller.
func (r GenerationRequest) Provider() string { return r.provider }

// Prompt returns the original task prompt.
func (r GenerationRequest) Prompt() string { return r.prompt }

// Language returns the target language.
func (r GenerationRequest) Language() Language { return r.language }

// Model returns the model identifier.
func (r GenerationRequest) Model() string { return r.model }

// Temperature returns the sampling temperature forwarded to providers.
func (r GenerationRequest) Temperature() float64 { return r.temperature }

// describeValidation turns validator errors into a short field list.
func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, strings.ToLower(fe.Field())+" is required")
		case "gte", "lte":
			parts = append(parts, strings.ToLower(fe.Field())+" must be between 0.1 and 1.0")
		default:
			parts = append(parts, strings.ToLower(fe.Field())+" is invalid")
		}
	}
	return strings.Join(parts, ", ")
}
