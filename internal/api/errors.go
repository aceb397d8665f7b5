package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/codegen-api/internal/domain"
)

// MapErrorToStatusCode maps a generation failure to an HTTP status.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrUnknownProvider):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusServiceUnavailable

	case errors.Is(err, domain.ErrProviderFailure),
		errors.Is(err, domain.ErrExhausted):
		return http.StatusBadGateway

	case errors.Is(err, domain.ErrCanceled):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns text that may be shown to a client.
// GenerationError messages are built from redacted causes and are returned
// as-is; anything else gets a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}
	if genErr, ok := domain.AsGenerationError(err); ok && genErr.Message != "" {
		return genErr.Message
	}
	return "An unexpected error occurred"
}

// errorKind returns the kind label for err, or "internal".
func errorKind(err error) string {
	if genErr, ok := domain.AsGenerationError(err); ok {
		return string(genErr.Kind)
	}
	return "internal"
}

// SanitizeValidationError turns validator errors into a short client
// message without struct names.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), validationTagMessage(fe.Tag())))
	}
	return strings.Join(parts, "; ")
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
