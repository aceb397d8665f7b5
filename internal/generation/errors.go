package generation

import "errors"

// Common errors returned by the generation package and its adapters.
var (
	// ErrProviderFailure is returned by adapters for transport, auth and
	// upstream status failures.
	ErrProviderFailure = errors.New("provider request failed")

	// ErrSemanticFailure is returned by adapters when the provider answered
	// but the answer carries no usable code (blocked, empty or an error body).
	ErrSemanticFailure = errors.New("provider returned no usable code")

	// ErrInvalidConfig is returned when a generator component is constructed
	// with invalid settings.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
