package domain

import (
	"errors"
	"strings"
)

// ErrorMarker is the prefix that flags a provider or legacy text result as a
// failure.
const ErrorMarker = "Error"

// IsErrorText reports whether text uses the "Error"-prefix failure convention.
func IsErrorText(text string) bool {
	return strings.HasPrefix(text, ErrorMarker)
}

// ErrorKind classifies a generation failure.
type ErrorKind string

// Generation failure kinds.
const (
	KindInvalidRequest      ErrorKind = "invalid_request"
	KindUnknownProvider     ErrorKind = "unknown_provider"
	KindProviderUnavailable ErrorKind = "provider_unavailable"
	KindProviderFailure     ErrorKind = "provider_failure"
	KindExhausted           ErrorKind = "exhausted"
	KindCanceled            ErrorKind = "canceled"
	KindCacheWrite          ErrorKind = "cache_write"
)

// Sentinel errors, one per kind, for use with errors.Is.
var (
	ErrInvalidRequest      = errors.New("invalid generation request")
	ErrUnknownProvider     = errors.New("unknown provider")
	ErrProviderUnavailable = errors.New("provider not configured")
	ErrProviderFailure     = errors.New("provider call failed")
	ErrExhausted           = errors.New("generation attempts exhausted")
	ErrCanceled            = errors.New("generation canceled")
	ErrCacheWrite          = errors.New("failed to persist generated code")
)

var kindSentinels = map[ErrorKind]error{
	KindInvalidRequest:      ErrInvalidRequest,
	KindUnknownProvider:     ErrUnknownProvider,
	KindProviderUnavailable: ErrProviderUnavailable,
	KindProviderFailure:     ErrProviderFailure,
	KindExhausted:           ErrExhausted,
	KindCanceled:            ErrCanceled,
	KindCacheWrite:          ErrCacheWrite,
}

// GenerationError is the failure half of a generation result. Message holds
// the descriptive, caller-facing text and always starts with ErrorMarker.
type GenerationError struct {
	Kind     ErrorKind
	Message  string
	Attempts int
	Err      error
}

// NewGenerationError creates a GenerationError of the given kind.
func NewGenerationError(kind ErrorKind, message string, cause error) *GenerationError {
	return &GenerationError{Kind: kind, Message: message, Err: cause}
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error for the kind.
func (e *GenerationError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// AsGenerationError extracts a GenerationError from err's chain.
func AsGenerationError(err error) (*GenerationError, bool) {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr, true
	}
	return nil, false
}
