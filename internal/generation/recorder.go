package generation

import (
	"time"

	"github.com/phrazzld/codegen-api/internal/domain"
)

// Attempt outcomes reported to a Recorder.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeSemantic = "semantic"
)

// Recorder receives pipeline measurements. Implementations must be safe for
// concurrent use.
type Recorder interface {
	CacheLookup(provider domain.Provider, hit bool)
	ProviderAttempt(provider domain.Provider, outcome string, elapsed time.Duration)
	// GenerationCompleted reports the final result: OutcomeSuccess or the
	// error kind.
	GenerationCompleted(provider domain.Provider, result string)
}

// NopRecorder discards all measurements.
type NopRecorder struct{}

func (NopRecorder) CacheLookup(domain.Provider, bool)                      {}
func (NopRecorder) ProviderAttempt(domain.Provider, string, time.Duration) {}
func (NopRecorder) GenerationCompleted(domain.Provider, string)            {}
