package generation

import (
	"context"

	"github.com/phrazzld/codegen-api/internal/domain"
)

// ProviderRequest is what an adapter receives: the enriched prompt plus the
// caller's model and sampling choices.
type ProviderRequest struct {
	// RequestID correlates log lines for one generation across attempts.
	RequestID   string
	Prompt      string
	Language    string
	Model       string
	Temperature float64
}

// Provider is the boundary between the pipeline and one external AI backend.
type Provider interface {
	// Name identifies the backend.
	Name() domain.Provider

	// Generate returns the raw text produced for req. Transport and upstream
	// status failures wrap ErrProviderFailure; replies without usable code
	// wrap ErrSemanticFailure.
	Generate(ctx context.Context, req ProviderRequest) (string, error)

	// Models lists model identifiers the backend accepts.
	Models(ctx context.Context) ([]string, error)
}

// ProviderFunc adapts a function to the Provider interface. Models returns
// the fixed list it was built with.
type ProviderFunc struct {
	ProviderName domain.Provider
	ModelList    []string
	Fn           func(ctx context.Context, req ProviderRequest) (string, error)
}

// Name returns ProviderName.
func (p ProviderFunc) Name() domain.Provider { return p.ProviderName }

// Generate calls Fn.
func (p ProviderFunc) Generate(ctx context.Context, req ProviderRequest) (string, error) {
	return p.Fn(ctx, req)
}

// Models returns a copy of ModelList.
func (p ProviderFunc) Models(context.Context) ([]string, error) {
	return append([]string(nil), p.ModelList...), nil
}
