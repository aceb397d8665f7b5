package api

import (
	"context"
	"sync"

	"github.com/phrazzld/codegen-api/internal/domain"
	"github.com/phrazzld/codegen-api/internal/generation"
)

// stubService is a GenerationService with canned answers.
type stubService struct {
	mu       sync.Mutex
	code     string
	err      error
	models   []string
	modelErr error
	requests []domain.GenerationRequest
}

func (s *stubService) Generate(_ context.Context, req domain.GenerationRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return s.code, s.err
}

func (s *stubService) Profiles() domain.Profiles { return domain.DefaultProfiles() }

func (s *stubService) Models(_ context.Context, provider string) ([]string, error) {
	if _, ok := domain.ParseProvider(provider); !ok {
		return nil, domain.NewGenerationError(domain.KindUnknownProvider, "Error: Unknown provider "+provider, nil)
	}
	return s.models, s.modelErr
}

func (s *stubService) Providers() []generation.ProviderStatus {
	return []generation.ProviderStatus{
		{Name: domain.ProviderBlackbox, Slug: "blackbox", Configured: false},
		{Name: domain.ProviderGemini, Slug: "gemini", Configured: true},
		{Name: domain.ProviderHuggingFace, Slug: "huggingface", Configured: true},
	}
}

func (s *stubService) lastRequest() domain.GenerationRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}
