package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/codegen-api/internal/cache"
	"github.com/phrazzld/codegen-api/internal/domain"
	"github.com/phrazzld/codegen-api/internal/redact"
	"golang.org/x/sync/singleflight"
)

// ServiceDeps are the collaborators of a Service. Cache and Retrier are
// required.
type ServiceDeps struct {
	// Providers are the configured adapters. A known provider without an
	// adapter is reported as unavailable.
	Providers []Provider
	Cache     *cache.ResultCache
	Retrier   *Retrier
	// Profiles defaults to domain.DefaultProfiles().
	Profiles domain.Profiles
	// Prompts defaults to a builder using DefaultPromptTemplate.
	Prompts  *PromptBuilder
	Recorder Recorder
	Logger   *slog.Logger
}

// ProviderStatus describes one known provider.
type ProviderStatus struct {
	Name       domain.Provider `json:"name"`
	Slug       string          `json:"slug"`
	Configured bool            `json:"configured"`
}

// Service is the entry point of the generation pipeline. It is safe for
// concurrent use.
type Service struct {
	providers map[domain.Provider]Provider
	cache     *cache.ResultCache
	retrier   *Retrier
	profiles  domain.Profiles
	prompts   *PromptBuilder
	recorder  Recorder
	logger    *slog.Logger
	inflight  singleflight.Group
}

// NewService validates deps and builds a Service.
func NewService(deps ServiceDeps) (*Service, error) {
	if deps.Cache == nil {
		return nil, fmt.Errorf("%w: cache cannot be nil", ErrInvalidConfig)
	}
	if deps.Retrier == nil {
		return nil, fmt.Errorf("%w: retrier cannot be nil", ErrInvalidConfig)
	}

	providers := make(map[domain.Provider]Provider, len(deps.Providers))
	for _, p := range deps.Providers {
		if p == nil {
			return nil, fmt.Errorf("%w: provider cannot be nil", ErrInvalidConfig)
		}
		if _, dup := providers[p.Name()]; dup {
			return nil, fmt.Errorf("%w: provider %s registered twice", ErrInvalidConfig, p.Name())
		}
		providers[p.Name()] = p
	}

	profiles := deps.Profiles
	if len(profiles.Languages()) == 0 {
		profiles = domain.DefaultProfiles()
	}

	prompts := deps.Prompts
	if prompts == nil {
		var err error
		if prompts, err = NewPromptBuilder(""); err != nil {
			return nil, err
		}
	}

	recorder := deps.Recorder
	if recorder == nil {
		recorder = NopRecorder{}
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		providers: providers,
		cache:     deps.Cache,
		retrier:   deps.Retrier,
		profiles:  profiles,
		prompts:   prompts,
		recorder:  recorder,
		logger:    logger.With("component", "generation_service"),
	}, nil
}

// Profiles returns the language table requests are validated against.
func (s *Service) Profiles() domain.Profiles { return s.profiles }

// Generate returns formatted code for req.
//
// Unknown or unconfigured providers fail before the cache or any adapter is
// touched. A cache hit is returned unchanged. On a miss the enriched prompt
// is dispatched through the Retrier and a success is stored under the
// caller's (provider, prompt, language, model). If that store fails the code
// is still returned together with a cache_write error.
//
// Failures are *domain.GenerationError values.
func (s *Service) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	name, p, err := s.resolve(req.Provider())
	if err != nil {
		s.logger.WarnContext(ctx, "rejected generation request",
			"provider", req.Provider(),
			"error", err)
		return "", err
	}

	language := string(req.Language())
	if code, ok := s.cache.Lookup(string(name), req.Prompt(), language, req.Model()); ok {
		s.recorder.CacheLookup(name, true)
		s.recorder.GenerationCompleted(name, OutcomeSuccess)
		s.logger.InfoContext(ctx, "serving cached code",
			"provider", name,
			"language", language,
			"model", req.Model())
		return code, nil
	}
	s.recorder.CacheLookup(name, false)

	key := cache.Fingerprint(string(name), req.Prompt(), language, req.Model())
	// The shared call outlives any one caller; each caller stops waiting on
	// its own ctx.
	sharedCtx := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(key, func() (interface{}, error) {
		return s.dispatch(sharedCtx, name, p, req)
	})

	var code string
	select {
	case res := <-ch:
		code, _ = res.Val.(string)
		err = res.Err
		if res.Shared {
			s.logger.DebugContext(ctx, "shared in-flight generation", "key", key)
		}
	case <-ctx.Done():
		s.logger.WarnContext(ctx, "caller left in-flight generation",
			"provider", name,
			"error", ctx.Err())
		err = &domain.GenerationError{
			Kind:    domain.KindCanceled,
			Message: fmt.Sprintf("Error: generation canceled: %v", ctx.Err()),
			Err:     ctx.Err(),
		}
	}

	result := OutcomeSuccess
	if genErr, ok := domain.AsGenerationError(err); ok {
		result = string(genErr.Kind)
	}
	s.recorder.GenerationCompleted(name, result)

	return code, err
}

// GenerateText renders the single-string result: the code on success or the
// error message, which starts with "Error", on failure.
func (s *Service) GenerateText(ctx context.Context, req domain.GenerationRequest) string {
	code, err := s.Generate(ctx, req)
	if err == nil || code != "" {
		return code
	}
	return err.Error()
}

func (s *Service) dispatch(
	ctx context.Context,
	name domain.Provider,
	p Provider,
	req domain.GenerationRequest,
) (string, error) {
	language := req.Language()
	profile, _ := s.profiles.Lookup(language)

	prompt, err := s.prompts.Build(language, profile, req.Prompt())
	if err != nil {
		return "", domain.NewGenerationError(domain.KindInvalidRequest,
			"Error: failed to build prompt: "+err.Error(), err)
	}

	requestID := uuid.NewString()
	s.logger.InfoContext(ctx, "dispatching generation",
		"provider", name,
		"language", language,
		"model", req.Model(),
		"request_id", requestID,
		"prompt_length", len(prompt))

	code, err := s.retrier.Generate(ctx, p, ProviderRequest{
		RequestID:   requestID,
		Prompt:      prompt,
		Language:    string(language),
		Model:       req.Model(),
		Temperature: req.Temperature(),
	})
	if err != nil {
		return "", err
	}

	if err := s.cache.Store(ctx, string(name), req.Prompt(), string(language), req.Model(), code); err != nil {
		return code, domain.NewGenerationError(domain.KindCacheWrite,
			"Error: generated code could not be persisted: "+redact.Error(err), err)
	}
	return code, nil
}

// Models lists the models offered by the named provider.
func (s *Service) Models(ctx context.Context, providerName string) ([]string, error) {
	name, p, err := s.resolve(providerName)
	if err != nil {
		return nil, err
	}

	models, err := p.Models(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list models",
			"provider", name,
			"error", redact.Error(err))
		kind := domain.KindProviderFailure
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			kind = domain.KindCanceled
		}
		return nil, domain.NewGenerationError(kind,
			fmt.Sprintf("Error: failed to list models for %s: %s", name, redact.Error(err)), err)
	}
	return models, nil
}

// Providers reports every known provider and whether it is configured.
func (s *Service) Providers() []ProviderStatus {
	all := domain.AllProviders()
	statuses := make([]ProviderStatus, 0, len(all))
	for _, name := range all {
		_, configured := s.providers[name]
		statuses = append(statuses, ProviderStatus{
			Name:       name,
			Slug:       name.Slug(),
			Configured: configured,
		})
	}
	return statuses
}

func (s *Service) resolve(providerName string) (domain.Provider, Provider, error) {
	name, ok := domain.ParseProvider(providerName)
	if !ok {
		return "", nil, domain.NewGenerationError(domain.KindUnknownProvider,
			fmt.Sprintf("Error: Unknown provider %s", providerName), nil)
	}
	p, ok := s.providers[name]
	if !ok {
		return "", nil, domain.NewGenerationError(domain.KindProviderUnavailable,
			fmt.Sprintf("Error: provider %s is not configured (missing API key)", name), nil)
	}
	return name, p, nil
}
