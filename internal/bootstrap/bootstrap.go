// Package bootstrap assembles the generation pipeline from configuration.
// It is shared by the HTTP server and the command-line client.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/codegen-api/internal/cache"
	"github.com/phrazzld/codegen-api/internal/config"
	"github.com/phrazzld/codegen-api/internal/domain"
	"github.com/phrazzld/codegen-api/internal/format"
	"github.com/phrazzld/codegen-api/internal/generation"
	"github.com/phrazzld/codegen-api/internal/platform/blackbox"
	"github.com/phrazzld/codegen-api/internal/platform/gemini"
	"github.com/phrazzld/codegen-api/internal/platform/huggingface"
	"github.com/phrazzld/codegen-api/internal/platform/metrics"
)

// Pipeline holds the assembled generation pipeline and the resources it owns.
type Pipeline struct {
	Config  *config.Config
	Logger  *slog.Logger
	Service *generation.Service
	Cache   *cache.ResultCache
	Metrics *metrics.Recorder

	closers []func() error
}

// Option customises New.
type Option func(*options)

type options struct {
	runtimeMetrics bool
	sleep          generation.SleepFunc
}

// WithRuntimeMetrics registers Go runtime and process collectors.
func WithRuntimeMetrics() Option {
	return func(o *options) { o.runtimeMetrics = true }
}

// WithSleep replaces the retry backoff sleeper.
func WithSleep(sleep generation.SleepFunc) Option {
	return func(o *options) { o.sleep = sleep }
}

// New builds every component named by cfg. Providers whose key is empty are
// left out and reported as unconfigured by the service.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &Pipeline{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.NewRecorder(o.runtimeMetrics),
	}

	mirror, closeMirror, err := NewMirror(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	if closeMirror != nil {
		a.closers = append(a.closers, closeMirror)
	}
	a.Cache = cache.New(mirror, logger)

	providers, err := NewProviders(ctx, cfg.LLM, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	retryOpts := []generation.RetrierOption{generation.WithRecorder(a.Metrics)}
	if o.sleep != nil {
		retryOpts = append(retryOpts, generation.WithSleep(o.sleep))
	}
	retrier, err := generation.NewRetrier(generation.RetryConfig{
		MaxAttempts: cfg.LLM.MaxAttempts,
		BackoffUnit: cfg.LLM.BackoffUnit(),
	}, format.NewBracketFormatter(), logger, retryOpts...)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to create retrier: %w", err)
	}

	prompts, err := newPromptBuilder(cfg.LLM.PromptTemplatePath)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Service, err = generation.NewService(generation.ServiceDeps{
		Providers: providers,
		Cache:     a.Cache,
		Retrier:   retrier,
		Profiles:  domain.DefaultProfiles(),
		Prompts:   prompts,
		Recorder:  a.Metrics,
		Logger:    logger,
	})
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	configured := make([]string, 0, len(providers))
	for _, p := range providers {
		configured = append(configured, p.Name().Slug())
	}
	logger.InfoContext(ctx, "generation pipeline initialized",
		"providers", configured,
		"cache_mirror", cfg.Cache.Mirror,
		"max_attempts", cfg.LLM.MaxAttempts)

	return a, nil
}

// NewProviders creates an adapter for every provider with a key.
func NewProviders(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) ([]generation.Provider, error) {
	var providers []generation.Provider

	if cfg.RapidAPIKey != "" {
		p, err := blackbox.NewClient(logger, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize BlackboxAI adapter: %w", err)
		}
		providers = append(providers, p)
	}
	if cfg.GeminiAPIKey != "" {
		p, err := gemini.NewGenerator(ctx, logger, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini adapter: %w", err)
		}
		providers = append(providers, p)
	}
	if cfg.HuggingFaceAPIKey != "" {
		p, err := huggingface.NewClient(logger, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Hugging Face adapter: %w", err)
		}
		providers = append(providers, p)
	}

	return providers, nil
}

// NewMirror creates the durable cache tier selected by cfg.Mirror. The
// returned close function is nil when there is nothing to release.
func NewMirror(ctx context.Context, cfg config.CacheConfig) (cache.Mirror, func() error, error) {
	switch cfg.Mirror {
	case config.MirrorDisk:
		return cache.NewDiskMirror(cfg.Dir), nil, nil
	case config.MirrorRedis:
		m, err := cache.NewRedisMirrorFromURL(ctx, cfg.RedisURL, cfg.RedisKeyPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis cache mirror: %w", err)
		}
		return m, m.Close, nil
	case config.MirrorNone, "":
		return cache.NopMirror{}, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache mirror %q", cfg.Mirror)
	}
}

func newPromptBuilder(path string) (*generation.PromptBuilder, error) {
	if path == "" {
		return generation.NewPromptBuilder("")
	}
	b, err := generation.NewPromptBuilderFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt template: %w", err)
	}
	return b, nil
}

// Close releases resources opened by New.
func (a *Pipeline) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// DefaultModel returns the model a provider's adapter uses when a request
// names none.
func DefaultModel(p domain.Provider) string {
	switch p {
	case domain.ProviderBlackbox:
		return blackbox.DefaultModel
	case domain.ProviderGemini:
		return gemini.DefaultModel
	case domain.ProviderHuggingFace:
		return huggingface.DefaultModel
	default:
		return ""
	}
}
