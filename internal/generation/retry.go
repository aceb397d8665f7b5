package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/codegen-api/internal/domain"
	"github.com/phrazzld/codegen-api/internal/format"
	"github.com/phrazzld/codegen-api/internal/redact"
)

// Retry defaults.
const (
	DefaultMaxAttempts = 3
	DefaultBackoffUnit = time.Second
)

// ExhaustedMessage prefixes the error text returned when every attempt
// produced an error-flagged reply.
const ExhaustedMessage = "Error: failed to generate code after multiple attempts"

// SleepFunc waits for d or until ctx is done, returning ctx.Err() in the
// latter case.
type SleepFunc func(ctx context.Context, d time.Duration) error

// ContextSleep is the production SleepFunc.
func ContextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RetryConfig bounds the Retrier.
type RetryConfig struct {
	// MaxAttempts is the total number of provider calls, including the first.
	MaxAttempts int
	// BackoffUnit is the delay after the first failure; it doubles after each
	// subsequent failure.
	BackoffUnit time.Duration
}

// RetrierOption customises a Retrier.
type RetrierOption func(*Retrier)

// WithSleep replaces the backoff sleeper.
func WithSleep(sleep SleepFunc) RetrierOption {
	return func(r *Retrier) { r.sleep = sleep }
}

// WithRecorder reports attempts to rec.
func WithRecorder(rec Recorder) RetrierOption {
	return func(r *Retrier) { r.recorder = rec }
}

// Retrier calls a Provider with bounded retries and exponential backoff and
// formats the first successful reply.
type Retrier struct {
	maxAttempts int
	backoffUnit time.Duration
	formatter   format.Formatter
	sleep       SleepFunc
	recorder    Recorder
	logger      *slog.Logger
}

// NewRetrier validates cfg and builds a Retrier. A nil formatter selects the
// bracket formatter.
func NewRetrier(cfg RetryConfig, formatter format.Formatter, logger *slog.Logger, opts ...RetrierOption) (*Retrier, error) {
	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("%w: max attempts must be at least 1, got %d", ErrInvalidConfig, cfg.MaxAttempts)
	}
	if cfg.BackoffUnit < 0 {
		return nil, fmt.Errorf("%w: backoff unit cannot be negative", ErrInvalidConfig)
	}
	if formatter == nil {
		formatter = format.NewBracketFormatter()
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Retrier{
		maxAttempts: cfg.MaxAttempts,
		backoffUnit: cfg.BackoffUnit,
		formatter:   formatter,
		sleep:       ContextSleep,
		recorder:    NopRecorder{},
		logger:      logger.With("component", "retrier"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// MaxAttempts returns the configured attempt bound.
func (r *Retrier) MaxAttempts() int { return r.maxAttempts }

// Backoff returns the delay slept after the failed attempt with 0-based
// index attempt.
func (r *Retrier) Backoff(attempt int) time.Duration {
	return r.backoffUnit * time.Duration(1<<attempt)
}

// Generate calls p until it returns usable text or the attempt bound is
// reached. The successful text is passed through the formatter. Failures are
// *domain.GenerationError values:
//   - provider_failure when the final attempt returned an error,
//   - exhausted when the final attempt returned error-flagged text,
//   - canceled when ctx ended first.
func (r *Retrier) Generate(ctx context.Context, p Provider, req ProviderRequest) (string, error) {
	name := p.Name()
	var lastText string

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		attemptNum := attempt + 1

		if err := ctx.Err(); err != nil {
			return "", r.canceled(ctx, name, attempt, err)
		}

		r.logger.InfoContext(ctx, "calling provider",
			"provider", name,
			"model", req.Model,
			"request_id", req.RequestID,
			"attempt", attemptNum,
			"max_attempts", r.maxAttempts)

		start := time.Now()
		text, err := p.Generate(ctx, req)
		elapsed := time.Since(start)

		switch {
		case err == nil && !domain.IsErrorText(text):
			r.recorder.ProviderAttempt(name, OutcomeSuccess, elapsed)
			r.logger.InfoContext(ctx, "provider call succeeded",
				"provider", name,
				"request_id", req.RequestID,
				"attempt", attemptNum,
				"elapsed_ms", elapsed.Milliseconds())
			return r.formatter.Format(text, req.Language), nil

		case err != nil && ctx.Err() != nil:
			r.recorder.ProviderAttempt(name, OutcomeError, elapsed)
			return "", r.canceled(ctx, name, attemptNum, ctx.Err())

		case err != nil && !errors.Is(err, ErrSemanticFailure):
			r.recorder.ProviderAttempt(name, OutcomeError, elapsed)
			r.logger.ErrorContext(ctx, "provider call failed",
				"provider", name,
				"request_id", req.RequestID,
				"attempt", attemptNum,
				"error", redact.Error(err))
			if attemptNum == r.maxAttempts {
				return "", &domain.GenerationError{
					Kind:     domain.KindProviderFailure,
					Message:  fmt.Sprintf("Error after %d attempts: %s", attemptNum, redact.Error(err)),
					Attempts: attemptNum,
					Err:      err,
				}
			}

		default:
			if err != nil {
				text = err.Error()
			}
			lastText = redact.String(text)
			r.recorder.ProviderAttempt(name, OutcomeSemantic, elapsed)
			r.logger.WarnContext(ctx, "provider returned no usable code",
				"provider", name,
				"request_id", req.RequestID,
				"attempt", attemptNum,
				"reply", lastText)
		}

		if attemptNum == r.maxAttempts {
			break
		}

		delay := r.Backoff(attempt)
		r.logger.InfoContext(ctx, "retrying after delay",
			"provider", name,
			"request_id", req.RequestID,
			"attempt", attemptNum,
			"delay_ms", delay.Milliseconds())

		if err := r.sleep(ctx, delay); err != nil {
			r.logger.WarnContext(ctx, "generation cancelled during retry delay",
				"provider", name,
				"request_id", req.RequestID,
				"attempt", attemptNum,
				"ctx_err", err)
			return "", r.canceled(ctx, name, attemptNum, err)
		}
	}

	r.logger.WarnContext(ctx, "maximum attempts reached",
		"provider", name,
		"request_id", req.RequestID,
		"max_attempts", r.maxAttempts)

	message := ExhaustedMessage
	if lastText != "" {
		message += ": " + lastText
	}
	return "", &domain.GenerationError{
		Kind:     domain.KindExhausted,
		Message:  message,
		Attempts: r.maxAttempts,
		Err:      fmt.Errorf("%w: %s", ErrSemanticFailure, lastText),
	}
}

func (r *Retrier) canceled(ctx context.Context, name domain.Provider, attempts int, cause error) error {
	r.logger.WarnContext(ctx, "generation cancelled",
		"provider", name,
		"attempts", attempts,
		"error", cause)
	return &domain.GenerationError{
		Kind:     domain.KindCanceled,
		Message:  fmt.Sprintf("Error: generation canceled after %d attempts: %v", attempts, cause),
		Attempts: attempts,
		Err:      cause,
	}
}
