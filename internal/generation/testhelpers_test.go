package generation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/codegen-api/internal/domain"
	"github.com/phrazzld/codegen-api/internal/generation"
)

// reply is one scripted provider response.
type reply struct {
	text string
	err  error
}

// scriptedProvider returns its replies in order, repeating the last one.
type scriptedProvider struct {
	name    domain.Provider
	mu      sync.Mutex
	replies []reply
	calls   int
	reqs    []generation.ProviderRequest
	models  []string
	block   chan struct{}
}

func newScriptedProvider(name domain.Provider, replies ...reply) *scriptedProvider {
	return &scriptedProvider{name: name, replies: replies}
}

func (p *scriptedProvider) Name() domain.Provider { return p.name }

func (p *scriptedProvider) Generate(ctx context.Context, req generation.ProviderRequest) (string, error) {
	if p.block != nil {
		<-p.block
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.reqs = append(p.reqs, req)
	idx := p.calls
	p.calls++
	if idx >= len(p.replies) {
		idx = len(p.replies) - 1
	}
	r := p.replies[idx]
	return r.text, r.err
}

func (p *scriptedProvider) Models(context.Context) ([]string, error) {
	if p.models == nil {
		return nil, errors.New("listing failed")
	}
	return p.models, nil
}

func (p *scriptedProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *scriptedProvider) Requests() []generation.ProviderRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]generation.ProviderRequest(nil), p.reqs...)
}

// sleepRecorder captures backoff delays without waiting.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *sleepRecorder) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

// countingRecorder tallies Recorder events.
type countingRecorder struct {
	mu        sync.Mutex
	hits      int
	misses    int
	attempts  map[string]int
	completed map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{attempts: map[string]int{}, completed: map[string]int{}}
}

func (r *countingRecorder) CacheLookup(_ domain.Provider, hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func (r *countingRecorder) ProviderAttempt(_ domain.Provider, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[outcome]++
}

func (r *countingRecorder) GenerationCompleted(_ domain.Provider, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed[result]++
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
