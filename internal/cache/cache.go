package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrMirrorWrite is returned when the in-memory entry was stored but the
// durable mirror could not be written.
var ErrMirrorWrite = errors.New("cache mirror write failed")

// Mirror persists cache entries outside the process.
type Mirror interface {
	// Write stores code under key, overwriting any previous value.
	Write(ctx context.Context, key, code string) error

	// Name identifies the mirror in logs.
	Name() string
}

// Entry is a cached generation.
type Entry struct {
	Key  string
	Code string
}

// ResultCache is the two-tier store for generated code. It is safe for
// concurrent use.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	mirror  Mirror
	logger  *slog.Logger
}

// New creates a ResultCache writing through to mirror. A nil mirror keeps the
// cache memory-only.
func New(mirror Mirror, logger *slog.Logger) *ResultCache {
	if mirror == nil {
		mirror = NopMirror{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultCache{
		entries: make(map[string]Entry),
		mirror:  mirror,
		logger:  logger.With("component", "result_cache", "mirror", mirror.Name()),
	}
}

// Lookup returns the cached code for the inputs. Only the in-memory tier is
// consulted.
func (c *ResultCache) Lookup(provider, prompt, language, model string) (string, bool) {
	key := Fingerprint(provider, prompt, language, model)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}
	return entry.Code, true
}

// Store records code for the inputs and writes it to the mirror. If the
// mirror write fails the in-memory entry is kept and an error wrapping
// ErrMirrorWrite is returned.
func (c *ResultCache) Store(ctx context.Context, provider, prompt, language, model, code string) error {
	key := Fingerprint(provider, prompt, language, model)

	c.mu.Lock()
	c.entries[key] = Entry{Key: key, Code: code}
	c.mu.Unlock()

	if err := c.mirror.Write(ctx, key, code); err != nil {
		c.logger.ErrorContext(ctx, "failed to write cache mirror",
			"key", key,
			"error", err)
		return fmt.Errorf("%w: %v", ErrMirrorWrite, err)
	}

	c.logger.DebugContext(ctx, "cached generated code",
		"key", key,
		"code_length", len(code))
	return nil
}

// Len returns the number of in-memory entries.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// NopMirror discards writes.
type NopMirror struct{}

// Write does nothing.
func (NopMirror) Write(context.Context, string, string) error { return nil }

// Name returns "none".
func (NopMirror) Name() string { return "none" }
