package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/codegen-api/internal/bootstrap"
	"github.com/phrazzld/codegen-api/internal/config"
	"github.com/phrazzld/codegen-api/internal/platform/logger"
	"github.com/stretchr/testify/require"
)

// createTestConfig returns a valid config with no provider keys, a
// memory-only cache and a temporary static directory and config file.
func createTestConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	staticDir := filepath.Join(dir, "public")
	require.NoError(t, os.MkdirAll(staticDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "main.js"), []byte("console.log('codegen')"), 0o600))

	configFile := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(configFile, []byte(`{"defaultProvider":"Google Gemini"}`), 0o600))

	return &config.Config{
		Server: config.ServerConfig{
			Port:       8000,
			LogLevel:   "debug",
			StaticDir:  staticDir,
			ConfigFile: configFile,
		},
		LLM: config.LLMConfig{
			BlackboxBaseURL:       "https://blackboxai.p.rapidapi.com",
			HuggingFaceBaseURL:    "https://api-inference.huggingface.co",
			MaxAttempts:           2,
			BackoffUnitMS:         1,
			RequestTimeoutSeconds: 5,
			MaxOutputTokens:       128,
			DefaultTemperature:    0.7,
		},
		Cache: config.CacheConfig{Mirror: config.MirrorNone},
		Jobs:  config.JobsConfig{Workers: 1, QueueSize: 4, RetentionMinutes: 60},
	}
}

func noSleep(context.Context, time.Duration) error { return nil }

// newTestApplication builds an application for cfg with logs captured.
func newTestApplication(t *testing.T, cfg *config.Config) (*application, *logger.TestLogBuffer) {
	t.Helper()

	l, buf := logger.NewTestLogger(t)
	app, err := newApplication(context.Background(), cfg, l, bootstrap.WithSleep(noSleep))
	require.NoError(t, err)
	t.Cleanup(app.jobs.Stop)
	return app, buf
}
