package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for key := range defaults {
		t.Setenv(envName(key), "")
		os.Unsetenv(envName(key))
	}
	for _, names := range aliases {
		for _, name := range names {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
}

// TestLoadDefaults verifies the defaults applied when nothing is configured.
func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "./public", cfg.Server.StaticDir)
	assert.Equal(t, "config.json", cfg.Server.ConfigFile)

	assert.Empty(t, cfg.LLM.GeminiAPIKey)
	assert.Equal(t, "https://blackboxai.p.rapidapi.com", cfg.LLM.BlackboxBaseURL)
	assert.Equal(t, "https://api-inference.huggingface.co", cfg.LLM.HuggingFaceBaseURL)
	assert.Equal(t, 3, cfg.LLM.MaxAttempts)
	assert.Equal(t, time.Second, cfg.LLM.BackoffUnit())
	assert.Equal(t, time.Minute, cfg.LLM.RequestTimeout())
	assert.Equal(t, 2048, cfg.LLM.MaxOutputTokens)
	assert.InDelta(t, 0.7, cfg.LLM.DefaultTemperature, 1e-9)

	assert.Equal(t, "code_cache", cfg.Cache.Dir)
	assert.Equal(t, MirrorDisk, cfg.Cache.Mirror)
	assert.Equal(t, "codegen:cache:", cfg.Cache.RedisKeyPrefix)

	assert.Equal(t, 2, cfg.Jobs.Workers)
	assert.Equal(t, 100, cfg.Jobs.QueueSize)
	assert.Equal(t, time.Hour, cfg.Jobs.Retention())
}

// TestLoadFromEnv verifies prefixed variables and the provider key aliases.
func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CODEGEN_SERVER_PORT", "9090")
	t.Setenv("CODEGEN_SERVER_LOG_LEVEL", "DEBUG")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("RAPIDAPI_KEY", "rapid-key")
	t.Setenv("HF_API_KEY", "hf-key")
	t.Setenv("CODEGEN_LLM_MAX_ATTEMPTS", "5")
	t.Setenv("CODEGEN_CACHE_MIRROR", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "gemini-key", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, "rapid-key", cfg.LLM.RapidAPIKey)
	assert.Equal(t, "hf-key", cfg.LLM.HuggingFaceAPIKey)
	assert.Equal(t, 5, cfg.LLM.MaxAttempts)
	assert.Equal(t, MirrorRedis, cfg.Cache.Mirror)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Cache.RedisURL)
}

// TestPrefixedNameWinsOverAlias verifies that CODEGEN_* is consulted first.
func TestPrefixedNameWinsOverAlias(t *testing.T) {
	clearEnv(t)
	t.Setenv("CODEGEN_LLM_GEMINI_API_KEY", "prefixed")
	t.Setenv("GEMINI_API_KEY", "plain")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.LLM.GeminiAPIKey)
}

// TestEnvironmentVariablePrecedence verifies that environment variables take
// precedence over config file values.
func TestEnvironmentVariablePrecedence(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "codegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7070
  log_level: warn
llm:
  max_attempts: 4
cache:
  mirror: none
`), 0o600))

	t.Setenv("CODEGEN_SERVER_PORT", "9191")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Server.LogLevel)
	assert.Equal(t, 4, cfg.LLM.MaxAttempts)
	assert.Equal(t, MirrorNone, cfg.Cache.Mirror)
}

// TestLoadValidationErrors checks that invalid settings are rejected.
func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"port out of range", map[string]string{"CODEGEN_SERVER_PORT": "70000"}},
		{"unknown log level", map[string]string{"CODEGEN_SERVER_LOG_LEVEL": "verbose"}},
		{"zero attempts", map[string]string{"CODEGEN_LLM_MAX_ATTEMPTS": "0"}},
		{"temperature too high", map[string]string{"CODEGEN_LLM_DEFAULT_TEMPERATURE": "1.5"}},
		{"unknown mirror", map[string]string{"CODEGEN_CACHE_MIRROR": "s3"}},
		{"redis mirror without url", map[string]string{"CODEGEN_CACHE_MIRROR": "redis"}},
		{"bad base url", map[string]string{"CODEGEN_LLM_BLACKBOX_BASE_URL": "not a url"}},
		{"no job workers", map[string]string{"CODEGEN_JOBS_WORKERS": "0"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load("")
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

// TestLoadMissingExplicitFile verifies an explicit path must exist.
func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

// TestPlaceholderKeysAreUnset verifies that the example-file placeholder does
// not register a provider.
func TestPlaceholderKeysAreUnset(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", PlaceholderKey)
	t.Setenv("RAPIDAPI_KEY", " "+PlaceholderKey+" ")
	t.Setenv("HF_API_KEY", "hf-real")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.LLM.GeminiAPIKey)
	assert.Empty(t, cfg.LLM.RapidAPIKey)
	assert.Equal(t, "hf-real", cfg.LLM.HuggingFaceAPIKey)
}
