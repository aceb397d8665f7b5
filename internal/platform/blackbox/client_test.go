package blackbox_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/codegen-api/internal/config"
	"github.com/phrazzld/codegen-api/internal/domain"
	"github.com/phrazzld/codegen-api/internal/generation"
	"github.com/phrazzld/codegen-api/internal/platform/blackbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, handler http.HandlerFunc) (*blackbox.Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := blackbox.NewClient(slog.New(slog.NewTextHandler(io.Discard, nil)), config.LLMConfig{
		RapidAPIKey:           "rapid-test-key",
		BlackboxBaseURL:       srv.URL + "/",
		RequestTimeoutSeconds: 5,
		MaxOutputTokens:       512,
	})
	require.NoError(t, err)
	return c, srv
}

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := blackbox.NewClient(logger, config.LLMConfig{BlackboxBaseURL: "https://x"})
	assert.True(t, errors.Is(err, generation.ErrInvalidConfig))

	_, err = blackbox.NewClient(logger, config.LLMConfig{RapidAPIKey: "k", BlackboxBaseURL: "::"})
	assert.True(t, errors.Is(err, generation.ErrInvalidConfig))

	_, err = blackbox.NewClient(nil, config.LLMConfig{RapidAPIKey: "k", BlackboxBaseURL: "https://x"})
	assert.Error(t, err)
}

func TestClient_Generate(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	var gotHeaders http.Header
	c, srv := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		gotHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"console.log(1)"},"finish_reason":"stop"}]}`)
	})
	assert.Equal(t, domain.ProviderBlackbox, c.Name())

	text, err := c.Generate(context.Background(), generation.ProviderRequest{
		Prompt:      "log one",
		Model:       "blackboxai-pro",
		Temperature: 0.3,
	})
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)", text)

	assert.Equal(t, "rapid-test-key", gotHeaders.Get("X-RapidAPI-Key"))
	assert.Equal(t, strings.Split(strings.TrimPrefix(srv.URL, "http://"), ":")[0], gotHeaders.Get("X-RapidAPI-Host"))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))

	assert.Equal(t, "blackboxai-pro", gotBody["model"])
	assert.InDelta(t, 0.3, gotBody["temperature"], 1e-9)
	assert.EqualValues(t, 512, gotBody["max_tokens"])
	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, map[string]any{"role": "user", "content": "log one"}, messages[0])
}

func TestClient_GenerateDefaultModel(t *testing.T) {
	t.Parallel()

	var model string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		model = body.Model
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"x"}}]}`)
	})

	_, err := c.Generate(context.Background(), generation.ProviderRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, blackbox.DefaultModel, model)
}

func TestClient_GenerateFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"You are not subscribed to this API."}`, generation.ErrProviderFailure},
		{"rate limited", http.StatusTooManyRequests, `{"message":"Too many requests"}`, generation.ErrProviderFailure},
		{"malformed json", http.StatusOK, `not json`, generation.ErrProviderFailure},
		{"error body", http.StatusOK, `{"error":{"message":"model not found"}}`, generation.ErrSemanticFailure},
		{"no choices", http.StatusOK, `{"choices":[]}`, generation.ErrSemanticFailure},
		{"blank content", http.StatusOK, `{"choices":[{"message":{"content":"  \n"}}]}`, generation.ErrSemanticFailure},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})

			_, err := c.Generate(context.Background(), generation.ProviderRequest{Prompt: "p"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestClient_Models(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want []string
	}{
		{"openai shape", `{"data":[{"id":"blackboxai"},{"id":"gpt-4o"}]}`, []string{"blackboxai", "gpt-4o"}},
		{"models key", `{"models":["a","b"]}`, []string{"a", "b"}},
		{"bare array", `[{"name":"x"},"y"]`, []string{"x", "y"}},
		{"empty listing", `{}`, blackbox.DefaultModels},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/models", r.URL.Path)
				assert.Equal(t, http.MethodGet, r.Method)
				_, _ = io.WriteString(w, tc.body)
			})

			models, err := c.Models(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.want, models)
		})
	}
}

func TestClient_ModelsInvalidKey(t *testing.T) {
	t.Parallel()

	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.Models(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, generation.ErrProviderFailure))
	assert.Contains(t, err.Error(), "403")
}
