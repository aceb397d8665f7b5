package shared

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureDefaultLogger swaps the default slog logger for one writing text to
// the returned builder. Tests using it must not run in parallel.
func captureDefaultLogger(t *testing.T) *strings.Builder {
	t.Helper()
	var buf strings.Builder
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(old) })
	return &buf
}

func tracedRequest(traceID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
	return req.WithContext(context.WithValue(req.Context(), TraceIDKey, traceID))
}

func TestRespondWithJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithJSON(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusCreated, map[string]any{"code": "x = 1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":"x = 1"}`, w.Body.String())
}

type unencodable struct {
	Fn func() `json:"fn"`
}

func TestRespondWithJSONEncodingError(t *testing.T) {
	logs := captureDefaultLogger(t)

	w := httptest.NewRecorder()
	RespondWithJSON(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, unencodable{Fn: func() {}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, logs.String(), "failed to encode JSON response")
}

func TestRespondWithError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithError(w, tracedRequest("trace-1"), http.StatusBadRequest, "Error: Unknown provider X", WithErrorKind("unknown_provider"))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Error: Unknown provider X", resp.Error)
	assert.Equal(t, "unknown_provider", resp.Kind)
	assert.Equal(t, "trace-1", resp.TraceID)
}

func TestRespondWithErrorNoTraceID(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithError(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusNotFound, "not found")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, "not found", raw["error"])
	assert.NotContains(t, raw, "trace_id")
	assert.NotContains(t, raw, "kind")
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		opts      []ResponseOption
		wantLevel string
	}{
		{"server error", http.StatusBadGateway, nil, "level=ERROR"},
		{"client error", http.StatusBadRequest, nil, "level=DEBUG"},
		{"elevated client error", http.StatusBadRequest, []ResponseOption{WithElevatedLogLevel()}, "level=WARN"},
		{"rate limited", http.StatusTooManyRequests, nil, "level=WARN"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logs := captureDefaultLogger(t)

			w := httptest.NewRecorder()
			err := errors.New("upstream rejected key=sk_live_abcdefghijklmnop")
			RespondWithErrorAndLog(w, tracedRequest("trace-2"), tc.status, "safe message", err, tc.opts...)

			assert.Equal(t, tc.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "safe message", resp.Error)
			assert.Equal(t, "trace-2", resp.TraceID)
			assert.NotContains(t, w.Body.String(), "upstream rejected")

			out := logs.String()
			assert.Contains(t, out, tc.wantLevel)
			assert.Contains(t, out, "[REDACTED_KEY]")
			assert.NotContains(t, out, "sk_live_abcdefghijklmnop")
		})
	}
}
