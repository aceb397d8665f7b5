package httpjson_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/codegen-api/internal/platform/httpjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Do(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "abc", r.Header.Get("X-Custom"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"ping"}`, string(body))
		_, _ = io.WriteString(w, `{"reply":"pong"}`)
	}))
	defer srv.Close()

	header := http.Header{}
	header.Set("X-Custom", "abc")

	var out struct {
		Reply string `json:"reply"`
	}
	err := httpjson.New(5*time.Second).Do(context.Background(), http.MethodPost, srv.URL, header,
		map[string]string{"name": "ping"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "pong", out.Reply)
}

func TestClient_DoWithoutBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := httpjson.New(time.Second).Do(context.Background(), http.MethodGet, srv.URL, nil, nil, nil)
	require.NoError(t, err)
}

func TestClient_DoStatusError(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 2000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, long)
	}))
	defer srv.Close()

	err := httpjson.New(time.Second).Do(context.Background(), http.MethodGet, srv.URL, nil, nil, nil)
	require.Error(t, err)

	var statusErr *httpjson.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Len(t, statusErr.Body, 2000)
	assert.Less(t, len(err.Error()), 600)
	assert.True(t, strings.HasPrefix(err.Error(), "unexpected status 502: "))
}

func TestClient_DoEmptyStatusBody(t *testing.T) {
	t.Parallel()

	err := (&httpjson.StatusError{StatusCode: http.StatusForbidden}).Error()
	assert.Equal(t, "unexpected status 403", err)
}

func TestClient_DoDecodeError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>")
	}))
	defer srv.Close()

	var out map[string]any
	err := httpjson.New(time.Second).Do(context.Background(), http.MethodGet, srv.URL, nil, nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestClient_DoCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := httpjson.New(5*time.Second).Do(ctx, http.MethodGet, srv.URL, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
