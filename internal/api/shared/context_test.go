package shared

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGetTraceID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	traced := SetTraceID(ctx)
	traceID := GetTraceID(traced)
	assert.Len(t, traceID, 32)
	_, err := hex.DecodeString(traceID)
	assert.NoError(t, err)

	assert.Empty(t, GetTraceID(ctx), "parent context must be unchanged")
}

func TestGetTraceIDWithWrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx))
}

func TestWithTraceID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		keepsID bool
	}{
		{"hex id", "4bf92f3577b34da6a3ce929d0e0e4736", true},
		{"dashed id", "req-123_abc", true},
		{"empty", "", false},
		{"too long", strings.Repeat("a", 65), false},
		{"header injection", "abc\r\nSet-Cookie: x", false},
		{"spaces", "a b", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := GetTraceID(WithTraceID(context.Background(), tc.input))
			if tc.keepsID {
				assert.Equal(t, tc.input, got)
				return
			}
			assert.NotEqual(t, tc.input, got)
			assert.Len(t, got, 32)
		})
	}
}

func TestTraceIDsAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 500)
	for i := 0; i < 500; i++ {
		id := newTraceID()
		_, dup := seen[id]
		assert.False(t, dup, "duplicate trace ID %s", id)
		seen[id] = struct{}{}
	}
}
