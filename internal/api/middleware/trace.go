package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/codegen-api/internal/api/shared"
)

// TraceMiddleware attaches a trace ID to the request context and echoes it in
// the X-Trace-ID response header. A well-formed incoming X-Trace-ID is kept.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.WithTraceID(r.Context(), r.Header.Get(shared.TraceIDHeader))
		traceID := shared.GetTraceID(ctx)
		w.Header().Set(shared.TraceIDHeader, traceID)

		slog.DebugContext(ctx, "request started",
			slog.String("trace_id", traceID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
