package middlewarex

import (
	"log/slog"
	"net/http"

	"osrs_profit/pkg/contextx"
	"osrs_profit/pkg/logx"
)

// Logger puts a request scoped logger into the context. It must run after
// TraceID.
func Logger(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			attrs := []any{
				slog.String(logx.FieldHTTPMethod, r.Method),
				slog.String(logx.FieldURL, r.URL.Path),
				slog.String(logx.FieldIP, r.RemoteAddr),
			}

			if traceID, err := contextx.TraceIDFromContext(ctx); err == nil {
				attrs = append(attrs, slog.String(logx.FieldTraceID, traceID.String()))
			}

			ctx = contextx.WithLogger(ctx, base.With(attrs...))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
