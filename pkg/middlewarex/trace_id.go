package middlewarex

import (
	"net/http"

	"github.com/rs/xid"

	"osrs_profit/pkg/contextx"
)

const headerNameTraceID = "X-Trace-Id"

// TraceID reuses a well-formed incoming X-Trace-Id and generates a new one
// otherwise. The id is echoed in the response headers.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID, ok := contextx.ParseTraceID(r.Header.Get(headerNameTraceID))
		if !ok {
			traceID = contextx.TraceID(xid.New().String())
		}

		ctx := contextx.WithTraceID(r.Context(), traceID)

		w.Header().Set(headerNameTraceID, traceID.String())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
