package middlewarex_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"osrs_profit/pkg/contextx"
	"osrs_profit/pkg/logx"
	"osrs_profit/pkg/middlewarex"
)

func TestMiddlewareChain(t *testing.T) {
	testCases := []struct {
		name        string
		traceID     string
		path        string
		statusCode  int
		wantBody    string
		wantTraceID bool
	}{
		{
			name:       "trace id is generated",
			path:       "/ok",
			statusCode: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name:        "trace id is propagated",
			traceID:     "trace-123",
			path:        "/ok",
			statusCode:  http.StatusOK,
			wantBody:    "ok",
			wantTraceID: true,
		},
		{
			name:       "malformed trace id is replaced",
			traceID:    "trace 123;x=1",
			path:       "/ok",
			statusCode: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name:        "panic is recovered",
			traceID:     "trace-456",
			path:        "/panic",
			statusCode:  http.StatusInternalServerError,
			wantBody:    `"supportId":"trace-456"`,
			wantTraceID: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			var logs bytes.Buffer
			base := slog.New(slog.NewJSONHandler(&logs, nil))

			r := chi.NewRouter()
			r.Use(
				middlewarex.TraceID,
				middlewarex.Logger(base),
				middlewarex.RequestLogging(logx.NewSensitiveDataMasker(), 1024),
				middlewarex.ResponseLogging(logx.NewSensitiveDataMasker(), 1024),
				middlewarex.Recovery,
			)
			r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
				contextx.LoggerFromContextOrDefault(r.Context()).Info("handled")
				_, _ = w.Write([]byte("ok"))
			})
			r.Get("/panic", func(http.ResponseWriter, *http.Request) {
				panic("boom")
			})

			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.traceID != "" {
				req.Header.Set("X-Trace-Id", tc.traceID)
			}

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			rq.Equal(tc.statusCode, rec.Code)
			rq.Contains(rec.Body.String(), tc.wantBody)

			traceID := rec.Header().Get("X-Trace-Id")
			rq.NotEmpty(traceID)
			if tc.wantTraceID {
				rq.Equal(tc.traceID, traceID)
			} else {
				rq.NotEqual(tc.traceID, traceID)
			}

			rq.True(strings.Contains(logs.String(), `"`+logx.FieldTraceID+`":"`+traceID+`"`))
		})
	}
}

func TestLoggingSkipPaths(t *testing.T) {
	testCases := []struct {
		name    string
		path    string
		wantLog bool
	}{
		{name: "logged path", path: "/v1/prices", wantLog: true},
		{name: "skipped path", path: "/v1/health"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			var logs bytes.Buffer
			ctx := contextx.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&logs, nil)))

			r := chi.NewRouter()
			r.Use(
				middlewarex.RequestLogging(logx.NoMask, 1024, "/v1/health"),
				middlewarex.ResponseLogging(logx.NoMask, 1024, "/v1/health"),
			)
			r.Get("/v1/*", func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("{}"))
			})

			req := httptest.NewRequest(http.MethodGet, tc.path, nil).WithContext(ctx)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			rq.Equal(http.StatusOK, rec.Code)
			rq.Equal(tc.wantLog, strings.Contains(logs.String(), logx.FieldHTTPRequest))
			rq.Equal(tc.wantLog, strings.Contains(logs.String(), logx.FieldHTTPResponse))
		})
	}
}
