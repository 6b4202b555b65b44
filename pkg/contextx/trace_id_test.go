package contextx_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"osrs_profit/pkg/contextx"
)

func TestTraceID(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	var testTraceIDEmpty contextx.TraceID

	testTraceIDNotEmpty := contextx.TraceID("test-trace-id")

	traceID, err := contextx.TraceIDFromContext(ctx)
	rq.Equal(testTraceIDEmpty, traceID)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.ErrorContains(err, "trace id: no value in context")

	ctx = contextx.WithTraceID(ctx, testTraceIDNotEmpty)

	traceID, err = contextx.TraceIDFromContext(ctx)
	rq.Equal(testTraceIDNotEmpty, traceID)
	rq.NoError(err)
}

func TestParseTraceID(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		wantOK bool
	}{
		{name: "xid", input: "d0j2c9tq3c7g00b4kvpg", wantOK: true},
		{name: "uuid", input: "2f1c9c1e-4a2b-4f7a-9d55-0b1e6b0c8a11", wantOK: true},
		{name: "dotted", input: "span.1_a", wantOK: true},
		{name: "empty", input: ""},
		{name: "too long", input: strings.Repeat("a", 65)},
		{name: "newline", input: "abc\ninjected=1"},
		{name: "space", input: "abc def"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			traceID, ok := contextx.ParseTraceID(tc.input)
			rq.Equal(tc.wantOK, ok)
			if tc.wantOK {
				rq.Equal(tc.input, traceID.String())
			} else {
				rq.Empty(traceID)
			}
		})
	}
}
