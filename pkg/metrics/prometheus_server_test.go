package metrics_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"osrs_profit/pkg/metrics"
)

func TestPrometheusServer(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{ //nolint:exhaustruct
		Name: "test_ticks_total",
		Help: "Test counter.",
	})
	registry.MustRegister(counter)
	counter.Add(3)

	testCases := []struct {
		name          string
		listenAddress string
		endpoint      string
		gatherer      prometheus.Gatherer
		statusCode    int
		wantBody      string
	}{
		{
			name:          "Metrics handler",
			listenAddress: ":10010",
			endpoint:      "http://:10010/metrics",
			statusCode:    http.StatusOK,
			wantBody:      "go_goroutines",
		},
		{
			name:          "Invalid endpoint",
			listenAddress: ":10020",
			endpoint:      "http://:10020/invalid",
			statusCode:    http.StatusNotFound,
		},
		{
			name:          "Custom gatherer",
			listenAddress: ":10030",
			endpoint:      "http://:10030/metrics",
			gatherer:      registry,
			statusCode:    http.StatusOK,
			wantBody:      "test_ticks_total 3",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			prometheusServer := metrics.NewPrometheusServer(tc.listenAddress).WithGatherer(tc.gatherer)

			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				return prometheusServer.Run(ctx)
			})

			// Wait for server to start.
			time.Sleep(time.Second)

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.endpoint, http.NoBody)
			rq.NoError(err)

			resp, err := http.DefaultClient.Do(req)
			rq.NoError(err)

			body, err := io.ReadAll(resp.Body)
			rq.NoError(err)
			resp.Body.Close()

			rq.Equal(tc.statusCode, resp.StatusCode)
			rq.Contains(string(body), tc.wantBody)

			cancel()

			rq.NoError(g.Wait())
		})
	}
}
