package server

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"osrs_profit/pkg/httpx/reply"
	"osrs_profit/pkg/rest"
)

const (
	healthOK       = "ok"
	healthFail     = "fail"
	healthDegraded = "degraded"

	defaultHealthCheckTimeout = time.Second
)

// HealthCheck probes one dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthServer struct {
	checks    []HealthCheck
	version   string
	startedAt time.Time
	timeout   time.Duration
}

func NewHealthServer(version string, checks ...HealthCheck) HealthServer {
	return HealthServer{
		checks:    checks,
		version:   version,
		startedAt: time.Now(),
		timeout:   defaultHealthCheckTimeout,
	}
}

// getV1Health always answers 200; a failing dependency only degrades the
// reported status.
func (s HealthServer) getV1Health(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	results := make([]rest.DependencyCheck, len(s.checks))

	var g errgroup.Group

	for i, c := range s.checks {
		g.Go(func() error {
			results[i] = s.probe(ctx, c)
			return nil
		})
	}

	_ = g.Wait()

	health := rest.Health{
		Status:       healthOK,
		Uptime:       int64(time.Since(s.startedAt).Seconds()),
		Version:      s.version,
		Dependencies: make(map[string]rest.DependencyCheck, len(s.checks)),
	}

	for i, c := range s.checks {
		health.Dependencies[c.Name] = results[i]
		if results[i].Status != healthOK {
			health.Status = healthDegraded
		}
	}

	reply.JSON(ctx, w, http.StatusOK, health)

	return nil
}

func (s HealthServer) probe(ctx context.Context, c HealthCheck) rest.DependencyCheck {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()

	if err := c.Check(ctx); err != nil {
		return rest.DependencyCheck{Status: healthFail, Error: err.Error()}
	}

	latency := time.Since(start).Milliseconds()

	return rest.DependencyCheck{Status: healthOK, LatencyMs: &latency}
}
