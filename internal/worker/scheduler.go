// Package worker runs the periodic jobs of the application: price refresh,
// profit snapshot recompute and history capture.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"osrs_profit/internal/domain"
	"osrs_profit/internal/infrastructure/monitoring"
	"osrs_profit/pkg/logx"
)

// Task is a named job executed every Interval.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs every task on its own ticker. A failing or panicking task
// never stops the others.
type Scheduler struct {
	tasks []Task

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewScheduler(tasks ...Task) *Scheduler {
	return &Scheduler{tasks: tasks}
}

func (s *Scheduler) WithTask(task Task) *Scheduler {
	s.tasks = append(s.tasks, task)
	return s
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return errors.New("scheduler is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel
	s.isRunning = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.cancelFunc = nil
			s.mu.Unlock()
		}()

		if err := s.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("scheduler stopped", logx.Error(err))
		}
	}()

	return nil
}

func (s *Scheduler) Stop() {
	s.mu.Lock()

	if !s.isRunning {
		s.mu.Unlock()
		return
	}

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Run blocks until ctx is done. Each task runs once immediately and then on
// every tick of its interval.
func (s *Scheduler) Run(ctx context.Context) error {
	logger(ctx).Info("scheduler started", slog.Int(logx.FieldCount, len(s.tasks)))

	var wg sync.WaitGroup

	for _, task := range s.tasks {
		if task.Interval <= 0 {
			logger(ctx).Warn("task without interval is disabled", slog.String(logx.FieldTask, task.Name))
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.loop(ctx, task)
		}()
	}

	wg.Wait()

	logger(ctx).Info("scheduler stopped")

	return ctx.Err()
}

func (s *Scheduler) loop(ctx context.Context, task Task) {
	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		Execute(ctx, task)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Execute runs a task once, recording its outcome. Panics are recovered
// and reported as errors.
func Execute(ctx context.Context, task Task) (err error) {
	log := logger(ctx).With(slog.String(logx.FieldTask, task.Name))
	start := time.Now()

	defer func() {
		attrs := make([]any, 0, 3) //nolint:mnd // error, duration, stack

		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", task.Name, r)
			attrs = append(attrs, slog.String(logx.FieldStack, string(debug.Stack())))
		}

		elapsed := time.Since(start)
		monitoring.TaskRun(task.Name, taskResult(err), elapsed)
		attrs = append(attrs, slog.Int64(logx.FieldDurationMs, elapsed.Milliseconds()))

		switch {
		case err == nil:
			log.Debug("task done", attrs...)
		case ctx.Err() == nil:
			log.Error("task failed", append(attrs, logx.Error(err))...)
		}
	}()

	return task.Run(ctx)
}

func taskResult(err error) string {
	switch {
	case err == nil:
		return monitoring.ResultOK
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return monitoring.ResultUpstreamError
	default:
		return monitoring.ResultError
	}
}
