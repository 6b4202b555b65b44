package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"
)

// AsynqScheduler enqueues periodic tasks. Each entry is unique for its
// interval, so several replicas enqueue a tick only once.
type AsynqScheduler struct {
	AsynqRedis
	Queue string
}

func (s AsynqScheduler) Run(ctx context.Context, g *errgroup.Group, entries ...AsynqEntry) {
	g.Go(func() error {
		scheduler := asynq.NewScheduler(s.connection(), &asynq.SchedulerOpts{})

		for _, e := range entries {
			opts := []asynq.Option{asynq.Unique(e.Interval)}
			if s.Queue != "" {
				opts = append(opts, asynq.Queue(s.Queue))
			}

			cronspec := "@every " + e.Interval.String()
			if _, err := scheduler.Register(cronspec, asynq.NewTask(e.TaskType, nil), opts...); err != nil {
				return fmt.Errorf("scheduler.Register(%s): %w", e.TaskType, err)
			}

			logger(ctx).Info("asynq entry registered", slog.String("task", e.TaskType), slog.String("cronspec", cronspec))
		}

		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("asynqScheduler.Start: %w", err)
		}

		logger(ctx).Info("asynq scheduler started", slog.String("redis-address", s.RedisAddress))

		<-ctx.Done()
		scheduler.Shutdown()

		logger(ctx).Info("asynq scheduler stopped", slog.String("redis-address", s.RedisAddress))

		return nil
	})
}
