package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"osrs_profit/pkg/application/modules"
)

// TaskType is the asynq task type name of a scheduled task.
func TaskType(name string) string {
	return "scheduler:" + name
}

// AsynqHandlers exposes the tasks as asynq handlers so that ticks enqueued
// by the distributed scheduler run them.
func AsynqHandlers(tasks ...Task) []modules.AsynqHandler {
	handlers := make([]modules.AsynqHandler, 0, len(tasks))

	for _, task := range tasks {
		handlers = append(handlers, modules.AsynqHandler{
			Pattern: TaskType(task.Name),
			Handle: func(ctx context.Context, _ *asynq.Task) error {
				if err := Execute(ctx, task); err != nil {
					return fmt.Errorf("%s: %w", task.Name, err)
				}
				return nil
			},
		})
	}

	return handlers
}

// AsynqEntries describes the periodic enqueue schedule of the tasks.
func AsynqEntries(tasks ...Task) []modules.AsynqEntry {
	entries := make([]modules.AsynqEntry, 0, len(tasks))

	for _, task := range tasks {
		entries = append(entries, modules.AsynqEntry{
			TaskType: TaskType(task.Name),
			Interval: task.Interval,
		})
	}

	return entries
}
