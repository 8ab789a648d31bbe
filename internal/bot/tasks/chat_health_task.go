package tasks

import (
	"context"
	"fmt"
)

// newChatHealthTask creates the task that probes the chat backend's health
// endpoint. The probe itself records the backend-up gauge.
func newChatHealthTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", ChatHealth)

	return func(ctx context.Context) error {
		if err := deps.Health.Check(ctx); err != nil {
			log.WarnContext(ctx, "Chat backend unhealthy", "error", err)
			return fmt.Errorf("chat backend unhealthy: %w", err)
		}
		log.DebugContext(ctx, "Chat backend healthy")
		return nil
	}
}
