package tasks

import (
	"context"
	"fmt"
)

// newInteractionRetentionTask creates the task that prunes interactions
// older than retention.max_age.
func newInteractionRetentionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", InteractionRetention)

	return func(ctx context.Context) error {
		maxAge := deps.Config.Retention.MaxAge
		if maxAge <= 0 {
			log.DebugContext(ctx, "Retention disabled")
			return nil
		}

		cutoff := deps.now().Add(-maxAge)
		deleted, err := deps.Store.DeleteInteractionsBefore(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Interaction retention failed", "error", err, "cutoff", cutoff)
			return fmt.Errorf("interaction retention failed: %w", err)
		}

		log.InfoContext(ctx, "Pruned old interactions", "deleted", deleted, "cutoff", cutoff)
		return nil
	}
}
