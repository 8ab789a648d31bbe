package tasks

import (
	"context"
)

// newSessionEvictionTask creates the task that drops chat sessions idle for
// longer than retention.session_idle.
func newSessionEvictionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", SessionEviction)

	return func(ctx context.Context) error {
		idle := deps.Config.Retention.SessionIdle
		if idle <= 0 {
			log.DebugContext(ctx, "Session eviction disabled")
			return nil
		}

		cutoff := deps.now().Add(-idle)
		evicted := deps.Sessions.Evict(cutoff)
		if len(evicted) > 0 {
			log.InfoContext(ctx, "Evicted idle sessions", "count", len(evicted), "cutoff", cutoff)
		}
		return nil
	}
}
