package tasks

import (
	"context"
)

// ScheduledTaskFunc defines the signature of every scheduled task. The
// context provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// Task names, matching the keys of the scheduler.tasks configuration.
const (
	SQLMaintenance       = "sql_maintenance"
	InteractionRetention = "interaction_retention"
	ChatHealth           = "chat_health"
	SessionEviction      = "session_eviction"
)

// RegisterAllTasks returns every scheduled task keyed by name.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	tasks[SQLMaintenance] = newSQLMaintenanceTask(deps)
	tasks[InteractionRetention] = newInteractionRetentionTask(deps)
	if deps.Health != nil {
		tasks[ChatHealth] = newChatHealthTask(deps)
	}
	if deps.Sessions != nil {
		tasks[SessionEviction] = newSessionEvictionTask(deps)
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
