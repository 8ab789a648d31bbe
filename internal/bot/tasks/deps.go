// Package tasks implements the assistant's scheduled maintenance tasks.
package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/abc-assistant/assistant/internal/config"
	"github.com/abc-assistant/assistant/internal/database"
)

// HealthChecker probes a remote dependency.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// SessionEvictor drops in-memory conversations idle since before cutoff.
type SessionEvictor interface {
	Evict(cutoff time.Time) []string
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
	Health HealthChecker
	// Sessions is nil when no surface keeps long-lived sessions.
	Sessions SessionEvictor

	// Now defaults to time.Now.
	Now func() time.Time
}

func (d TaskDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
