package logger

import (
	"errors"
	"log/slog"

	"github.com/go-co-op/gocron/v2"

	"github.com/abc-assistant/assistant/internal/errs"
)

// gocronLogger routes gocron's internal logging to slog.
type gocronLogger struct {
	log *slog.Logger
}

// NewGocronLogger returns a gocron.Logger writing to log with the
// "component" attribute set to "gocron".
func NewGocronLogger(log *slog.Logger) gocron.Logger {
	if log == nil {
		log = slog.Default()
	}
	return &gocronLogger{log: log.With("component", "gocron")}
}

func (l *gocronLogger) Debug(msg string, args ...any) {
	l.log.Debug(msg, schedulerArgs(args)...)
}

func (l *gocronLogger) Info(msg string, args ...any) {
	l.log.Info(msg, schedulerArgs(args)...)
}

func (l *gocronLogger) Warn(msg string, args ...any) {
	l.log.Warn(msg, schedulerArgs(args)...)
}

func (l *gocronLogger) Error(msg string, args ...any) {
	l.log.Error(msg, schedulerArgs(args)...)
}

// schedulerArgs wraps error values in coded errors so scheduler failures log
// the same way as the rest of the application.
func schedulerArgs(args []any) []any {
	out := make([]any, 0, len(args))
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			out = append(out, args[i])
			break
		}
		key, val := args[i], args[i+1]
		if err, ok := val.(error); ok && errs.Code(err) == errs.CodeUnknown {
			if errors.Is(err, gocron.ErrJobNotFound) {
				val = errs.NewValidationError("scheduled job not found", err)
			} else {
				val = errs.NewConfigError("scheduler error", err)
			}
		}
		out = append(out, key, val)
	}
	return out
}
