// Package bot runs the assistant's long-lived components: the Telegram
// listener, the admin HTTP server and the task scheduler.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Listener is a component that runs until its context is cancelled.
type Listener interface {
	Start(ctx context.Context)
}

// Server is a component that serves until ctx is cancelled and returns an
// error only when it fails.
type Server interface {
	Run(ctx context.Context) error
}

// Bot manages the lifecycle of the assistant's components. Telegram and
// Server are optional.
type Bot struct {
	logger    *slog.Logger
	telegram  Listener
	server    Server
	scheduler *Scheduler
}

// NewBot creates the lifecycle orchestrator. A nil telegram or server is
// skipped by Run.
func NewBot(logger *slog.Logger, telegram Listener, server Server, scheduler *Scheduler) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		telegram:  telegram,
		server:    server,
		scheduler: scheduler,
	}
}

// Run starts every component and blocks until ctx is cancelled or one of
// them fails.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator")

	g, gCtx := errgroup.WithContext(ctx)

	if b.telegram != nil {
		g.Go(func() error {
			b.logger.Info("Starting Telegram listener")
			b.telegram.Start(gCtx)
			b.logger.Info("Telegram listener stopped")

			if gCtx.Err() == nil {
				b.logger.Warn("Telegram listener stopped without context cancellation")
				return fmt.Errorf("telegram listener stopped unexpectedly")
			}
			return nil
		})
	} else {
		b.logger.Info("Telegram disabled: no bot token configured")
	}

	if b.server != nil {
		g.Go(func() error {
			if err := b.server.Run(gCtx); err != nil {
				return fmt.Errorf("admin server: %w", err)
			}
			return nil
		})
	}

	if b.scheduler != nil {
		g.Go(func() error {
			if err := b.scheduler.Start(); err != nil {
				b.logger.Error("Failed to start scheduler", "error", err)
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			b.logger.Info("Shutdown signal received, stopping scheduler")
			if err := b.scheduler.Stop(); err != nil {
				b.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped")
	return nil
}
