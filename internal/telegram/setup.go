// Package telegram creates the Telegram bot client and registers the
// assistant's handlers on it.
package telegram

import (
	"log/slog"

	"github.com/go-telegram/bot"

	"github.com/abc-assistant/assistant/internal/bot/handlers"
	"github.com/abc-assistant/assistant/internal/errs"
	"github.com/abc-assistant/assistant/internal/logger"
)

// NewTelegramBot creates a new Telegram bot instance using the go-telegram/bot library.
func NewTelegramBot(token string, log *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, errs.NewConfigError("telegram bot token cannot be empty", nil)
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "telegram_bot")

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, errs.NewTransportError("failed to create telegram bot", err)
	}

	log.Info("Telegram bot instance created", "token_prefix", logger.Truncate(token, 8))
	return b, nil
}

// Options returns the bot options the assistant runs with: update logging,
// bot filtering and the question handler as the default handler.
func Options(log *slog.Logger, deps handlers.HandlerDeps) []bot.Option {
	return []bot.Option{
		bot.WithMiddlewares(logger.Middleware(log), handlers.IgnoreBots()),
		bot.WithDefaultHandler(applyMiddleware(handlers.NewMessageHandler(deps), []bot.Middleware{handlers.BusyGuard(deps)})),
	}
}

// applyMiddleware wraps a handler function with a slice of middleware.
// The first middleware in the slice is the outermost.
func applyMiddleware(handler bot.HandlerFunc, mw []bot.Middleware) bot.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

// Registrar is the part of *bot.Bot used to register handlers.
type Registrar interface {
	RegisterHandler(handlerType bot.HandlerType, pattern string, matchType bot.MatchType, f bot.HandlerFunc, m ...bot.Middleware) string
}

// RegisterHandlers registers command and callback handlers with the bot.
func RegisterHandlers(b Registrar, log *slog.Logger, registered map[string]handlers.RegisteredHandler) error {
	if b == nil {
		return errs.NewValidationError("bot instance cannot be nil", nil)
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "handler_registry")

	if len(registered) == 0 {
		log.Warn("No handlers provided for registration")
		return nil
	}

	count := 0
	for name, h := range registered {
		if h.Handler == nil {
			log.Warn("Skipping registration for nil handler", "name", name)
			continue
		}
		b.RegisterHandler(h.HandlerType, h.Pattern, h.MatchType, applyMiddleware(h.Handler, h.Middleware))
		log.Debug("Registered handler", "name", name, "pattern", h.Pattern, "match_type", h.MatchType, "middleware_count", len(h.Middleware))
		count++
	}

	log.Info("Registered Telegram handlers", "count", count)
	return nil
}
