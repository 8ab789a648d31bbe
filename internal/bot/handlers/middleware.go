// Package handlers contains the Telegram command, message and callback
// handlers, their registration and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/abc-assistant/assistant/internal/language"
)

// IgnoreBots drops messages sent by other bots.
func IgnoreBots() tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message != nil && update.Message.From != nil && update.Message.From.IsBot {
				return
			}
			next(ctx, b, update)
		}
	}
}

// BusyGuard answers with the processing notice instead of starting a second
// request while the chat's session is waiting for the backend.
func BusyGuard(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			sess := deps.Sessions.Get(ctx, SessionID(chatID))
			if !sess.Processing() {
				next(ctx, b, update)
				return
			}

			log := deps.Logger.With("middleware", "BusyGuard")
			log.InfoContext(ctx, "Message rejected while a request is in flight", "chat_id", chatID)

			txt := language.TextFor(sess.Language())
			_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
				ChatID: chatID,
				Text:   txt.Processing + "...",
			})
			if err != nil {
				log.ErrorContext(ctx, "Failed to send processing notice", "error", err, "chat_id", chatID)
			}
		}
	}
}
