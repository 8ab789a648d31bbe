package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/abc-assistant/assistant/internal/language"
)

// NewResetHandler returns a handler for the /reset command.
func NewResetHandler(deps HandlerDeps) bot.HandlerFunc {
	return resetHandler{deps}.Handle
}

type resetHandler struct {
	deps HandlerDeps
}

func (h resetHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "reset")
	if update.Message == nil {
		log.ErrorContext(ctx, "Reset handler called with nil Message", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	id := SessionID(chatID)
	sess := h.deps.Sessions.Get(ctx, id)
	if sess.Processing() {
		log.InfoContext(ctx, "Reset requested while a request is in flight", "chat_id", chatID)
	}

	sess.Reset()
	h.deps.Tracker.Forget(id)
	log.InfoContext(ctx, "Conversation reset", "chat_id", chatID)

	reply(ctx, h.deps, b, chatID, language.TextFor(sess.Language()).ConversationCleared)
}
