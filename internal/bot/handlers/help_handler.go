package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const helpText = `Ask any question about blood donation and the assistant answers with its sources.

/start - welcome message and frequent questions
/language [en|es] - show or change the conversation language
/reset - clear this conversation
/help - show this help`

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return helpHandler{deps}.Handle
}

type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "help")
	if update.Message == nil {
		log.WarnContext(ctx, "Help handler received update with nil message", "update_id", update.ID)
		return
	}
	log.InfoContext(ctx, "Handling /help command", "chat_id", update.Message.Chat.ID)

	reply(ctx, h.deps, b, update.Message.Chat.ID, helpText)
}
