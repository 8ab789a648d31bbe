package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewMessageHandler returns the default handler: every text that is not a
// command is a question for the assistant.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

type messageHandler struct {
	deps HandlerDeps
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "message")

	if update.Message == nil {
		log.DebugContext(ctx, "Ignoring update without message", "update_id", update.ID)
		return
	}

	text := update.Message.Text
	if text == "" {
		text = update.Message.Caption
	}
	chatID := update.Message.Chat.ID
	log.DebugContext(ctx, "Handling question", "chat_id", chatID, "message_id", update.Message.ID)

	respond(ctx, h.deps, b, chatID, update.Message.ID, text)
}
