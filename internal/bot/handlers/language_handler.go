package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/abc-assistant/assistant/internal/language"
)

// NewLanguageHandler returns a handler for /language [code].
func NewLanguageHandler(deps HandlerDeps) bot.HandlerFunc {
	return languageHandler{deps}.Handle
}

type languageHandler struct {
	deps HandlerDeps
}

func (h languageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "language")
	if update.Message == nil {
		log.WarnContext(ctx, "Language handler received update with nil message", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	arg := commandArgument(update.Message.Text)
	if arg == "" {
		sess := h.deps.Sessions.Get(ctx, SessionID(chatID))
		txt := language.TextFor(sess.Language())
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   txt.LanguageSelector + ": " + sess.Language().Name(),
			ReplyMarkup: &models.InlineKeyboardMarkup{
				InlineKeyboard: [][]models.InlineKeyboardButton{languageKeyboard()},
			},
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send language selector", "error", err, "chat_id", chatID)
		}
		return
	}

	code, err := language.Parse(arg)
	if err != nil {
		log.InfoContext(ctx, "Unsupported language requested", "chat_id", chatID, "value", arg)
		reply(ctx, h.deps, b, chatID, err.Error())
		return
	}
	switchLanguage(ctx, h.deps, b, chatID, code)
}

// commandArgument returns the text after the command word.
func commandArgument(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}
