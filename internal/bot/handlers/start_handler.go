package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/abc-assistant/assistant/internal/language"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

// startHandler sends the welcome text with FAQ shortcuts.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil {
		log.WarnContext(ctx, "Start handler received update with nil message", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	sess := h.deps.Sessions.Get(ctx, SessionID(chatID))
	txt := language.TextFor(sess.Language())
	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID, "language", sess.Language())

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        welcomeText(txt),
		ReplyMarkup: welcomeKeyboard(txt),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send welcome message", "error", err, "chat_id", chatID)
	}
}

func welcomeText(txt language.Text) string {
	var sb strings.Builder
	sb.WriteString(txt.AppName)
	sb.WriteString("\n\n")
	sb.WriteString(txt.About)
	sb.WriteString("\n\n")
	sb.WriteString(txt.FAQTitle)
	sb.WriteString(":")
	for i, q := range txt.FAQs {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, q)
	}
	return sb.String()
}

func welcomeKeyboard(txt language.Text) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(txt.FAQs)+2)
	for i, q := range txt.FAQs {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         shorten(q, maxButtonText),
			CallbackData: fmt.Sprintf("%s%d", callbackFAQPrefix, i),
		}})
	}
	rows = append(rows, languageKeyboard())
	rows = append(rows, []models.InlineKeyboardButton{{
		Text: txt.BloodCenterLink,
		URL:  language.BloodCenterURL,
	}})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
