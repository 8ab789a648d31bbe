package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/abc-assistant/assistant/internal/chat"
	"github.com/abc-assistant/assistant/internal/conversation"
	"github.com/abc-assistant/assistant/internal/language"
	"github.com/abc-assistant/assistant/internal/render"
)

const maxButtonText = 60

// sourceKeyboard builds one URL button per linkable source. Documents are
// labelled by title or file name, web pages by URL.
func sourceKeyboard(sources []conversation.Source) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	for _, s := range sources {
		if !isLinkable(s.URL) {
			continue
		}
		label := s.Label()
		if s.Kind == conversation.SourceDocument {
			label = "📄 " + label
		}
		rows = append(rows, []models.InlineKeyboardButton{{
			Text: shorten(label, maxButtonText),
			URL:  s.URL,
		}})
	}
	if len(rows) == 0 {
		return nil
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// blockText is the message text of a block with markdown stripped. Sources
// that cannot become URL buttons are listed inline.
func blockText(block conversation.Block, txt language.Text) string {
	var extra []string
	for _, s := range block.Sources {
		if !isLinkable(s.URL) {
			extra = append(extra, "• "+render.SourceLine(s))
		}
	}
	msg := render.StripMarkdown(block.Message)
	if len(extra) == 0 {
		return msg
	}
	return msg + "\n\n" + txt.SourcesHeader + ":\n" + strings.Join(extra, "\n")
}

func isLinkable(u string) bool {
	return strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "http://")
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// sendBlock posts a bot block and returns the Telegram message id.
func sendBlock(ctx context.Context, b *tgbot.Bot, chatID int64, block conversation.Block, txt language.Text, replyTo int) (int, error) {
	params := &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   blockText(block, txt),
	}
	if kb := sourceKeyboard(block.Sources); kb != nil {
		params.ReplyMarkup = kb
	}
	if replyTo != 0 {
		params.ReplyParameters = &models.ReplyParameters{MessageID: replyTo}
	}
	msg, err := b.SendMessage(ctx, params)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func reply(ctx context.Context, deps HandlerDeps, b *tgbot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}

// respond submits question for the chat and posts the answer block.
func respond(ctx context.Context, deps HandlerDeps, b *tgbot.Bot, chatID int64, replyTo int, question string) {
	log := deps.Logger.With("chat_id", chatID)
	id := SessionID(chatID)
	sess := deps.Sessions.Get(ctx, id)
	txt := language.TextFor(sess.Language())

	_, _ = b.SendChatAction(ctx, &tgbot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping})

	turn, err := sess.Submit(ctx, question)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		reply(ctx, deps, b, chatID, txt.EmptyMessage)
		return
	case errors.Is(err, chat.ErrBusy):
		reply(ctx, deps, b, chatID, txt.Processing+"...")
		return
	case err != nil:
		log.ErrorContext(ctx, "Submit failed", "error", err)
		reply(ctx, deps, b, chatID, conversation.ApologyMessage)
		return
	}

	msgID, err := sendBlock(ctx, b, chatID, turn.Bot, txt, replyTo)
	if err != nil {
		log.ErrorContext(ctx, "Failed to send answer", "error", err)
		return
	}
	deps.Tracker.Track(id, turn.BotIndex, msgID, turn.Bot.Message)
}

// switchLanguage changes the chat language and edits every answer whose
// display text changed.
func switchLanguage(ctx context.Context, deps HandlerDeps, b *tgbot.Bot, chatID int64, code language.Code) {
	log := deps.Logger.With("chat_id", chatID)
	id := SessionID(chatID)
	sess := deps.Sessions.Get(ctx, id)
	txt := language.TextFor(code)

	changed, err := sess.SetLanguage(ctx, code)
	if err != nil {
		log.WarnContext(ctx, "Language switch rejected", "language", code, "error", err)
		reply(ctx, deps, b, chatID, fmt.Sprintf("%s: %s", txt.LanguageSelector, supportedList()))
		return
	}

	if changed {
		edited := 0
		for idx, sent := range deps.Tracker.Messages(id) {
			block, ok := sess.Store().Block(idx)
			if !ok || block.Message == sent.Text {
				continue
			}
			params := &tgbot.EditMessageTextParams{
				ChatID:    chatID,
				MessageID: sent.MessageID,
				Text:      blockText(block, txt),
			}
			if kb := sourceKeyboard(block.Sources); kb != nil {
				params.ReplyMarkup = kb
			}
			if _, err := b.EditMessageText(ctx, params); err != nil {
				log.WarnContext(ctx, "Failed to edit translated message", "message_id", sent.MessageID, "error", err)
				continue
			}
			deps.Tracker.Track(id, idx, sent.MessageID, block.Message)
			edited++
		}
		log.InfoContext(ctx, "Conversation re-rendered", "language", code, "edited", edited)
	}

	reply(ctx, deps, b, chatID, txt.LanguageChanged)
}

func supportedList() string {
	var parts []string
	for _, c := range language.Supported() {
		parts = append(parts, fmt.Sprintf("%s (%s)", c, c.Name()))
	}
	return strings.Join(parts, ", ")
}

func languageKeyboard() []models.InlineKeyboardButton {
	var row []models.InlineKeyboardButton
	for _, c := range language.Supported() {
		row = append(row, models.InlineKeyboardButton{
			Text:         c.Name(),
			CallbackData: callbackLanguagePrefix + c.String(),
		})
	}
	return row
}
