package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/abc-assistant/assistant/internal/language"
)

// Callback data prefixes of inline keyboard buttons.
const (
	callbackLanguagePrefix = "lang:"
	callbackFAQPrefix      = "faq:"
)

// NewLanguageCallbackHandler handles the language selector buttons.
func NewLanguageCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return callbackHandler{deps}.handleLanguage
}

// NewFAQCallbackHandler handles the FAQ shortcut buttons.
func NewFAQCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return callbackHandler{deps}.handleFAQ
}

type callbackHandler struct {
	deps HandlerDeps
}

// callbackChat returns the chat of the message carrying the pressed button.
func callbackChat(update *models.Update) (int64, bool) {
	cq := update.CallbackQuery
	if cq == nil || cq.Message.Message == nil {
		return 0, false
	}
	return cq.Message.Message.Chat.ID, true
}

func (h callbackHandler) answer(ctx context.Context, b *bot.Bot, update *models.Update) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})
	if err != nil {
		h.deps.Logger.WarnContext(ctx, "Failed to answer callback query", "error", err)
	}
}

func (h callbackHandler) handleLanguage(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "language_callback")
	chatID, ok := callbackChat(update)
	if !ok {
		log.WarnContext(ctx, "Callback without accessible message", "update_id", update.ID)
		return
	}
	h.answer(ctx, b, update)

	code, err := language.Parse(strings.TrimPrefix(update.CallbackQuery.Data, callbackLanguagePrefix))
	if err != nil {
		log.WarnContext(ctx, "Invalid language callback", "data", update.CallbackQuery.Data)
		return
	}
	switchLanguage(ctx, h.deps, b, chatID, code)
}

func (h callbackHandler) handleFAQ(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "faq_callback")
	chatID, ok := callbackChat(update)
	if !ok {
		log.WarnContext(ctx, "Callback without accessible message", "update_id", update.ID)
		return
	}
	h.answer(ctx, b, update)

	sess := h.deps.Sessions.Get(ctx, SessionID(chatID))
	faqs := language.TextFor(sess.Language()).FAQs
	idx, err := strconv.Atoi(strings.TrimPrefix(update.CallbackQuery.Data, callbackFAQPrefix))
	if err != nil || idx < 0 || idx >= len(faqs) {
		log.WarnContext(ctx, "Invalid FAQ callback", "data", update.CallbackQuery.Data)
		return
	}

	reply(ctx, h.deps, b, chatID, faqs[idx])
	respond(ctx, h.deps, b, chatID, 0, faqs[idx])
}
