package handlers

import (
	"log/slog"
	"strconv"

	"github.com/abc-assistant/assistant/internal/chat"
	"github.com/abc-assistant/assistant/internal/config"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Sessions *chat.Registry
	Tracker  *MessageTracker
}

// SessionPrefix prefixes the conversation id of every Telegram chat.
const SessionPrefix = "telegram:"

// SessionID returns the conversation id of a Telegram chat.
func SessionID(chatID int64) string {
	return SessionPrefix + strconv.FormatInt(chatID, 10)
}
