// Package settings reads and writes the small set of persisted preferences
// (active language, admin tokens) on top of a key-value store. Missing or
// malformed values always fall back to defaults.
package settings

import (
	"context"
	"log/slog"
	"sync"

	"github.com/abc-assistant/assistant/internal/language"
	"github.com/abc-assistant/assistant/internal/logger"
)

// Keys of the persisted preferences.
const (
	LanguageKey = "selectedLanguage"
	TokensKey   = "adminTokens"
)

// KV is a string key-value store. GetSetting reports ok=false for a missing key.
type KV interface {
	GetSetting(ctx context.Context, key string) (value string, ok bool, err error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
}

// LanguageKeyFor scopes the language key, e.g. per Telegram chat. An empty
// scope is the process-wide key.
func LanguageKeyFor(scope string) string {
	if scope == "" {
		return LanguageKey
	}
	return LanguageKey + ":" + scope
}

// Language persists one language preference.
type Language struct {
	kv  KV
	key string
	log *slog.Logger
}

// NewLanguage returns the preference stored under LanguageKeyFor(scope).
func NewLanguage(kv KV, scope string, log *slog.Logger) *Language {
	if log == nil {
		log = logger.Discard()
	}
	return &Language{kv: kv, key: LanguageKeyFor(scope), log: log.With("component", "settings")}
}

// Load returns the stored language, or the default when it is missing,
// unreadable or not a supported code.
func (l *Language) Load(ctx context.Context) language.Code {
	v, ok, err := l.kv.GetSetting(ctx, l.key)
	if err != nil {
		l.log.WarnContext(ctx, "Failed to read language preference, using default", "key", l.key, "error", err)
		return language.Default
	}
	if !ok {
		return language.Default
	}
	code, err := language.Parse(v)
	if err != nil {
		l.log.WarnContext(ctx, "Ignoring malformed language preference", "key", l.key, "value", v)
		return language.Default
	}
	return code
}

// Save stores c.
func (l *Language) Save(ctx context.Context, c language.Code) error {
	return l.kv.SetSetting(ctx, l.key, c.String())
}

// Memory is an in-process KV.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory KV.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) GetSetting(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) SetSetting(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) DeleteSetting(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}
