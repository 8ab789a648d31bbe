package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/abc-assistant/assistant/internal/auth"
	"github.com/abc-assistant/assistant/internal/chat"
	"github.com/abc-assistant/assistant/internal/config"
	"github.com/abc-assistant/assistant/internal/conversation"
	"github.com/abc-assistant/assistant/internal/database"
	"github.com/abc-assistant/assistant/internal/logger"
	"github.com/abc-assistant/assistant/internal/settings"
	"github.com/abc-assistant/assistant/internal/translation"
)

// app holds the components shared by every command.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	db    *sqlx.DB
	store database.Store
}

// openApp loads the configuration, builds the logger writing to logOut and
// opens the database.
func openApp(opts *rootOptions, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	log := logger.New(logOut, cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Debug("Configuration loaded", "path", opts.configPath, "engine", cfg.Translation.Engine)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return nil, err
	}

	return &app{
		cfg:   cfg,
		log:   log,
		db:    db,
		store: database.NewStore(db, log),
	}, nil
}

func (a *app) Close() {
	database.CloseDB(a.db)
}

func (a *app) translator(ctx context.Context) (*translation.Client, error) {
	backend, err := translation.NewBackend(ctx, a.cfg.Translation, a.log)
	if err != nil {
		a.log.Error("Failed to create translation backend", "engine", a.cfg.Translation.Engine, "error", err)
		return nil, err
	}
	return translation.NewClient(backend, translation.OptionsFromConfig(a.cfg.Translation), a.log), nil
}

// languageScope maps a conversation id to its language key scope. The
// terminal keeps the process-wide preference.
func languageScope(id string) string {
	if id == TerminalConversation {
		return ""
	}
	return id
}

// sessions returns a registry creating one chat session per conversation
// id, each with its own persisted language preference.
func (a *app) sessions(tr conversation.Translator) *chat.Registry {
	transport := chat.NewTransport(a.cfg.ChatURL(), &http.Client{}, a.log)
	orchestrator := conversation.NewOrchestrator(tr, a.cfg.Translation.Concurrency, a.log)

	return chat.NewRegistry(func(ctx context.Context, id string) *chat.Session {
		return chat.NewSession(ctx, chat.SessionConfig{
			ID:           id,
			Sender:       transport,
			Orchestrator: orchestrator,
			Preference:   settings.NewLanguage(a.store, languageScope(id), a.log),
			Recorder:     a.store,
			Logger:       a.log,
		})
	})
}

// gate returns the admin gate. Without identity configuration the admin
// feature is disabled and the gate rejects every sign-in.
func (a *app) gate(ctx context.Context) (*auth.Gate, error) {
	tokens := auth.NewKVTokenStore(a.store)
	if !a.cfg.Auth.Enabled() {
		a.log.Warn("Admin feature disabled", "error", auth.ErrIdentityNotConfigured)
		return auth.NewGate(nil, tokens, a.log), nil
	}
	provider, err := auth.NewCognitoProvider(ctx, a.cfg.Auth, a.log)
	if err != nil {
		return nil, err
	}
	return auth.NewGate(provider, tokens, a.log), nil
}
