package telegram

import (
	"context"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/abc-assistant/assistant/internal/bot/handlers"
	"github.com/abc-assistant/assistant/internal/errs"
	"github.com/abc-assistant/assistant/internal/logger"
)

type registration struct {
	handlerType bot.HandlerType
	pattern     string
	matchType   bot.MatchType
	handler     bot.HandlerFunc
}

type fakeRegistrar struct {
	registered []registration
}

func (f *fakeRegistrar) RegisterHandler(ht bot.HandlerType, pattern string, mt bot.MatchType, h bot.HandlerFunc, _ ...bot.Middleware) string {
	f.registered = append(f.registered, registration{ht, pattern, mt, h})
	return pattern
}

func TestNewTelegramBotRequiresToken(t *testing.T) {
	t.Parallel()
	_, err := NewTelegramBot("", logger.Discard())
	if !errs.Is(err, errs.CodeConfig) {
		t.Fatalf("err = %v, want config error", err)
	}
}

func TestRegisterHandlers(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) bot.Middleware {
		return func(next bot.HandlerFunc) bot.HandlerFunc {
			return func(ctx context.Context, b *bot.Bot, u *models.Update) {
				order = append(order, name)
				next(ctx, b, u)
			}
		}
	}

	reg := &fakeRegistrar{}
	err := RegisterHandlers(reg, logger.Discard(), map[string]handlers.RegisteredHandler{
		"/ping": {
			HandlerType: bot.HandlerTypeMessageText,
			Pattern:     "ping",
			MatchType:   bot.MatchTypeCommandStartOnly,
			Handler:     func(context.Context, *bot.Bot, *models.Update) { order = append(order, "handler") },
			Middleware:  []bot.Middleware{mw("outer"), mw("inner")},
		},
		"/nil": {Pattern: "nil"},
	})
	if err != nil {
		t.Fatalf("RegisterHandlers: %v", err)
	}
	if len(reg.registered) != 1 {
		t.Fatalf("registered %d handlers, want 1", len(reg.registered))
	}

	r := reg.registered[0]
	if r.pattern != "ping" || r.matchType != bot.MatchTypeCommandStartOnly {
		t.Errorf("registration = %+v", r)
	}
	r.handler(context.Background(), nil, &models.Update{})
	want := []string{"outer", "inner", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
}

func TestRegisterHandlersNilBot(t *testing.T) {
	t.Parallel()
	if err := RegisterHandlers(nil, logger.Discard(), nil); err == nil {
		t.Fatal("expected error for nil registrar")
	}
}
