package translation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abc-assistant/assistant/internal/language"
)

type fakeBackend struct {
	calls atomic.Int32
	fn    func(ctx context.Context, text, source, target string) (string, error)
}

func (f *fakeBackend) Translate(ctx context.Context, text, source, target string) (string, error) {
	f.calls.Add(1)
	return f.fn(ctx, text, source, target)
}

func (f *fakeBackend) CheckHealth(context.Context) error { return nil }

func TestClientTranslate(t *testing.T) {
	t.Parallel()

	backendErr := errors.New("boom")

	tests := []struct {
		name           string
		text           string
		source, target language.Code
		fn             func(ctx context.Context, text, source, target string) (string, error)
		wantText       string
		wantTranslated bool
		wantCalls      int32
		wantErr        bool
	}{
		{
			name:   "translates",
			text:   "Hello",
			source: language.English, target: language.Spanish,
			fn: func(_ context.Context, _, _, _ string) (string, error) {
				return "Hola", nil
			},
			wantText: "Hola", wantTranslated: true, wantCalls: 1,
		},
		{
			name:   "same language skips backend",
			text:   "Hello",
			source: language.English, target: language.English,
			wantText: "Hello", wantCalls: 0,
		},
		{
			name:   "empty text skips backend",
			text:   "",
			source: language.English, target: language.Spanish,
			wantText: "", wantCalls: 0,
		},
		{
			name:   "backend error falls back",
			text:   "Hello",
			source: language.English, target: language.Spanish,
			fn: func(_ context.Context, _, _, _ string) (string, error) {
				return "", backendErr
			},
			wantText: "Hello", wantCalls: 1, wantErr: true,
		},
		{
			name:   "empty translation falls back",
			text:   "Hello",
			source: language.English, target: language.Spanish,
			fn: func(_ context.Context, _, _, _ string) (string, error) {
				return "", nil
			},
			wantText: "Hello", wantCalls: 1, wantErr: true,
		},
		{
			name:   "unknown source uses auto",
			text:   "Hola",
			target: language.English,
			fn: func(_ context.Context, _, source, _ string) (string, error) {
				if source != "auto" {
					return "", errors.New("unexpected source " + source)
				}
				return "Hello", nil
			},
			wantText: "Hello", wantTranslated: true, wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backend := &fakeBackend{fn: tt.fn}
			c := NewClient(backend, Options{}, nil)

			got := c.Translate(context.Background(), tt.text, tt.target, tt.source)
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if got.Translated != tt.wantTranslated {
				t.Errorf("Translated = %v, want %v", got.Translated, tt.wantTranslated)
			}
			if (got.Err != nil) != tt.wantErr {
				t.Errorf("Err = %v, wantErr %v", got.Err, tt.wantErr)
			}
			if n := backend.calls.Load(); n != tt.wantCalls {
				t.Errorf("backend calls = %d, want %d", n, tt.wantCalls)
			}
		})
	}
}

func TestClientTimeoutFallsBack(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{fn: func(ctx context.Context, _, _, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	c := NewClient(backend, Options{Timeout: 20 * time.Millisecond}, nil)

	start := time.Now()
	got := c.Translate(context.Background(), "Hello", language.Spanish, language.English)
	if time.Since(start) > 2*time.Second {
		t.Fatal("timeout was not applied")
	}
	if got.Text != "Hello" || got.Translated {
		t.Errorf("got %+v, want fallback to original", got)
	}
	if !errors.Is(got.Err, context.DeadlineExceeded) {
		t.Errorf("Err = %v, want deadline exceeded", got.Err)
	}
}

func TestClientBreakerOpens(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{fn: func(_ context.Context, _, _, _ string) (string, error) {
		return "", errors.New("down")
	}}
	c := NewClient(backend, Options{MaxFailures: 2, BreakerCooldown: time.Minute}, nil)

	for i := 0; i < 2; i++ {
		c.Translate(context.Background(), "Hello", language.Spanish, language.English)
	}

	got := c.TranslateText(context.Background(), "Hello", language.Spanish, language.English)
	if got != "Hello" {
		t.Errorf("TranslateText = %q, want original", got)
	}
	res := c.Translate(context.Background(), "Hello", language.Spanish, language.English)
	if !IsBreakerOpen(res.Err) {
		t.Errorf("Err = %v, want open breaker", res.Err)
	}
	if n := backend.calls.Load(); n != 2 {
		t.Errorf("backend calls = %d, want 2", n)
	}
}
