package translation

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abc-assistant/assistant/internal/config"
	"github.com/abc-assistant/assistant/internal/errs"
)

// NewBackend creates the backend selected by cfg.Engine.
func NewBackend(ctx context.Context, cfg config.TranslationConfig, log *slog.Logger) (Backend, error) {
	switch cfg.Engine {
	case EngineLibreTranslate, "":
		return NewLibreTranslateBackend(cfg.URL, &http.Client{}, log), nil
	case EngineGemini:
		b, err := NewGeminiBackend(ctx, cfg.Gemini, log)
		if err != nil {
			return nil, errs.NewConfigError("failed to initialize gemini translator", err)
		}
		return b, nil
	default:
		return nil, errs.NewConfigError(fmt.Sprintf("unsupported translation engine: %s", cfg.Engine), nil)
	}
}
