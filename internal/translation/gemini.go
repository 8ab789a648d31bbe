package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/abc-assistant/assistant/internal/config"
	"github.com/abc-assistant/assistant/internal/language"
	"github.com/abc-assistant/assistant/internal/logger"
)

// EngineGemini names the Gemini backend in configuration.
const EngineGemini = "gemini"

const geminiSystemInstruction = `You are a translation engine for a blood-donation assistant.
Translate the user's text into the requested target language.
Reply with the translated text only. Keep URLs, numbers, names and line breaks unchanged.
Do not add explanations, quotes or notes.`

// contentGenerator is the subset of *genai.Models used by the backend.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiBackend translates through a Gemini model.
type GeminiBackend struct {
	models     contentGenerator
	log        *slog.Logger
	model      string
	maxRetries int
	retryDelay time.Duration
	genConfig  *genai.GenerateContentConfig
}

// NewGeminiBackend creates a Gemini client from cfg.
func NewGeminiBackend(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (*GeminiBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return newGeminiBackend(gi.Models, cfg, log), nil
}

func newGeminiBackend(models contentGenerator, cfg config.GeminiConfig, log *slog.Logger) *GeminiBackend {
	if log == nil {
		log = logger.Discard()
	}
	temperature := float32(0)
	model := cfg.Model
	if model == "" {
		model = config.DefaultGeminiModel
	}

	b := &GeminiBackend{
		models:     models,
		log:        log.With("component", "gemini_translator"),
		model:      model,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		genConfig: &genai.GenerateContentConfig{
			Temperature:       &temperature,
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: geminiSystemInstruction}}},
		},
	}
	b.log.Info("Gemini translator initialized", "model", model)
	return b
}

// Translate asks the model for a translation of text into targetLang.
func (b *GeminiBackend) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	prompt := fmt.Sprintf("Target language: %s\n", language.Code(targetLang).Name())
	if sourceLang != "" && sourceLang != string(language.Auto) {
		prompt += fmt.Sprintf("Source language: %s\n", language.Code(sourceLang).Name())
	}
	prompt += "\n" + text

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := b.generateWithRetries(ctx, contents)
	if err != nil {
		return "", err
	}

	translated := strings.TrimSpace(resp.Text())
	if translated == "" {
		return "", errEmptyTranslation
	}
	return translated, nil
}

// CheckHealth reports whether the client was configured. Gemini has no cheap
// unauthenticated probe.
func (b *GeminiBackend) CheckHealth(context.Context) error {
	if b.models == nil {
		return errors.New("gemini client not initialized")
	}
	return nil
}

func (b *GeminiBackend) generateWithRetries(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	var err error

	for i := 0; i <= b.maxRetries; i++ {
		resp, err = b.models.GenerateContent(ctx, b.model, contents, b.genConfig)
		if err == nil {
			if resp == nil || len(resp.Candidates) == 0 {
				return nil, errEmptyTranslation
			}
			return resp, nil
		}

		b.log.WarnContext(ctx, "Gemini translation call failed", "attempt", i+1, "max_retries", b.maxRetries, "error", err)

		var apiErr *genai.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == 500 || apiErr.Code == 503) && i < b.maxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(b.retryDelay):
			}
			continue
		}
		return nil, fmt.Errorf("gemini translation failed: %w", err)
	}
	return nil, err
}
