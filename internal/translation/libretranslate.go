package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/abc-assistant/assistant/internal/logger"
)

// EngineLibreTranslate names the LibreTranslate backend in configuration.
const EngineLibreTranslate = "libretranslate"

// maxErrorBody bounds how much of an error response is kept for logging.
const maxErrorBody = 2048

// LibreTranslateBackend calls a LibreTranslate-compatible /translate endpoint.
type LibreTranslateBackend struct {
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

// NewLibreTranslateBackend creates a backend posting to endpoint, the full URL
// of the /translate route. Timeouts are applied per call by the Client.
func NewLibreTranslateBackend(endpoint string, httpClient *http.Client, log *slog.Logger) *LibreTranslateBackend {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &LibreTranslateBackend{
		endpoint:   endpoint,
		httpClient: httpClient,
		log:        log.With("component", "libretranslate"),
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

var errEmptyTranslation = errors.New("translation response has no translatedText")

// Translate posts {q, source, target, format} and returns translatedText.
func (b *LibreTranslateBackend) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(&translateRequest{
		Q:      text,
		Source: sourceLang,
		Target: targetLang,
		Format: "text",
	}); err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	b.log.DebugContext(ctx, "Translation request completed",
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(startTime).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var ltResp translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&ltResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if ltResp.TranslatedText == "" {
		return "", errEmptyTranslation
	}
	return ltResp.TranslatedText, nil
}

// CheckHealth queries the /languages route next to the translate endpoint.
func (b *LibreTranslateBackend) CheckHealth(ctx context.Context) error {
	url := strings.TrimSuffix(strings.TrimSuffix(b.endpoint, "/"), "/translate") + "/languages"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create health check request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}
