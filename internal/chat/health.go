package chat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/abc-assistant/assistant/internal/errs"
	"github.com/abc-assistant/assistant/internal/logger"
)

// DefaultHealthTimeout bounds a single health probe.
const DefaultHealthTimeout = 5 * time.Second

// HealthProbe checks that the backend health endpoint answers with 2xx.
type HealthProbe struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	log        *slog.Logger
}

// NewHealthProbe creates a probe for endpoint.
func NewHealthProbe(endpoint string, httpClient *http.Client, log *slog.Logger) *HealthProbe {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &HealthProbe{
		endpoint:   endpoint,
		httpClient: httpClient,
		timeout:    DefaultHealthTimeout,
		log:        log.With("component", "health_probe"),
	}
}

// Check performs one probe and updates the backend-up gauge.
func (p *HealthProbe) Check(ctx context.Context) error {
	err := p.check(ctx)
	if err != nil {
		healthUp.Set(0)
		p.log.WarnContext(ctx, "Chat backend health check failed", "endpoint", p.endpoint, "error", err)
		return err
	}
	healthUp.Set(1)
	p.log.DebugContext(ctx, "Chat backend healthy", "endpoint", p.endpoint)
	return nil
}

func (p *HealthProbe) check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return errs.NewTransportError("failed to create health request", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errs.NewTransportError("health request failed", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.NewTransportError(fmt.Sprintf("health endpoint returned status %d", resp.StatusCode), nil)
	}
	return nil
}
