package translation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/abc-assistant/assistant/internal/config"
	"github.com/abc-assistant/assistant/internal/language"
	"github.com/abc-assistant/assistant/internal/logger"
)

// DefaultTimeout bounds a single translation call.
const DefaultTimeout = 10 * time.Second

// Result is the outcome of a best-effort translation. Text is always usable:
// it is the translation when Translated is true and the input otherwise. Err
// records why a fallback happened and is never meant to be surfaced to users.
type Result struct {
	Text       string
	Translated bool
	Err        error
}

// Options tunes a Client.
type Options struct {
	Engine          string
	Timeout         time.Duration
	MaxFailures     int
	BreakerCooldown time.Duration
}

// OptionsFromConfig maps the translation configuration to client options.
func OptionsFromConfig(cfg config.TranslationConfig) Options {
	return Options{
		Engine:          cfg.Engine,
		Timeout:         cfg.Timeout,
		MaxFailures:     cfg.MaxFailures,
		BreakerCooldown: cfg.BreakerCooldown,
	}
}

// Client performs best-effort translation on top of a Backend.
type Client struct {
	backend Backend
	engine  string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
	log     *slog.Logger
}

// NewClient wraps backend. A positive MaxFailures puts the backend behind a
// circuit breaker that short-circuits to the fallback once open.
func NewClient(backend Backend, opts Options, log *slog.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Engine == "" {
		opts.Engine = EngineLibreTranslate
	}

	c := &Client{
		backend: backend,
		engine:  opts.Engine,
		timeout: opts.Timeout,
		log:     log.With("component", "translator"),
	}

	if opts.MaxFailures > 0 {
		maxFailures := uint32(opts.MaxFailures)
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "translation-" + opts.Engine,
			MaxRequests: 1,
			Timeout:     opts.BreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				c.log.Warn("Translation circuit breaker state changed",
					"breaker", name, "from", from.String(), "to", to.String())
			},
		})
	}
	return c
}

// Translate converts text into target. When text is empty or source equals
// target the input is returned without contacting the backend. Any backend
// failure, timeout or empty translation yields the input unchanged.
func (c *Client) Translate(ctx context.Context, text string, target, source language.Code) Result {
	if source == "" {
		source = language.Auto
	}
	if text == "" || target == source {
		requestsTotal.WithLabelValues(c.engine, outcomeSkipped).Inc()
		return Result{Text: text}
	}

	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	translated, err := c.call(tctx, text, string(source), string(target))
	requestDuration.WithLabelValues(c.engine).Observe(time.Since(start).Seconds())

	if err != nil {
		requestsTotal.WithLabelValues(c.engine, outcomeFallback).Inc()
		c.log.WarnContext(ctx, "Translation failed, using original text",
			"source", source, "target", target,
			"text", logger.Truncate(text, 80), "error", err)
		return Result{Text: text, Err: err}
	}

	requestsTotal.WithLabelValues(c.engine, outcomeSuccess).Inc()
	return Result{Text: translated, Translated: true}
}

// TranslateText is Translate without the diagnostics.
func (c *Client) TranslateText(ctx context.Context, text string, target, source language.Code) string {
	return c.Translate(ctx, text, target, source).Text
}

// CheckHealth probes the backend.
func (c *Client) CheckHealth(ctx context.Context) error {
	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.backend.CheckHealth(tctx)
}

func (c *Client) call(ctx context.Context, text, source, target string) (string, error) {
	if c.breaker == nil {
		return c.translate(ctx, text, source, target)
	}
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.translate(ctx, text, source, target)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (c *Client) translate(ctx context.Context, text, source, target string) (string, error) {
	out, err := c.backend.Translate(ctx, text, source, target)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", errEmptyTranslation
	}
	return out, nil
}

// IsBreakerOpen reports whether err came from an open circuit.
func IsBreakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
