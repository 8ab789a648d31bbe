package conversation

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/abc-assistant/assistant/internal/language"
	"github.com/abc-assistant/assistant/internal/logger"
)

// Translator is the best-effort translation used by the Orchestrator. It must
// return usable text even on failure.
type Translator interface {
	TranslateText(ctx context.Context, text string, target, source language.Code) string
}

// DefaultConcurrency bounds in-flight translations per language switch.
const DefaultConcurrency = 8

// Orchestrator re-derives every block's display text from its original when
// the active language changes.
type Orchestrator struct {
	translator  Translator
	concurrency int
	log         *slog.Logger
}

// NewOrchestrator creates an orchestrator using t.
func NewOrchestrator(t Translator, concurrency int, log *slog.Logger) *Orchestrator {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Orchestrator{
		translator:  t,
		concurrency: concurrency,
		log:         log.With("component", "orchestrator"),
	}
}

// Retranslate translates every block of store into target and commits the
// results in a single rewrite. Nothing is committed when no text changed or
// ctx ended before all translations finished. It reports whether the store
// changed.
func (o *Orchestrator) Retranslate(ctx context.Context, store *Store, target language.Code) bool {
	if n := store.backfillOriginals(); n > 0 {
		o.log.DebugContext(ctx, "Backfilled block originals", "count", n)
	}

	blocks, epoch := store.snapshot()
	if len(blocks) == 0 {
		return false
	}

	texts := make([]string, len(blocks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, b := range blocks {
		if b.OriginalMessage == "" {
			texts[i] = b.Message
			continue
		}
		g.Go(func() error {
			texts[i] = o.translator.TranslateText(gctx, b.OriginalMessage, target, b.OriginalLanguage)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		o.log.WarnContext(ctx, "Language switch abandoned", "target", target, "error", err)
		return false
	}

	updates := make(map[int]string, len(blocks))
	for i, b := range blocks {
		if texts[i] != b.Message {
			updates[i] = texts[i]
		}
	}
	if len(updates) == 0 {
		o.log.DebugContext(ctx, "Language switch left every block unchanged", "target", target, "blocks", len(blocks))
		return false
	}

	changed := store.rewrite(epoch, updates)
	o.log.InfoContext(ctx, "Conversation retranslated", "target", target, "blocks", len(blocks), "changed", len(changed))
	return len(changed) > 0
}
