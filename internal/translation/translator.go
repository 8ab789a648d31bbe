// Package translation converts conversation text between languages through an
// external machine-translation backend. The Client wrapper is strictly
// best-effort: it never fails a conversation, it falls back to the original
// text.
package translation

import (
	"context"
)

// Backend is a machine-translation engine. Implementations return an error on
// any failure; the Client turns errors into fallbacks.
type Backend interface {
	// Translate translates text from sourceLang to targetLang. sourceLang may
	// be "auto" when the caller does not know the source language.
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)

	// CheckHealth verifies that the backend is reachable.
	CheckHealth(ctx context.Context) error
}
