package translation

import (
	"context"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/abc-assistant/assistant/internal/config"
)

type fakeGenerator struct {
	reply  string
	err    error
	prompt string
	calls  int
}

func (f *fakeGenerator) GenerateContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: f.reply}}},
		}},
	}, nil
}

func TestGeminiBackendTranslate(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "  Hola  "}
	b := newGeminiBackend(gen, config.GeminiConfig{}, nil)

	got, err := b.Translate(context.Background(), "Hello", "en", "es")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "Hola" {
		t.Errorf("Translate() = %q, want %q", got, "Hola")
	}
	if !strings.Contains(gen.prompt, "Target language: Español") || !strings.HasSuffix(gen.prompt, "Hello") {
		t.Errorf("unexpected prompt %q", gen.prompt)
	}
}

func TestGeminiBackendEmptyReply(t *testing.T) {
	t.Parallel()

	b := newGeminiBackend(&fakeGenerator{reply: ""}, config.GeminiConfig{}, nil)
	if _, err := b.Translate(context.Background(), "Hello", "en", "es"); err == nil {
		t.Error("Translate() error = nil, want error for empty reply")
	}
}
