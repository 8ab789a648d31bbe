package conversation

import (
	"testing"

	"github.com/abc-assistant/assistant/internal/language"
)

func TestNewBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		sentBy   SentBy
		wantLang language.Code
	}{
		{"english user text", "How many people donate blood?", SentByUser, language.English},
		{"spanish user text", "¿Cuántas personas donan sangre?", SentByUser, language.Spanish},
		{"bot text detected too", "La sangre es vital", SentByBot, language.Spanish},
		{"empty text", "", SentByUser, language.English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := NewBlock(tt.text, tt.sentBy, TypeText, StateSent)
			if b.OriginalMessage != tt.text || b.Message != tt.text {
				t.Errorf("texts = (%q, %q), want %q", b.Message, b.OriginalMessage, tt.text)
			}
			if b.OriginalLanguage != tt.wantLang {
				t.Errorf("OriginalLanguage = %q, want %q", b.OriginalLanguage, tt.wantLang)
			}
			if b.Sources == nil {
				t.Error("Sources is nil, want empty slice")
			}
		})
	}
}

func TestApologyBlock(t *testing.T) {
	t.Parallel()

	b := NewApologyBlock()
	if b.Message != ApologyMessage || b.SentBy != SentByBot || b.State != StateReceived {
		t.Errorf("unexpected apology block %+v", b)
	}
	if len(b.Sources) != 0 {
		t.Errorf("apology block has sources %v", b.Sources)
	}
}

func TestInferSourceKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want SourceKind
	}{
		{"https://example.org/docs/Blood-101.pdf", SourceDocument},
		{"https://example.org/files/Report.DOCX", SourceDocument},
		{"https://bucket.s3.us-east-1.amazonaws.com/knowledge/faq", SourceDocument},
		{"https://s3.amazonaws.com/bucket/key", SourceDocument},
		{"https://www.redcrossblood.org/donate-blood.html", SourceWeb},
		{"https://www.redcrossblood.org/", SourceWeb},
		{"not a url %%", SourceWeb},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			if got := InferSourceKind(tt.url); got != tt.want {
				t.Errorf("InferSourceKind(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestNewSourcePrefersWireKind(t *testing.T) {
	t.Parallel()

	if s := NewSource("web", "https://example.org/a.pdf", ""); s.Kind != SourceWeb {
		t.Errorf("Kind = %q, want WEB from wire type", s.Kind)
	}
	if s := NewSource("", "https://example.org/a.pdf", ""); s.Kind != SourceDocument {
		t.Errorf("Kind = %q, want inferred DOCUMENT", s.Kind)
	}
}

func TestSourceLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  Source
		want string
	}{
		{"document with title", Source{Kind: SourceDocument, URL: "https://x.org/a/Blood-101.pdf", Title: "Blood 101"}, "Blood 101"},
		{"document without title", Source{Kind: SourceDocument, URL: "https://x.org/a/Blood-101.pdf"}, "Blood-101.pdf"},
		{"escaped file name", Source{Kind: SourceDocument, URL: "https://x.org/a/Donor%20Guide.pdf"}, "Donor Guide.pdf"},
		{"web shows url", Source{Kind: SourceWeb, URL: "https://x.org/page", Title: "Page"}, "https://x.org/page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.src.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}
