// Package render turns conversation blocks into text for the Telegram and
// terminal surfaces.
package render

import (
	"fmt"
	"strings"

	"github.com/abc-assistant/assistant/internal/conversation"
	"github.com/abc-assistant/assistant/internal/language"
)

// Plain renders b as plain text with a numbered source list. Bot answers
// are stripped of markdown. Documents are listed by label and link, web
// sources by URL only.
func Plain(b conversation.Block, txt language.Text) string {
	if !b.IsBot() {
		return b.Message
	}
	var sb strings.Builder
	sb.WriteString(StripMarkdown(b.Message))
	if len(b.Sources) == 0 {
		return sb.String()
	}

	sb.WriteString("\n\n")
	sb.WriteString(txt.SourcesHeader)
	sb.WriteString(":")
	for i, s := range b.Sources {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%d. %s", i+1, SourceLine(s))
	}
	return sb.String()
}

// SourceLine is the single-line form of a source.
func SourceLine(s conversation.Source) string {
	if s.Kind == conversation.SourceDocument {
		return fmt.Sprintf("%s (%s)", s.Label(), s.URL)
	}
	return s.Label()
}
