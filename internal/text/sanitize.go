// Package text normalizes user-typed text before it enters a conversation.
package text

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// controlCharsRegex matches ASCII control characters other than tab and newline.
	controlCharsRegex = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

	// multipleNewlinesRegex matches runs of three or more newlines.
	multipleNewlinesRegex = regexp.MustCompile("\n{3,}")

	// unicodeReplacer removes invisible format characters and maps exotic
	// spaces and separators to their plain equivalents.
	unicodeReplacer = strings.NewReplacer(
		"\u2060", "", // word joiner
		"\uFEFF", "", // byte order mark
		"\u00AD", "", // soft hyphen
		"\u200E", "", "\u200F", "",
		"\u202A", "", "\u202B", "", "\u202C", "", "\u202D", "", "\u202E", "",
		"\u2028", "\n",
		"\u2029", "\n\n",
		"\u200B", " ", "\u200C", " ",
		"\u2009", " ", "\u200A", " ", "\u202F", " ", "\u205F", " ", "\u3000", " ", "\u00A0", " ",
	)
)

// normalizeLineWhitespace collapses runs of whitespace into one space and
// trims the line.
func normalizeLineWhitespace(line string) string {
	var sb strings.Builder
	space := false
	for _, r := range line {
		if unicode.IsSpace(r) {
			if !space {
				sb.WriteRune(' ')
				space = true
			}
			continue
		}
		sb.WriteRune(r)
		space = false
	}
	return strings.TrimSpace(sb.String())
}

// Clean normalizes line endings, strips invisible and control characters,
// collapses whitespace within lines and limits blank lines to one. A result
// of "" means the input had no visible content.
func Clean(input string) string {
	if input == "" {
		return ""
	}

	s := strings.ReplaceAll(input, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = unicodeReplacer.Replace(s)
	s = controlCharsRegex.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = normalizeLineWhitespace(lines[i])
	}
	s = strings.Join(lines, "\n")
	s = multipleNewlinesRegex.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
