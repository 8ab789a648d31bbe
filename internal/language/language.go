// Package language defines the supported conversation languages, a lightweight
// Spanish/English detector, and the localized interface text.
package language

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	xlanguage "golang.org/x/text/language"
)

// Code is an ISO 639-1 language code understood by the chat backend and the
// translation service.
type Code string

const (
	English Code = "en"
	Spanish Code = "es"

	// Auto asks the translation service to detect the source language itself.
	Auto Code = "auto"

	// Default is used whenever a language is unknown, missing, or malformed.
	Default = English
)

var names = map[Code]string{
	English: "English",
	Spanish: "Español",
}

// Supported returns the supported language codes in a stable order.
func Supported() []Code {
	codes := make([]Code, 0, len(names))
	for c := range names {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// IsSupported reports whether c is one of the conversation languages.
func (c Code) IsSupported() bool {
	_, ok := names[c]
	return ok
}

// Name returns the language's own name, e.g. "Español".
func (c Code) Name() string {
	if n, ok := names[c]; ok {
		return n
	}
	return string(c)
}

func (c Code) String() string {
	return string(c)
}

// Normalize maps a BCP 47 tag such as "es-MX" or "EN_us" to its base code.
// It does not check support; use Parse for that.
func Normalize(s string) Code {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.EqualFold(s, string(Auto)) {
		return Auto
	}
	tag, err := xlanguage.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return Code(strings.ToLower(s))
	}
	base, _ := tag.Base()
	return Code(base.String())
}

// Parse normalizes s and returns an error unless it names a supported language.
func Parse(s string) (Code, error) {
	c := Normalize(s)
	if !c.IsSupported() {
		return "", fmt.Errorf("unsupported language %q (supported: %s)", s, joinCodes(Supported()))
	}
	return c, nil
}

// OrDefault returns c when it is supported and Default otherwise.
func OrDefault(c Code) Code {
	if c.IsSupported() {
		return c
	}
	return Default
}

func joinCodes(codes []Code) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

// spanishPattern matches characters and common function words that are
// diagnostic of Spanish. Word matches require non-letter boundaries on both
// sides so that accented letters count as part of a word.
var spanishPattern = regexp.MustCompile(`(?i)[ñáéíóúü¿¡]|(?:^|[^\p{L}\p{N}_])(?:el|la|los|las|de|del|en|con|por|para|que|es|son|está|están|soy|eres|somos|dónde|cuántas|cómo|qué|puede|puedo)(?:$|[^\p{L}\p{N}_])`)

// Detect classifies text as Spanish or English. It is a heuristic: callers must
// tolerate misdetection. Empty text yields Default.
func Detect(text string) Code {
	if text == "" {
		return Default
	}
	if spanishPattern.MatchString(text) {
		return Spanish
	}
	return English
}
