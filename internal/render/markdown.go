package render

import (
	"bytes"
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	blockTagsRegex     = regexp.MustCompile(`<br\s*/?>|</?p>|</?div>|</?pre>|</?h[1-6]>|</?[ou]l>`)
	listItemRegex      = regexp.MustCompile(`<li>\s*(?:<p>)?`)
	listItemEndRegex   = regexp.MustCompile(`</li>`)
	linkRegex          = regexp.MustCompile(`<a href="([^"]*)"[^>]*>(.*?)</a>`)
	multiNewlinesRegex = regexp.MustCompile(`\n\s*\n+`)
	lineSpacesRegex    = regexp.MustCompile(`[ \t]+\n`)

	stripperOnce sync.Once
	stripper     *markdownStripper
)

// markdownStripper converts markdown to HTML and strips every tag.
type markdownStripper struct {
	policy   *bluemonday.Policy
	markdown goldmark.Markdown
}

func defaultStripper() *markdownStripper {
	stripperOnce.Do(func() {
		stripper = &markdownStripper{
			policy:   bluemonday.StrictPolicy(),
			markdown: goldmark.New(),
		}
	})
	return stripper
}

// StripMarkdown renders markdown answers as plain text for surfaces without
// markdown support. List items become bullets and links keep their URL.
// Input that fails to parse is returned unchanged.
func StripMarkdown(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	return defaultStripper().strip(s)
}

func (m *markdownStripper) strip(s string) string {
	var buf bytes.Buffer
	if err := m.markdown.Convert([]byte(s), &buf); err != nil {
		return s
	}

	out := buf.String()
	out = linkRegex.ReplaceAllStringFunc(out, func(a string) string {
		parts := linkRegex.FindStringSubmatch(a)
		href, label := html.UnescapeString(parts[1]), parts[2]
		if href == "" || href == html.UnescapeString(label) {
			return label
		}
		return label + " (" + href + ")"
	})
	out = listItemRegex.ReplaceAllString(out, "• ")
	out = listItemEndRegex.ReplaceAllString(out, "")
	out = blockTagsRegex.ReplaceAllString(out, "\n")

	out = m.policy.Sanitize(out)
	out = html.UnescapeString(out)
	out = lineSpacesRegex.ReplaceAllString(out, "\n")
	out = multiNewlinesRegex.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
