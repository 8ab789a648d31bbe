package conversation

import (
	"net/url"
	"path"
	"strings"
)

// SourceKind distinguishes downloadable documents from web pages.
type SourceKind string

const (
	SourceDocument SourceKind = "DOCUMENT"
	SourceWeb      SourceKind = "WEB"
)

// Source is a citation attached to a bot answer.
type Source struct {
	Kind  SourceKind `json:"type"`
	URL   string     `json:"url"`
	Title string     `json:"title,omitempty"`
}

var documentExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".ppt":  true,
	".pptx": true,
	".xls":  true,
	".xlsx": true,
	".txt":  true,
	".csv":  true,
	".md":   true,
}

// NewSource builds a source from wire values. A recognised kind is used as
// is; otherwise the kind is inferred from the URL.
func NewSource(kind, rawURL, title string) Source {
	k, ok := ParseSourceKind(kind)
	if !ok {
		k = InferSourceKind(rawURL)
	}
	return Source{Kind: k, URL: rawURL, Title: strings.TrimSpace(title)}
}

// ParseSourceKind accepts DOCUMENT or WEB in any case.
func ParseSourceKind(s string) (SourceKind, bool) {
	switch SourceKind(strings.ToUpper(strings.TrimSpace(s))) {
	case SourceDocument:
		return SourceDocument, true
	case SourceWeb:
		return SourceWeb, true
	}
	return "", false
}

// InferSourceKind classifies a URL: a document file extension on the last
// path segment or an S3 object host means DOCUMENT, anything else is WEB.
func InferSourceKind(rawURL string) SourceKind {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return SourceWeb
	}
	if documentExtensions[strings.ToLower(path.Ext(u.Path))] {
		return SourceDocument
	}
	host := strings.ToLower(u.Hostname())
	if strings.HasSuffix(host, ".amazonaws.com") && (strings.HasPrefix(host, "s3.") || strings.Contains(host, ".s3.") || strings.Contains(host, ".s3-")) {
		return SourceDocument
	}
	return SourceWeb
}

// Label is the text a source is presented with: the title or file name for
// documents, the full URL for web pages.
func (s Source) Label() string {
	if s.Kind != SourceDocument {
		return s.URL
	}
	if s.Title != "" {
		return s.Title
	}
	return FileName(s.URL)
}

// FileName returns the last path segment of rawURL, or rawURL itself when it
// has none.
func FileName(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	if name, err := url.PathUnescape(p); err == nil {
		p = name
	}
	if p == "" {
		return rawURL
	}
	return p
}
