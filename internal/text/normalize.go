// Package text converts upstream HTML text fields into plain markdown-ish text.
package text

import (
	"html"
	"regexp"
	"strings"
	"sync"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

var (
	converterOnce sync.Once
	converter     *md.Converter
)

func getConverter() *md.Converter {
	converterOnce.Do(func() {
		converter = md.NewConverter("", true, nil)
	})
	return converter
}

// Normalize decodes HTML entities and converts the remaining markup into
// readable text. Empty input stays empty so callers can keep treating the
// field as absent. Malformed markup degrades to stripped text, never errors.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	decoded := html.UnescapeString(raw)
	out, err := getConverter().ConvertString(decoded)
	if err != nil {
		return strings.TrimSpace(stripTags(decoded))
	}
	return strings.TrimSpace(out)
}

var (
	brTags        = regexp.MustCompile(`(?i)<(?:br|hr)\s*/?>`)
	blockTags     = regexp.MustCompile(`(?i)</?(?:p|div|blockquote|pre|li|h[1-6])[^>]*>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// stripTags is the degraded path: drop tags, keep paragraph breaks.
func stripTags(s string) string {
	s = brTags.ReplaceAllString(s, "\n")
	s = blockTags.ReplaceAllString(s, "\n\n")
	s = allTags.ReplaceAllString(s, "")
	return multiNewlines.ReplaceAllString(s, "\n\n")
}
