package search

import (
	"regexp"
	"strings"
	"unicode"
)

// Snippet windows per field, in runes.
const (
	titleWindow   = 100
	excerptWindow = 200
	contentWindow = 300

	// Runes kept on each side of the first occurrence.
	snippetPadding = 50

	// Preview length when the keyword does not occur in the content.
	previewFallbackLen = 200

	markOpen  = "<mark>"
	markClose = "</mark>"
	ellipsis  = "..."
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// BuildHighlight produces the per-field fragments for a matched document.
// Triggering is case-insensitive even though basic-mode matching is not;
// the asymmetry is inherited behavior and kept on purpose. Returns nil when
// no field contains the keyword.
func BuildHighlight(title, excerpt, contentText, keyword string) *SearchHighlight {
	h := &SearchHighlight{
		Title:          highlightField(title, keyword, titleWindow),
		Excerpt:        highlightField(excerpt, keyword, excerptWindow),
		ContentPreview: highlightField(tagPattern.ReplaceAllString(contentText, ""), keyword, contentWindow),
	}
	if h.Empty() {
		return nil
	}
	return h
}

// BuildPreview produces the always-present content preview: markup stripped,
// a window around the first case-insensitive occurrence when the keyword is
// found, otherwise the head of the text.
func BuildPreview(contentText, keyword string) string {
	stripped := tagPattern.ReplaceAllString(contentText, "")
	runes := []rune(stripped)

	if idx, kwLen := findFold(runes, []rune(keyword)); idx >= 0 {
		return window(runes, idx, kwLen, 0)
	}

	if len(runes) <= previewFallbackLen {
		return stripped
	}
	return string(runes[:previewFallbackLen]) + ellipsis
}

// highlightField returns the highlighted fragment for one field, or "" when
// the keyword does not occur in it.
func highlightField(field, keyword string, maxWindow int) string {
	if field == "" || keyword == "" {
		return ""
	}

	runes := []rune(field)
	kw := []rune(keyword)
	idx, kwLen := findFold(runes, kw)
	if idx < 0 {
		return ""
	}

	fragment := window(runes, idx, kwLen, maxWindow)
	return wrapMatches(fragment, keyword)
}

// window cuts up to snippetPadding runes either side of the occurrence at
// idx, clips to the text and to maxWindow (0 means unbounded), and adds
// ellipsis markers for clipped edges.
func window(runes []rune, idx, kwLen, maxWindow int) string {
	start := idx - snippetPadding
	if start < 0 {
		start = 0
	}
	end := idx + kwLen + snippetPadding
	if end > len(runes) {
		end = len(runes)
	}
	if maxWindow > 0 && end-start > maxWindow {
		end = start + maxWindow
	}

	fragment := string(runes[start:end])
	if start > 0 {
		fragment = ellipsis + fragment
	}
	if end < len(runes) {
		fragment += ellipsis
	}
	return fragment
}

// wrapMatches wraps every case-insensitive occurrence of keyword in the
// fragment with highlight markers, keeping the original casing of the text.
func wrapMatches(fragment, keyword string) string {
	runes := []rune(fragment)
	kw := []rune(keyword)
	if len(kw) == 0 {
		return fragment
	}

	var b strings.Builder
	i := 0
	for i < len(runes) {
		if foldEqual(runes[i:], kw) {
			b.WriteString(markOpen)
			b.WriteString(string(runes[i : i+len(kw)]))
			b.WriteString(markClose)
			i += len(kw)
			continue
		}
		b.WriteRune(runes[i])
		i++
	}
	return b.String()
}

// findFold locates the first case-insensitive occurrence of kw in runes.
// Returns the rune index and the occurrence length, or -1 when absent.
func findFold(runes, kw []rune) (int, int) {
	if len(kw) == 0 || len(kw) > len(runes) {
		return -1, 0
	}
	for i := 0; i+len(kw) <= len(runes); i++ {
		if foldEqual(runes[i:], kw) {
			return i, len(kw)
		}
	}
	return -1, 0
}

// foldEqual reports whether runes starts with kw under simple case folding.
func foldEqual(runes, kw []rune) bool {
	if len(runes) < len(kw) {
		return false
	}
	for i, r := range kw {
		if unicode.ToLower(runes[i]) != unicode.ToLower(r) {
			return false
		}
	}
	return true
}
