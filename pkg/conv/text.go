package conv

import (
	"fmt"
	"strings"

	"github.com/inbucket/html2text"
)

// HTMLToText flattens markup into plain text. Input without tags is only
// whitespace-normalized.
func HTMLToText(s string) (string, error) {
	if !strings.ContainsRune(s, '<') {
		return NormalizeSpace(s), nil
	}

	text, err := html2text.FromString(s, html2text.Options{OmitLinks: true})
	if err != nil {
		return "", fmt.Errorf("failed to convert html: %w", err)
	}
	return NormalizeSpace(text), nil
}

// NormalizeSpace collapses runs of whitespace into single spaces.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Snippet flattens s, markup included, to one line of at most limit runes.
func Snippet(s string, limit int) string {
	text, err := HTMLToText(s)
	if err != nil {
		text = NormalizeSpace(s)
	}
	if r := []rune(text); len(r) > limit {
		return string(r[:limit]) + "…"
	}
	return text
}
