// Package lexical scores fuzzy string similarity on a 0..100 scale.
package lexical

import (
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultRelevanceThreshold is the minimum similarity for a stored question
// to count as lexically relevant to a query.
const DefaultRelevanceThreshold = 75

// Similarity is a case-insensitive partial ratio: the shorter string is
// compared against the best-aligned window of the longer one, so a query
// that is a fragment of a stored question still scores high.
func Similarity(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	shorter, longer := runes(a), runes(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	blocks := difflib.NewMatcher(shorter, longer).GetMatchingBlocks()

	best := 0.0
	for _, block := range blocks {
		start := block.B - block.A
		if start < 0 {
			start = 0
		}
		end := start + len(shorter)
		if end > len(longer) {
			end = len(longer)
		}

		r := difflib.NewMatcher(shorter, longer[start:end]).Ratio()
		if r > 0.995 {
			return 100
		}
		if r > best {
			best = r
		}
	}
	return int(math.RoundToEven(100 * best))
}

// IsRelevant reports whether candidate scores at least threshold against query.
func IsRelevant(query, candidate string, threshold int) bool {
	return Similarity(query, candidate) >= threshold
}

// runes splits s into one element per code point, the unit difflib aligns.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
