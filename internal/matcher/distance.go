// file: internal/matcher/distance.go
// version: 1.0.0
// guid: 7b22d58a-fc9a-4ddf-85fe-b03dbbcc54fc

package matcher

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// EditDistance computes the Levenshtein distance between a and b, counted in
// code points. Inputs are compared as given; callers normalize first.
func EditDistance(a, b string) int {
	return edlib.LevenshteinDistance(a, b)
}

// charSimilarity maps the edit distance of two normalized strings onto [0,1].
func charSimilarity(q, v string) float64 {
	maxLen := max(utf8.RuneCountInString(q), utf8.RuneCountInString(v))
	if maxLen == 0 {
		return 1.0
	}
	similarity := 1.0 - float64(EditDistance(q, v))/float64(maxLen)
	return max(0, similarity)
}
