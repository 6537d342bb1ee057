// file: internal/matcher/fuzzy.go
// version: 2.0.1
// guid: a1b2c3d4-e5f6-7890-abcd-ef1234567890

package matcher

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

const (
	// DefaultThreshold is the minimum score a record needs to be kept.
	DefaultThreshold = 0.4
	// DefaultTieEpsilon is the score gap below which two results keep their
	// input order.
	DefaultTieEpsilon = 0.01
	// DefaultTokenShortCircuit is the word-overlap score above which the
	// edit-distance pass is skipped.
	DefaultTokenShortCircuit = 0.5

	exactScore     = 1.0
	substringScore = 0.9

	tokenWeight        = 0.8
	tokenExactCredit   = 1.0
	tokenPartialCredit = 0.7
)

// Options tunes the cascade and the ranking.
type Options struct {
	Threshold         float64
	TieEpsilon        float64
	TokenShortCircuit float64
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		Threshold:         DefaultThreshold,
		TieEpsilon:        DefaultTieEpsilon,
		TokenShortCircuit: DefaultTokenShortCircuit,
	}
}

// Score rates how well query matches value on [0,1] using the stock tuning.
func Score(query string, value any) float64 {
	return DefaultOptions().Score(query, value)
}

// Score rates how well query matches value on [0,1]. The rules are tried in
// order and the first that applies decides: absent value, exact, substring,
// word overlap, edit distance.
func (o Options) Score(query string, value any) float64 {
	if value == nil {
		return 0
	}
	s, ok := stringify(value)
	if !ok {
		return 0
	}
	return o.scoreNormalized(normalize(query), normalize(s))
}

func (o Options) scoreNormalized(q, v string) float64 {
	if q == v {
		return exactScore
	}
	// Either direction: a short query inside a long value, or a long query
	// that already contains the whole value.
	if strings.Contains(v, q) || strings.Contains(q, v) {
		return substringScore
	}
	if words, ok := tokenOverlap(q, v); ok && words > o.TokenShortCircuit {
		return words
	}
	return charSimilarity(q, v)
}

// tokenOverlap credits each query word against the first value word that
// equals it or contains/is contained by it.
func tokenOverlap(q, v string) (float64, bool) {
	qWords := strings.Fields(q)
	vWords := strings.Fields(v)
	if len(qWords) == 0 || len(vWords) == 0 {
		return 0, false
	}

	total := 0.0
	for _, qw := range qWords {
		for _, vw := range vWords {
			if qw == vw {
				total += tokenExactCredit
				break
			}
			if strings.Contains(vw, qw) || strings.Contains(qw, vw) {
				total += tokenPartialCredit
				break
			}
		}
	}
	return total / float64(max(len(qWords), len(vWords))) * tokenWeight, true
}

// normalize lowercases and trims surrounding whitespace.
func normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// stringify renders scalars the way they would be displayed. Nested records
// and lists have no text form and report false. Floats from 1e21 up switch
// to exponent form ("1e+21") instead of spelling out every digit.
func stringify(v any) (string, bool) {
	switch f := v.(type) {
	case float64:
		if math.Abs(f) >= 1e21 {
			return strconv.FormatFloat(f, 'g', -1, 64), true
		}
	case float32:
		if math.Abs(float64(f)) >= 1e21 {
			return strconv.FormatFloat(float64(f), 'g', -1, 32), true
		}
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return s, true
}
