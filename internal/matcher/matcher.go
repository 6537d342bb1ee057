// file: internal/matcher/matcher.go
// version: 2.0.0
// guid: 1f2a3b4c-5d6e-7f8a-9b0c-1d2e3f4a5b6c

package matcher

import (
	"errors"
	"math"
	"slices"
	"strings"
)

// ErrNoFields is returned (or panicked with, from Search) when no field
// paths are given: there is no sensible answer to "search nothing".
var ErrNoFields = errors.New("matcher: at least one field path is required")

// Result pairs a kept record with its best field score.
type Result struct {
	Index  int     `json:"index"` // position in the input slice
	Score  float64 `json:"score"`
	Record Record  `json:"record"`
}

// Matcher filters and ranks records against a free-text query. The zero
// value is not useful; use New or DefaultMatcher. A Matcher holds no mutable
// state and is safe for concurrent use.
type Matcher struct {
	opts Options
}

// New creates a Matcher with the given tuning.
func New(opts Options) *Matcher {
	return &Matcher{opts: opts}
}

// DefaultMatcher returns a Matcher with the stock tuning.
func DefaultMatcher() *Matcher {
	return New(DefaultOptions())
}

// Options returns the tuning in use.
func (m *Matcher) Options() Options {
	return m.opts
}

// Score rates a single value against query.
func (m *Matcher) Score(query string, value any) float64 {
	return m.opts.Score(query, value)
}

// Search returns the records matching query on any of fields, best first.
// A blank query returns records unchanged. It panics with ErrNoFields when
// fields is empty; use SearchChecked to get the error instead.
func (m *Matcher) Search(records []Record, query string, fields []FieldPath) []Record {
	out, err := m.SearchChecked(records, query, fields)
	if err != nil {
		panic(err)
	}
	return out
}

// SearchChecked is Search with the empty-fields misuse reported as an error.
func (m *Matcher) SearchChecked(records []Record, query string, fields []FieldPath) ([]Record, error) {
	if isBlank(query) {
		return records, nil
	}
	results, err := m.Rank(records, query, fields)
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(results))
	for i, r := range results {
		out[i] = r.Record
	}
	return out, nil
}

// Rank scores every record, drops those under the threshold and orders the
// rest by score. Scores closer than the tie epsilon keep their input order.
// A blank query keeps every record in input order with a score of 1.
func (m *Matcher) Rank(records []Record, query string, fields []FieldPath) ([]Result, error) {
	if isBlank(query) {
		results := make([]Result, len(records))
		for i, r := range records {
			results[i] = Result{Index: i, Score: exactScore, Record: r}
		}
		return results, nil
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	results := make([]Result, 0, len(records))
	for i, record := range records {
		best := m.bestScore(record, query, fields)
		if best >= m.opts.Threshold {
			results = append(results, Result{Index: i, Score: best, Record: record})
		}
	}

	eps := m.opts.TieEpsilon
	slices.SortStableFunc(results, func(a, b Result) int {
		if math.Abs(a.Score-b.Score) < eps {
			return 0
		}
		if a.Score > b.Score {
			return -1
		}
		return 1
	})
	return results, nil
}

func (m *Matcher) bestScore(record Record, query string, fields []FieldPath) float64 {
	best := 0.0
	for _, path := range fields {
		value, ok := Resolve(record, path)
		if !ok {
			continue
		}
		best = max(best, m.opts.Score(query, value))
	}
	return best
}

// Search filters and ranks records with the stock tie epsilon and word
// short-circuit and the given threshold.
func Search(records []Record, query string, fields []FieldPath, threshold float64) []Record {
	opts := DefaultOptions()
	opts.Threshold = threshold
	return New(opts).Search(records, query, fields)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
