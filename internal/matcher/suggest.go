// file: internal/matcher/suggest.go
// version: 1.0.0
// guid: dc45f945-3553-43de-86e7-89af6f018eab

package matcher

import (
	"cmp"
	"slices"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest proposes up to limit distinct field values close to query, for
// "did you mean" hints when a search comes back empty. Values that contain
// the query letters in order come first (closest first); the rest follow by
// cascade score. Values scoring 0 are never suggested.
func (m *Matcher) Suggest(records []Record, query string, fields []FieldPath, limit int) []string {
	q := normalize(query)
	if q == "" || limit <= 0 {
		return nil
	}

	candidates := distinctValues(records, fields)
	if len(candidates) == 0 {
		return nil
	}

	ranks := fuzzy.RankFindNormalizedFold(q, candidates)
	sort.Stable(ranks)

	out := make([]string, 0, limit)
	picked := make(map[string]bool, len(ranks))
	for _, r := range ranks {
		if len(out) == limit {
			return out
		}
		out = append(out, r.Target)
		picked[r.Target] = true
	}

	type scored struct {
		value string
		score float64
	}
	var rest []scored
	for _, c := range candidates {
		if picked[c] {
			continue
		}
		if s := m.opts.Score(q, c); s > 0 {
			rest = append(rest, scored{value: c, score: s})
		}
	}
	slices.SortStableFunc(rest, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})
	for _, r := range rest {
		if len(out) == limit {
			break
		}
		out = append(out, r.value)
	}
	return out
}

// distinctValues collects the text of every resolvable field, first
// occurrence wins, case-insensitively.
func distinctValues(records []Record, fields []FieldPath) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, record := range records {
		for _, path := range fields {
			raw, ok := Resolve(record, path)
			if !ok {
				continue
			}
			s, ok := stringify(raw)
			if !ok {
				continue
			}
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			key := strings.ToLower(s)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			values = append(values, s)
		}
	}
	return values
}
