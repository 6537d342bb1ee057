// file: internal/matcher/matcher_test.go
// version: 2.0.0
// guid: 8c9d0e1f-2a3b-4c5d-6e7f-8a9b0c1d2e3f

package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r["name"].(string))
	}
	return out
}

func nameField() []FieldPath {
	return []FieldPath{{"name"}}
}

func TestSearch_SubstringKeepsInputOrderOnTies(t *testing.T) {
	records := []Record{
		{"name": "Johnnie Walker"},
		{"name": "John Smith"},
		{"name": "Coca Cola"},
	}

	got := Search(records, "john", nameField(), DefaultThreshold)

	assert.Equal(t, []string{"Johnnie Walker", "John Smith"}, names(got))
}

func TestSearch_ReorderedWords(t *testing.T) {
	records := []Record{{"name": "Silva John"}}

	got, err := New(Options{Threshold: 0.5, TieEpsilon: DefaultTieEpsilon, TokenShortCircuit: DefaultTokenShortCircuit}).
		Rank(records, "John Silva", nameField())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.8, got[0].Score, 1e-9)
}

func TestSearch_Typo(t *testing.T) {
	records := []Record{{"name": "Pepsi"}}

	got := Search(records, "Pepsy", nameField(), DefaultThreshold)

	assert.Equal(t, []string{"Pepsi"}, names(got))
}

func TestSearch_BlankQueryIsIdentity(t *testing.T) {
	records := []Record{
		{"name": "Zeta"},
		{"name": "Alpha"},
		{"name": "Mid"},
	}
	for _, q := range []string{"", "   ", "\t\n"} {
		for _, threshold := range []float64{0, DefaultThreshold, 1} {
			got := Search(records, q, nameField(), threshold)
			assert.Equal(t, records, got)
		}
	}
}

func TestSearch_NullIntermediate(t *testing.T) {
	records := []Record{{"name": "Widget", "brand": nil}}
	fields := []FieldPath{{"brand", "name"}}

	assert.NotPanics(t, func() {
		got := Search(records, "acme", fields, DefaultThreshold)
		assert.Empty(t, got)
	})

	// A zero score still clears a zero threshold.
	got := Search(records, "acme", fields, 0)
	assert.Len(t, got, 1)
}

func TestSearch_OrdersByScore(t *testing.T) {
	records := []Record{
		{"name": "Pepsi"},         // 0.8, typo
		{"name": "Pepsy"},         // 1.0, exact
		{"name": "Pepsy Max 2L"},  // 0.9, substring
		{"name": "Orange Juice"},  // dropped
	}

	got := Search(records, "pepsy", nameField(), DefaultThreshold)

	assert.Equal(t, []string{"Pepsy", "Pepsy Max 2L", "Pepsi"}, names(got))
}

func TestRank_TieEpsilon(t *testing.T) {
	records := []Record{
		{"name": "Pepsi"},     // 0.8
		{"name": "Pepsy Max"}, // 0.9
	}

	ranked, err := DefaultMatcher().Rank(records, "pepsy", nameField())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, indexes(ranked))

	// A wide epsilon treats the pair as tied, so input order stands.
	opts := DefaultOptions()
	opts.TieEpsilon = 0.2
	ranked, err = New(opts).Rank(records, "pepsy", nameField())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, indexes(ranked))
}

func indexes(results []Result) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.Index
	}
	return out
}

func TestSearch_BestFieldWins(t *testing.T) {
	records := []Record{
		{"name": "Widget", "brand": map[string]any{"name": "Acme"}},
		{"name": "Gadget", "brand": map[string]any{"name": "Globex"}},
	}
	fields := ParseFieldPaths([]string{"name", "brand.name"})

	ranked, err := DefaultMatcher().Rank(records, "acme", fields)

	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, 0, ranked[0].Index)
	assert.Equal(t, 1.0, ranked[0].Score)
}

func TestSearch_EmptyInputs(t *testing.T) {
	got := Search(nil, "john", nameField(), DefaultThreshold)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	records := []Record{{"name": "John"}}
	got = Search(records, "john", []FieldPath{{"missing"}}, DefaultThreshold)
	assert.Empty(t, got)
}

func TestSearch_NoFields(t *testing.T) {
	records := []Record{{"name": "John"}}

	_, err := DefaultMatcher().SearchChecked(records, "john", nil)
	assert.ErrorIs(t, err, ErrNoFields)

	assert.PanicsWithError(t, ErrNoFields.Error(), func() {
		DefaultMatcher().Search(records, "john", nil)
	})
}

func TestSearch_DoesNotMutateRecords(t *testing.T) {
	records := []Record{
		{"name": "Beta", "brand": map[string]any{"name": "Acme"}},
		{"name": "Alpha"},
	}
	before := []Record{
		{"name": "Beta", "brand": map[string]any{"name": "Acme"}},
		{"name": "Alpha"},
	}

	_ = Search(records, "alpha", ParseFieldPaths([]string{"name", "brand.name"}), 0)

	assert.Equal(t, before, records)
}

func TestRank_BlankQuery(t *testing.T) {
	records := []Record{{"name": "a"}, {"name": "b"}}

	ranked, err := DefaultMatcher().Rank(records, " ", nil)

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, indexes(ranked))
	assert.Equal(t, 1.0, ranked[1].Score)
}
