// file: internal/server/search_service_test.go
// version: 1.0.1
// guid: 0d4f8a26-7e3b-4c91-a5d2-6f1b9e0c3a84

package server

import (
	"math"
	"testing"

	"github.com/jdfalk/dashboard-search/internal/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drinks() []matcher.Record {
	return []matcher.Record{
		{"name": "Pepsi", "brand": map[string]any{"name": "PepsiCo"}},
		{"name": "Coke"},
		{"name": "Pepsi Max"},
	}
}

func names(t *testing.T, items any) []string {
	t.Helper()
	recs, ok := items.([]matcher.Record)
	require.True(t, ok, "items are %T", items)
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i], _ = r["name"].(string)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestSearchService_Search(t *testing.T) {
	svc := NewSearchService(nil, nil, 5)

	resp, err := svc.Search("test", drinks(), SearchQuery{Query: "pepsi", Fields: []string{"name"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pepsi", "Pepsi Max"}, names(t, resp.Items))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 2, resp.Count)
	assert.Empty(t, resp.Suggestions)
}

func TestSearchService_Scores(t *testing.T) {
	svc := NewSearchService(nil, nil, 5)

	resp, err := svc.Search("test", drinks(), SearchQuery{Query: "pepsi", Fields: []string{"name"}, WithScores: true})
	require.NoError(t, err)
	items, ok := resp.Items.([]ScoredItem)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.InDelta(t, 1.0, items[0].Score, 1e-9)
	assert.InDelta(t, 0.9, items[1].Score, 1e-9)
	assert.Equal(t, "Pepsi Max", items[1].Record["name"])
}

func TestSearchService_Pagination(t *testing.T) {
	svc := NewSearchService(nil, nil, 5)

	resp, err := svc.Search("test", drinks(), SearchQuery{Query: "pepsi", Fields: []string{"name"}, Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pepsi Max"}, names(t, resp.Items))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, 2, resp.Total)

	resp, err = svc.Search("test", drinks(), SearchQuery{Query: "pepsi", Fields: []string{"name"}, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, names(t, resp.Items))
	assert.Equal(t, 2, resp.Total)
}

func TestSearchService_BlankQueryNeedsNoFields(t *testing.T) {
	svc := NewSearchService(nil, nil, 5)

	resp, err := svc.Search("test", drinks(), SearchQuery{Query: "  "})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pepsi", "Coke", "Pepsi Max"}, names(t, resp.Items))
}

func TestSearchService_Fields(t *testing.T) {
	_, err := NewSearchService(nil, nil, 5).Search("test", drinks(), SearchQuery{Query: "pepsi"})
	assert.ErrorIs(t, err, matcher.ErrNoFields)

	resp, err := NewSearchService(nil, []string{"brand.name"}, 5).Search("test", drinks(), SearchQuery{Query: "pepsico"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pepsi"}, names(t, resp.Items))
}

func TestSearchService_Threshold(t *testing.T) {
	svc := NewSearchService(nil, nil, 5)

	_, err := svc.Search("test", drinks(), SearchQuery{Query: "pepsi", Fields: []string{"name"}, Threshold: ptr(1.5)})
	assert.ErrorIs(t, err, ErrInvalidThreshold)
	_, err = svc.Search("test", drinks(), SearchQuery{Query: "pepsi", Fields: []string{"name"}, Threshold: ptr(math.NaN())})
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	resp, err := svc.Search("test", drinks(), SearchQuery{Query: "pepsi", Fields: []string{"name"}, Threshold: ptr(0.95)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pepsi"}, names(t, resp.Items))
}

func TestSearchService_Suggestions(t *testing.T) {
	svc := NewSearchService(nil, nil, 5)
	q := SearchQuery{Query: "pepsy", Fields: []string{"name"}, Threshold: ptr(0.95), Suggest: true}

	resp, err := svc.Search("test", drinks(), q)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)
	assert.Equal(t, []string{"Pepsi", "Pepsi Max"}, resp.Suggestions)

	q.Suggest = false
	resp, err = svc.Search("test", drinks(), q)
	require.NoError(t, err)
	assert.Nil(t, resp.Suggestions)

	resp, err = NewSearchService(nil, nil, 0).Search("test", drinks(), SearchQuery{Query: "pepsy", Fields: []string{"name"}, Threshold: ptr(0.95), Suggest: true})
	require.NoError(t, err)
	assert.Nil(t, resp.Suggestions)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4}
	assert.Equal(t, []int{1, 2, 3, 4}, paginate(items, 0, 0))
	assert.Equal(t, []int{2, 3}, paginate(items, 1, 2))
	assert.Equal(t, []int{4}, paginate(items, 3, 10))
	assert.Equal(t, []int{1}, paginate(items, -1, 1))
	assert.Empty(t, paginate(items, 4, 1))
}
