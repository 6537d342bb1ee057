// file: internal/server/search_service.go
// version: 1.0.1
// guid: 3a7c1e52-8b4d-4f60-9e21-5d0b6c8a7f13

package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/jdfalk/dashboard-search/internal/matcher"
	"github.com/jdfalk/dashboard-search/internal/metrics"
)

// ErrInvalidThreshold is returned for thresholds outside [0,1].
var ErrInvalidThreshold = errors.New("threshold must be within [0,1]")

// SearchQuery describes one search over an in-memory record set.
type SearchQuery struct {
	Query      string
	Fields     []string
	Threshold  *float64
	Limit      int // 0 returns every match
	Offset     int
	WithScores bool
	Suggest    bool
}

// SearchService runs searches with the server-wide matching defaults.
type SearchService struct {
	matcher       *matcher.Matcher
	defaultFields []string
	suggestLimit  int
}

// NewSearchService creates a search service. A nil matcher uses the stock
// tuning.
func NewSearchService(m *matcher.Matcher, defaultFields []string, suggestLimit int) *SearchService {
	if m == nil {
		m = matcher.DefaultMatcher()
	}
	return &SearchService{
		matcher:       m,
		defaultFields: defaultFields,
		suggestLimit:  suggestLimit,
	}
}

// matcherFor returns the shared matcher, or a copy with the threshold
// overridden for this request.
func (svc *SearchService) matcherFor(threshold *float64) (*matcher.Matcher, error) {
	if threshold == nil {
		return svc.matcher, nil
	}
	if t := *threshold; !(t >= 0 && t <= 1) {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidThreshold, *threshold)
	}
	opts := svc.matcher.Options()
	opts.Threshold = *threshold
	return matcher.New(opts), nil
}

// Search filters, ranks and pages records. source labels the metrics.
func (svc *SearchService) Search(source string, records []matcher.Record, q SearchQuery) (*SearchResponse, error) {
	start := time.Now()

	m, err := svc.matcherFor(q.Threshold)
	if err != nil {
		return nil, err
	}

	fields := q.Fields
	if len(fields) == 0 {
		fields = svc.defaultFields
	}
	paths := matcher.ParseFieldPaths(fields)

	ranked, err := m.Rank(records, q.Query, paths)
	if err != nil {
		return nil, err
	}
	metrics.ObserveSearch(source, len(records), len(ranked), time.Since(start))

	page := paginate(ranked, q.Offset, q.Limit)
	resp := &SearchResponse{
		Count:  len(page),
		Total:  len(ranked),
		Limit:  q.Limit,
		Offset: max(q.Offset, 0),
	}
	if q.WithScores {
		items := make([]ScoredItem, len(page))
		for i, r := range page {
			items[i] = ScoredItem{Record: r.Record, Score: r.Score}
		}
		resp.Items = items
	} else {
		items := make([]matcher.Record, len(page))
		for i, r := range page {
			items[i] = r.Record
		}
		resp.Items = items
	}

	if q.Suggest && len(ranked) == 0 && svc.suggestLimit > 0 {
		resp.Suggestions = m.Suggest(records, q.Query, paths, svc.suggestLimit)
	}
	return resp, nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
