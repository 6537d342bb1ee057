// file: internal/server/response_types.go
// version: 2.0.0
// guid: 7f8a9b0c-1d2e-3f4a-5b6c-7d8e9f0a1b2c

package server

import (
	"github.com/jdfalk/dashboard-search/internal/dataset"
	"github.com/jdfalk/dashboard-search/internal/matcher"
)

// PaginationParams holds common pagination parameters
type PaginationParams struct {
	Limit  int
	Offset int
}

// SearchRequest is the body of an inline search
type SearchRequest struct {
	Records    []matcher.Record `json:"records"`
	Query      string           `json:"query"`
	Fields     []string         `json:"fields"`
	Threshold  *float64         `json:"threshold,omitempty"`
	Limit      int              `json:"limit,omitempty"`
	Offset     int              `json:"offset,omitempty"`
	WithScores bool             `json:"with_scores,omitempty"`
}

// ScoredItem pairs a record with its match score
type ScoredItem struct {
	Record matcher.Record `json:"record"`
	Score  float64        `json:"score"`
}

// SearchResponse carries one page of search results. Items holds records,
// or ScoredItems when scores were requested.
type SearchResponse struct {
	Items       any      `json:"items"`
	Count       int      `json:"count"`
	Total       int      `json:"total"`
	Limit       int      `json:"limit,omitempty"`
	Offset      int      `json:"offset"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// DatasetListResponse lists datasets held in memory
type DatasetListResponse struct {
	Items []dataset.Summary `json:"items"`
	Count int               `json:"count"`
}

// HealthResponse provides a consistent format for health check responses
type HealthResponse struct {
	Status     string `json:"status"`
	Timestamp  int64  `json:"timestamp"`
	Version    string `json:"version"`
	Datasets   int    `json:"datasets"`
	SSEClients int    `json:"sse_clients"`
}
