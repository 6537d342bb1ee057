// file: internal/server/handlers.go
// version: 1.0.1
// guid: 6b2e9d41-0c7a-4e83-b5f6-2a9d8c1e4f70

package server

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jdfalk/dashboard-search/internal/dataset"
	"github.com/jdfalk/dashboard-search/internal/logger"
	"github.com/jdfalk/dashboard-search/internal/matcher"
	"github.com/jdfalk/dashboard-search/internal/records"
	"go.uber.org/zap"
)

// respondWithSearchError maps search failures to client errors.
func respondWithSearchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, matcher.ErrNoFields):
		RespondWithValidationError(c, "fields", "at least one field is required for a non-blank query")
	case errors.Is(err, ErrInvalidThreshold):
		RespondWithValidationError(c, "threshold", err.Error())
	default:
		RespondWithInternalError(c, "search failed")
	}
}

func (s *Server) searchInline(c *gin.Context) {
	var req SearchRequest
	if HandleBindError(c, c.ShouldBindJSON(&req)) {
		return
	}
	if limit := s.store.MaxRecords(); limit > 0 && len(req.Records) > limit {
		RespondWithTooLarge(c, "too many records")
		return
	}

	resp, err := s.search.Search("inline", req.Records, SearchQuery{
		Query:      req.Query,
		Fields:     req.Fields,
		Threshold:  req.Threshold,
		Limit:      req.Limit,
		Offset:     req.Offset,
		WithScores: req.WithScores,
	})
	if err != nil {
		respondWithSearchError(c, err)
		return
	}
	RespondWithOK(c, resp)
}

func (s *Server) listDatasets(c *gin.Context) {
	items := s.store.List()
	RespondWithOK(c, DatasetListResponse{Items: items, Count: len(items)})
}

func summarize(ds *dataset.Dataset) dataset.Summary {
	return dataset.Summary{
		Name:     ds.Name,
		Size:     len(ds.Records),
		Source:   ds.Source,
		LoadedAt: ds.LoadedAt,
	}
}

func (s *Server) getDataset(c *gin.Context) {
	name := c.Param("name")
	ds, ok := s.store.Get(name)
	if !ok {
		RespondWithNotFound(c, "dataset", name)
		return
	}
	RespondWithOK(c, summarize(ds))
}

// uploadFormat picks the decoder from the Content-Type, defaulting to JSON.
func uploadFormat(contentType string) records.Format {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return records.FormatJSON
	}
	switch mediaType {
	case "application/x-ndjson", "application/jsonl", "application/x-jsonlines":
		return records.FormatJSONL
	case "application/yaml", "application/x-yaml", "text/yaml":
		return records.FormatYAML
	default:
		return records.FormatJSON
	}
}

func (s *Server) putDataset(c *gin.Context) {
	name := c.Param("name")
	if !dataset.ValidName(name) {
		RespondWithValidationError(c, "name", "letters, digits, '.', '_' and '-' only")
		return
	}

	recs, err := records.Decode(c.Request.Body, uploadFormat(c.ContentType()), s.store.MaxRecords())
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr), errors.Is(err, records.ErrTooManyRecords):
			RespondWithTooLarge(c, err.Error())
		default:
			RespondWithBadRequest(c, "invalid dataset: "+err.Error())
		}
		return
	}

	_, existed := s.store.Get(name)
	ds, err := s.store.Put(name, recs, "upload")
	if err != nil {
		if errors.Is(err, dataset.ErrTooManyRecords) {
			RespondWithTooLarge(c, err.Error())
			return
		}
		RespondWithBadRequest(c, err.Error())
		return
	}

	logger.FromContext(c.Request.Context()).Info("dataset uploaded",
		zap.String("dataset", name), zap.Int("records", len(recs)))
	if existed {
		RespondWithOK(c, summarize(ds))
		return
	}
	RespondWithCreated(c, summarize(ds))
}

func (s *Server) deleteDataset(c *gin.Context) {
	name := c.Param("name")
	if !s.store.Delete(name) {
		RespondWithNotFound(c, "dataset", name)
		return
	}
	RespondWithNoContent(c)
}

func (s *Server) clearDatasets(c *gin.Context) {
	RespondWithOK(c, gin.H{"removed": s.store.Clear()})
}

func (s *Server) searchDataset(c *gin.Context) {
	name := c.Param("name")
	ds, ok := s.store.Get(name)
	if !ok {
		RespondWithNotFound(c, "dataset", name)
		return
	}

	threshold, ok := ParseQueryFloatPtr(c, "threshold")
	if !ok {
		RespondWithValidationError(c, "threshold", "must be a number")
		return
	}
	page := ParsePaginationParams(c)

	resp, err := s.search.Search("dataset", ds.Records, SearchQuery{
		Query:      c.Query("q"),
		Fields:     ParseQueryList(c, "fields", "field"),
		Threshold:  threshold,
		Limit:      page.Limit,
		Offset:     page.Offset,
		WithScores: ParseQueryBool(c, "scores", false),
		Suggest:    true,
	})
	if err != nil {
		respondWithSearchError(c, err)
		return
	}
	RespondWithOK(c, resp)
}
