// file: internal/server/middleware/request_size_test.go
// version: 2.0.0
// guid: 8f5ed221-2f04-49aa-86f7-f63fa1732b2d

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMethodHasBody(t *testing.T) {
	t.Parallel()

	assert.True(t, methodHasBody(http.MethodPost))
	assert.True(t, methodHasBody(http.MethodPut))
	assert.True(t, methodHasBody(http.MethodPatch))
	assert.False(t, methodHasBody(http.MethodGet))
	assert.False(t, methodHasBody(http.MethodDelete))
}

func TestSelectBodyLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want int64
	}{
		{"/api/v1/search", 10},
		{"/api/v1/datasets/drinks", 10},
		{"/api/v1/datasets", 1},
		{"/api/v1/search/extra", 1},
		{"/api/v1/other", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, selectBodyLimit(tt.path, 1, 10), tt.path)
	}
}

func TestMaxRequestBodySize_Middleware(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MaxRequestBodySize(8, 16))
	readAll := func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	}
	router.POST("/api/v1/other", readAll)
	router.PUT("/api/v1/datasets/:name", readAll)
	router.GET("/api/v1/other", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Plain JSON endpoint over limit should be rejected.
	jsonReq := httptest.NewRequest(http.MethodPost, "/api/v1/other", bytes.NewReader(bytes.Repeat([]byte("a"), 9)))
	jsonResp := httptest.NewRecorder()
	router.ServeHTTP(jsonResp, jsonReq)
	assert.Equal(t, http.StatusRequestEntityTooLarge, jsonResp.Code)
	assert.Contains(t, jsonResp.Body.String(), "TOO_LARGE")

	// Dataset uploads get the records limit.
	uploadReq := httptest.NewRequest(http.MethodPut, "/api/v1/datasets/drinks", bytes.NewReader(bytes.Repeat([]byte("b"), 12)))
	uploadResp := httptest.NewRecorder()
	router.ServeHTTP(uploadResp, uploadReq)
	assert.Equal(t, http.StatusOK, uploadResp.Code)

	// Bodies without a declared length are capped while reading.
	chunked := httptest.NewRequest(http.MethodPut, "/api/v1/datasets/drinks", bytes.NewReader(bytes.Repeat([]byte("c"), 32)))
	chunked.ContentLength = -1
	chunkedResp := httptest.NewRecorder()
	router.ServeHTTP(chunkedResp, chunked)
	assert.Equal(t, http.StatusRequestEntityTooLarge, chunkedResp.Code)

	// Methods without request bodies should pass untouched.
	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/other", nil)
	getResp := httptest.NewRecorder()
	router.ServeHTTP(getResp, getReq)
	assert.Equal(t, http.StatusOK, getResp.Code)
}
