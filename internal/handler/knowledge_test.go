package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfpworks/rfpserver/internal/extract"
	"github.com/rfpworks/rfpserver/internal/middleware"
	"github.com/rfpworks/rfpserver/internal/service"
)

func knowledgeUploadRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	// Unsupported formats fail in extraction, before any embedding or
	// database work, so the handler can run without either.
	svc := service.NewKnowledgeService(nil, nil, nil, extract.NewExtractor(1000, 200))
	h := NewKnowledgeHandler(svc, nil)

	r := gin.New()
	r.POST("/knowledge/documents", func(c *gin.Context) {
		c.Set(middleware.ContextKeyCompanyID, uuid.New())
		h.Upload(c)
	})
	return r
}

func multipartBody(t *testing.T, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range filenames {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("not a real document"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestKnowledgeUploadAllFilesFailing(t *testing.T) {
	r := knowledgeUploadRouter()

	body, contentType := multipartBody(t, "notes.txt", "image.png")
	req := httptest.NewRequest(http.MethodPost, "/knowledge/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		SuccessCount int `json:"success_count"`
		FailedCount  int `json:"failed_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.SuccessCount)
	assert.Equal(t, 2, resp.FailedCount)
}

func TestKnowledgeUploadNoFiles(t *testing.T) {
	r := knowledgeUploadRouter()

	body, contentType := multipartBody(t)
	req := httptest.NewRequest(http.MethodPost, "/knowledge/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
