package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rfpworks/rfpserver/internal/extract"
	"github.com/rfpworks/rfpserver/internal/middleware"
	"github.com/rfpworks/rfpserver/internal/repository"
	"github.com/rfpworks/rfpserver/internal/service"
)

type KnowledgeHandler struct {
	svc           *service.KnowledgeService
	knowledgeRepo *repository.KnowledgeRepository
}

func NewKnowledgeHandler(svc *service.KnowledgeService, knowledgeRepo *repository.KnowledgeRepository) *KnowledgeHandler {
	return &KnowledgeHandler{svc: svc, knowledgeRepo: knowledgeRepo}
}

// Upload ingests company documentation into the tenant's knowledge store.
func (h *KnowledgeHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	companyID := middleware.GetCompanyID(c)
	var results []gin.H
	var failures []gin.H

	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			failures = append(failures, gin.H{"filename": header.Filename, "error": err.Error()})
			continue
		}
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		file.Close()
		if err != nil {
			failures = append(failures, gin.H{"filename": header.Filename, "error": err.Error()})
			continue
		}

		raw := &extract.RawDocument{
			Filename:  header.Filename,
			MediaType: header.Header.Get("Content-Type"),
			Data:      data,
		}
		count, err := h.svc.IngestDocument(c.Request.Context(), companyID, raw)
		if err != nil {
			failures = append(failures, gin.H{"filename": header.Filename, "error": err.Error()})
			continue
		}
		results = append(results, gin.H{"filename": header.Filename, "chunks": count})
	}

	// All files failing is a failed request, not a creation.
	status := http.StatusCreated
	if len(results) == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{
		"data":          results,
		"success_count": len(results),
		"failed_count":  len(failures),
		"errors":        failures,
	})
}

// Stats reports the tenant's knowledge store size.
func (h *KnowledgeHandler) Stats(c *gin.Context) {
	count, err := h.knowledgeRepo.CountByCompanyID(c.Request.Context(), middleware.GetCompanyID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chunk_count": count})
}

// Purge drops every knowledge chunk of the tenant.
func (h *KnowledgeHandler) Purge(c *gin.Context) {
	if err := h.knowledgeRepo.DeleteByCompanyID(c.Request.Context(), middleware.GetCompanyID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type queryRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  int    `json:"top_k"`
}

// Query runs a similarity search over the tenant's knowledge store.
func (h *KnowledgeHandler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	passages, err := h.svc.Query(c.Request.Context(), middleware.GetCompanyID(c), req.Query, req.TopK)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": passages})
}
