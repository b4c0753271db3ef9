package handler

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rfpworks/rfpserver/internal/middleware"
	"github.com/rfpworks/rfpserver/internal/pkg/storage"
	"github.com/rfpworks/rfpserver/internal/repository"
)

type ArtifactHandler struct {
	artifactRepo *repository.ArtifactRepository
	rfpRepo      *repository.RFPRepository
	store        storage.Store
}

func NewArtifactHandler(artifactRepo *repository.ArtifactRepository, rfpRepo *repository.RFPRepository, store storage.Store) *ArtifactHandler {
	return &ArtifactHandler{artifactRepo: artifactRepo, rfpRepo: rfpRepo, store: store}
}

// List returns every generated artifact for an RFP, newest first.
func (h *ArtifactHandler) List(c *gin.Context) {
	rfpID, ok := h.ownedRFPID(c)
	if !ok {
		return
	}

	artifacts, err := h.artifactRepo.FindByRFPID(c.Request.Context(), rfpID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": artifacts})
}

// Latest returns the most recent artifact for an RFP.
func (h *ArtifactHandler) Latest(c *gin.Context) {
	rfpID, ok := h.ownedRFPID(c)
	if !ok {
		return
	}

	artifact, err := h.artifactRepo.FindLatestByRFPID(c.Request.Context(), rfpID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no artifact generated yet"})
		return
	}
	c.JSON(http.StatusOK, artifact)
}

// Download streams a stored object. Keys embed the owning company id as
// their second path segment, which must match the caller's tenant.
func (h *ArtifactHandler) Download(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" || strings.Contains(key, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid key"})
		return
	}

	parts := strings.SplitN(key, "/", 3)
	if len(parts) != 3 || parts[1] != middleware.GetCompanyID(c).String() {
		c.JSON(http.StatusNotFound, gin.H{"error": "object not found"})
		return
	}

	reader, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "object not found"})
		return
	}
	defer reader.Close()

	filename := path.Base(key)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func (h *ArtifactHandler) ownedRFPID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}

	record, err := h.rfpRepo.FindByID(c.Request.Context(), id)
	if err != nil || record.CompanyID != middleware.GetCompanyID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "rfp not found"})
		return uuid.Nil, false
	}
	return record.ID, true
}
