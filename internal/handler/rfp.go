package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rfpworks/rfpserver/internal/extract"
	"github.com/rfpworks/rfpserver/internal/middleware"
	"github.com/rfpworks/rfpserver/internal/model"
	"github.com/rfpworks/rfpserver/internal/repository"
	"github.com/rfpworks/rfpserver/internal/rfp"
	"github.com/rfpworks/rfpserver/internal/service"
)

// maxUploadBytes caps in-memory document uploads.
const maxUploadBytes = 50 << 20

type RFPHandler struct {
	pipeline   *service.PipelineService
	assignment *service.AssignmentService
	compile    *service.CompileService
	rfpRepo    *repository.RFPRepository
}

func NewRFPHandler(pipeline *service.PipelineService, assignment *service.AssignmentService, compile *service.CompileService, rfpRepo *repository.RFPRepository) *RFPHandler {
	return &RFPHandler{pipeline: pipeline, assignment: assignment, compile: compile, rfpRepo: rfpRepo}
}

// Upload receives one RFP document, runs extraction and structured
// parsing, and returns the created record with its parsed structure.
func (h *RFPHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	raw := &extract.RawDocument{
		Filename:  header.Filename,
		MediaType: header.Header.Get("Content-Type"),
		Data:      data,
	}

	record, structured, err := h.pipeline.ProcessUpload(c.Request.Context(), middleware.GetCompanyID(c), middleware.GetUserID(c), raw)
	if err != nil {
		status := http.StatusInternalServerError
		var extractionErr *rfp.ExtractionError
		var validationErr *rfp.ValidationError
		switch {
		case errors.Is(err, extract.ErrUnsupportedFormat):
			status = http.StatusUnsupportedMediaType
		case errors.As(err, &extractionErr), errors.As(err, &validationErr):
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"rfp":        record,
		"structured": structured,
	})
}

func (h *RFPHandler) List(c *gin.Context) {
	status := model.RFPStatus(c.Query("status"))
	if status != "" && !model.ValidRFPStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rfps, total, err := h.rfpRepo.FindByCompanyID(c.Request.Context(), middleware.GetCompanyID(c), status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": rfps,
		"pagination": gin.H{
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}

func (h *RFPHandler) Get(c *gin.Context) {
	record, ok := h.loadOwned(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record)
}

// Generate runs the answer agent over the parsed RFP and compiles the
// proposal artifact. This is the long call of the API.
func (h *RFPHandler) Generate(c *gin.Context) {
	record, ok := h.loadOwned(c)
	if !ok {
		return
	}

	artifact, draft, err := h.pipeline.GenerateProposal(c.Request.Context(), record.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"artifact":     artifact,
		"draft":        draft,
		"failed_units": draft.FailedUnits,
	})
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *RFPHandler) SetStatus(c *gin.Context) {
	record, ok := h.loadOwned(c)
	if !ok {
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.assignment.SetStatus(c.Request.Context(), record.ID, model.RFPStatus(req.Status)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": record.ID, "status": req.Status})
}

type assignRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
}

func (h *RFPHandler) Assign(c *gin.Context) {
	record, ok := h.loadOwned(c)
	if !ok {
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee_id"})
		return
	}

	updated, err := h.assignment.AssignRFP(c.Request.Context(), record.ID, employeeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *RFPHandler) ListMessages(c *gin.Context) {
	record, ok := h.loadOwned(c)
	if !ok {
		return
	}
	messages := record.Messages
	if messages == nil {
		messages = model.JSONList{}
	}
	c.JSON(http.StatusOK, gin.H{"data": messages})
}

type postMessageRequest struct {
	Role    string `json:"role" binding:"required,oneof=user assistant system"`
	Content string `json:"content" binding:"required"`
}

func (h *RFPHandler) PostMessage(c *gin.Context) {
	record, ok := h.loadOwned(c)
	if !ok {
		return
	}

	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message := map[string]interface{}{
		"role":      req.Role,
		"content":   req.Content,
		"author_id": middleware.GetUserID(c).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.rfpRepo.AppendMessage(c.Request.Context(), record.ID, message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, message)
}

type refineRequest struct {
	Proposal    string `json:"proposal" binding:"required"`
	Instruction string `json:"instruction" binding:"required"`
}

// Refine rewrites proposal text per an editor instruction. It does not
// touch stored artifacts; the client decides whether to regenerate.
func (h *RFPHandler) Refine(c *gin.Context) {
	if _, ok := h.loadOwned(c); !ok {
		return
	}

	var req refineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	revised, err := h.compile.Refine(c.Request.Context(), req.Proposal, req.Instruction)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposal": revised})
}

// loadOwned parses the :id param and enforces tenant ownership.
func (h *RFPHandler) loadOwned(c *gin.Context) (*model.RFP, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil, false
	}

	record, err := h.rfpRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "rfp not found"})
		return nil, false
	}
	if record.CompanyID != middleware.GetCompanyID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "rfp not found"})
		return nil, false
	}
	return record, true
}
