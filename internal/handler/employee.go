package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rfpworks/rfpserver/internal/middleware"
	"github.com/rfpworks/rfpserver/internal/repository"
	"github.com/rfpworks/rfpserver/internal/service"
)

type EmployeeHandler struct {
	assignment   *service.AssignmentService
	employeeRepo *repository.EmployeeRepository
}

func NewEmployeeHandler(assignment *service.AssignmentService, employeeRepo *repository.EmployeeRepository) *EmployeeHandler {
	return &EmployeeHandler{assignment: assignment, employeeRepo: employeeRepo}
}

func (h *EmployeeHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	employees, total, err := h.employeeRepo.FindByCompanyID(c.Request.Context(), middleware.GetCompanyID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": employees,
		"pagination": gin.H{
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}

// AssignedRFPs lists the RFPs assigned to the authenticated employee.
func (h *EmployeeHandler) AssignedRFPs(c *gin.Context) {
	rfps, err := h.assignment.GetAssignedRFPs(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rfps})
}

type setCurrentRFPRequest struct {
	RFPID string `json:"rfp_id" binding:"required"`
}

// SetCurrentRFP records which assigned RFP the employee is working on.
func (h *EmployeeHandler) SetCurrentRFP(c *gin.Context) {
	var req setCurrentRFPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rfpID, err := uuid.Parse(req.RFPID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rfp_id"})
		return
	}

	if err := h.assignment.SetCurrentRFP(c.Request.Context(), middleware.GetUserID(c), rfpID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rfp_id": rfpID})
}

// CurrentRFP returns the employee's working cursor.
func (h *EmployeeHandler) CurrentRFP(c *gin.Context) {
	rfpID, err := h.assignment.CurrentRFP(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrNoCurrentRFP) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no current rfp selected"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rfp_id": rfpID})
}

// ClearCurrentRFP drops the employee's working cursor.
func (h *EmployeeHandler) ClearCurrentRFP(c *gin.Context) {
	if err := h.assignment.ClearCurrentRFP(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
