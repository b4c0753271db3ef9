package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rfpworks/rfpserver/internal/model"
	"github.com/rfpworks/rfpserver/internal/pkg/redis"
	"github.com/rfpworks/rfpserver/internal/repository"
)

// currentRFPTTL bounds how long an employee's working-cursor survives
// without being refreshed.
const currentRFPTTL = 24 * time.Hour

// ErrNoCurrentRFP is returned when an employee has no working cursor set.
var ErrNoCurrentRFP = fmt.Errorf("no current rfp selected")

// AssignmentService manages the RFP work ledger: which employee owns
// which RFP, its lifecycle status, and the employee's volatile "current
// RFP" cursor kept in Redis.
type AssignmentService struct {
	rfpRepo      *repository.RFPRepository
	employeeRepo *repository.EmployeeRepository
	cache        *redis.Client
}

func NewAssignmentService(rfpRepo *repository.RFPRepository, employeeRepo *repository.EmployeeRepository, cache *redis.Client) *AssignmentService {
	return &AssignmentService{rfpRepo: rfpRepo, employeeRepo: employeeRepo, cache: cache}
}

// GetAssignedRFPs lists the RFPs currently assigned to one employee.
func (s *AssignmentService) GetAssignedRFPs(ctx context.Context, employeeID uuid.UUID) ([]model.RFP, error) {
	return s.rfpRepo.FindByAssignee(ctx, employeeID)
}

// AssignRFP hands an RFP to an employee of the same company and moves it
// to the assigned state.
func (s *AssignmentService) AssignRFP(ctx context.Context, rfpID, employeeID uuid.UUID) (*model.RFP, error) {
	record, err := s.rfpRepo.FindByID(ctx, rfpID)
	if err != nil {
		return nil, fmt.Errorf("load rfp: %w", err)
	}

	employee, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("load employee: %w", err)
	}
	if employee.CompanyID != record.CompanyID {
		return nil, fmt.Errorf("employee %s does not belong to the rfp's company", employeeID)
	}
	if !employee.IsActive {
		return nil, fmt.Errorf("employee %s is inactive", employeeID)
	}

	if err := s.rfpRepo.Assign(ctx, rfpID, employeeID); err != nil {
		return nil, fmt.Errorf("assign rfp: %w", err)
	}

	record.AssignedTo = &employeeID
	record.Status = model.RFPStatusAssigned
	return record, nil
}

// SetStatus moves an RFP to one of the three ledger states.
func (s *AssignmentService) SetStatus(ctx context.Context, rfpID uuid.UUID, status model.RFPStatus) error {
	if !model.ValidRFPStatus(status) {
		return fmt.Errorf("invalid rfp status %q", status)
	}
	return s.rfpRepo.UpdateStatus(ctx, rfpID, status)
}

// SetCurrentRFP records which RFP the employee is working on right now.
// The cursor expires on its own; losing it is harmless.
func (s *AssignmentService) SetCurrentRFP(ctx context.Context, employeeID, rfpID uuid.UUID) error {
	record, err := s.rfpRepo.FindByID(ctx, rfpID)
	if err != nil {
		return fmt.Errorf("load rfp: %w", err)
	}
	if record.AssignedTo == nil || *record.AssignedTo != employeeID {
		return fmt.Errorf("rfp %s is not assigned to employee %s", rfpID, employeeID)
	}
	return s.cache.Set(ctx, currentRFPKey(employeeID), rfpID.String(), currentRFPTTL)
}

// CurrentRFP returns the employee's working cursor, or ErrNoCurrentRFP
// when none is set or the cursor has expired.
func (s *AssignmentService) CurrentRFP(ctx context.Context, employeeID uuid.UUID) (uuid.UUID, error) {
	value, err := s.cache.Get(ctx, currentRFPKey(employeeID))
	if err != nil {
		if redis.IsNil(err) {
			return uuid.Nil, ErrNoCurrentRFP
		}
		return uuid.Nil, fmt.Errorf("read current rfp: %w", err)
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt current rfp cursor: %w", err)
	}
	return id, nil
}

// ClearCurrentRFP drops the employee's working cursor.
func (s *AssignmentService) ClearCurrentRFP(ctx context.Context, employeeID uuid.UUID) error {
	return s.cache.Del(ctx, currentRFPKey(employeeID))
}

func currentRFPKey(employeeID uuid.UUID) string {
	return fmt.Sprintf("employee:%s:current_rfp", employeeID)
}
