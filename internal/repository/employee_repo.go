package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfpworks/rfpserver/internal/model"
)

type EmployeeRepository struct {
	BaseRepository[model.Employee]
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{BaseRepository[model.Employee]{DB: db}}
}

func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*model.Employee, error) {
	var emp model.Employee
	err := r.DB.WithContext(ctx).
		Where("email = ? AND is_active = true AND deleted_at IS NULL", email).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepository) FindByCompanyID(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]model.Employee, int64, error) {
	return r.ListByCompany(ctx, companyID, "created_at ASC", limit, offset)
}
