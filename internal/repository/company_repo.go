package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rfpworks/rfpserver/internal/model"
)

type CompanyRepository struct {
	BaseRepository[model.Company]
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{BaseRepository[model.Company]{DB: db}}
}

func (r *CompanyRepository) FindBySubdomain(ctx context.Context, subdomain string) (*model.Company, error) {
	var company model.Company
	err := r.DB.WithContext(ctx).
		Where("subdomain = ? AND deleted_at IS NULL", subdomain).
		First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}
