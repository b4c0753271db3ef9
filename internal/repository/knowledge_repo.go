package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfpworks/rfpserver/internal/model"
)

type KnowledgeRepository struct {
	BaseRepository[model.KnowledgeChunk]
}

func NewKnowledgeRepository(db *gorm.DB) *KnowledgeRepository {
	return &KnowledgeRepository{BaseRepository[model.KnowledgeChunk]{DB: db}}
}

func (r *KnowledgeRepository) CreateBatch(ctx context.Context, chunks []model.KnowledgeChunk) error {
	return r.DB.WithContext(ctx).Create(&chunks).Error
}

func (r *KnowledgeRepository) CountByCompanyID(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	err := r.companyScoped(ctx, companyID).Count(&count).Error
	return count, err
}

func (r *KnowledgeRepository) DeleteByCompanyID(ctx context.Context, companyID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&model.KnowledgeChunk{}).Error
}
