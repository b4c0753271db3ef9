package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfpworks/rfpserver/internal/model"
)

type RFPRepository struct {
	BaseRepository[model.RFP]
}

func NewRFPRepository(db *gorm.DB) *RFPRepository {
	return &RFPRepository{BaseRepository[model.RFP]{DB: db}}
}

func (r *RFPRepository) FindByCompanyID(ctx context.Context, companyID uuid.UUID, status model.RFPStatus, limit, offset int) ([]model.RFP, int64, error) {
	var rfps []model.RFP
	var total int64

	query := r.companyScoped(ctx, companyID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	query.Count(&total)
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rfps).Error
	return rfps, total, err
}

func (r *RFPRepository) FindByAssignee(ctx context.Context, employeeID uuid.UUID) ([]model.RFP, error) {
	var rfps []model.RFP
	err := r.DB.WithContext(ctx).
		Where("assigned_to = ? AND deleted_at IS NULL", employeeID).
		Order("created_at DESC").
		Find(&rfps).Error
	return rfps, err
}

func (r *RFPRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.RFPStatus) error {
	return r.DB.WithContext(ctx).Model(&model.RFP{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *RFPRepository) Assign(ctx context.Context, id, employeeID uuid.UUID) error {
	return r.DB.WithContext(ctx).Model(&model.RFP{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"assigned_to": employeeID,
			"status":      model.RFPStatusAssigned,
		}).Error
}

// AppendMessage appends one message to the RFP's thread in a single
// statement, so concurrent appends never overwrite each other.
func (r *RFPRepository) AppendMessage(ctx context.Context, id uuid.UUID, message map[string]interface{}) error {
	payload, err := json.Marshal([]map[string]interface{}{message})
	if err != nil {
		return err
	}

	result := r.DB.WithContext(ctx).Model(&model.RFP{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("messages", gorm.Expr("COALESCE(messages, '[]'::jsonb) || ?::jsonb", string(payload)))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
