package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfpworks/rfpserver/internal/model"
)

type ArtifactRepository struct {
	BaseRepository[model.ProposalArtifact]
}

func NewArtifactRepository(db *gorm.DB) *ArtifactRepository {
	return &ArtifactRepository{BaseRepository[model.ProposalArtifact]{DB: db}}
}

// FindLatestByRFPID returns the most recently generated artifact for an RFP.
func (r *ArtifactRepository) FindLatestByRFPID(ctx context.Context, rfpID uuid.UUID) (*model.ProposalArtifact, error) {
	var artifact model.ProposalArtifact
	err := r.DB.WithContext(ctx).
		Where("rfp_id = ? AND deleted_at IS NULL", rfpID).
		Order("generated_at DESC").
		First(&artifact).Error
	if err != nil {
		return nil, err
	}
	return &artifact, nil
}

func (r *ArtifactRepository) FindByRFPID(ctx context.Context, rfpID uuid.UUID) ([]model.ProposalArtifact, error) {
	var artifacts []model.ProposalArtifact
	err := r.DB.WithContext(ctx).
		Where("rfp_id = ? AND deleted_at IS NULL", rfpID).
		Order("generated_at DESC").
		Find(&artifacts).Error
	return artifacts, err
}
