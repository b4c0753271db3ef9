package model

import (
	"time"

	"github.com/google/uuid"
)

// ProposalArtifact records one compiled proposal output. Rows are
// append-only: regenerating a proposal inserts a new artifact with fresh
// storage keys, it never overwrites a location already handed out.
type ProposalArtifact struct {
	BaseModel
	RFPID        uuid.UUID `gorm:"type:uuid;not null;index" json:"rfp_id"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	DocxKey      string    `gorm:"size:500;not null" json:"docx_key"`
	DocxLocation string    `gorm:"size:1000;not null" json:"docx_location"`
	PdfKey       string    `gorm:"size:500" json:"pdf_key,omitempty"`
	PdfLocation  string    `gorm:"size:1000" json:"pdf_location,omitempty"`
	GeneratedAt  time.Time `gorm:"not null" json:"generated_at"`
}

func (ProposalArtifact) TableName() string {
	return "proposal_artifacts"
}
