package model

import "github.com/google/uuid"

type RFPStatus string

const (
	RFPStatusPending  RFPStatus = "pending"
	RFPStatusAssigned RFPStatus = "assigned"
	RFPStatusFinished RFPStatus = "finished"
)

// ValidRFPStatus reports whether s is one of the three ledger states.
func ValidRFPStatus(s RFPStatus) bool {
	switch s {
	case RFPStatusPending, RFPStatusAssigned, RFPStatusFinished:
		return true
	}
	return false
}

// RFP is one uploaded solicitation document and its lifecycle record.
// StructuredData holds the parsed snapshot produced at upload time so
// answer generation does not need to re-run extraction.
type RFP struct {
	BaseModel
	CompanyID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	Filename       string     `gorm:"size:500;not null" json:"filename"`
	ContentType    string     `gorm:"size:100" json:"content_type"`
	Status         RFPStatus  `gorm:"size:20;default:pending;index" json:"status"`
	UploadedBy     uuid.UUID  `gorm:"type:uuid" json:"uploaded_by"`
	AssignedTo     *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	FileKey        string     `gorm:"size:500" json:"file_key"`
	FileLocation   string     `gorm:"size:1000" json:"file_url"`
	StructuredData JSONMap    `gorm:"type:jsonb" json:"structured_data,omitempty"`
	Messages       JSONList   `gorm:"type:jsonb" json:"messages,omitempty"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (RFP) TableName() string {
	return "rfps"
}
