package model

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// KnowledgeChunk is one embedded slice of a company document. Every row
// carries the owning company id; queries must always filter on it.
type KnowledgeChunk struct {
	BaseModel
	CompanyID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	SourceName string          `gorm:"size:500" json:"source_name"`
	Content    string          `gorm:"type:text;not null" json:"content"`
	ChunkIndex int             `gorm:"default:0" json:"chunk_index"`
	Embedding  pgvector.Vector `gorm:"type:vector(1536)" json:"-"`
	Metadata   JSONMap         `gorm:"type:jsonb" json:"metadata"`
}

func (KnowledgeChunk) TableName() string {
	return "knowledge_chunks"
}
