package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	einotool "github.com/rfpworks/rfpserver/internal/eino/tool"
	"github.com/rfpworks/rfpserver/internal/extract"
	"github.com/rfpworks/rfpserver/internal/model"
	"github.com/rfpworks/rfpserver/internal/repository"
)

// KnowledgeService is the tenant knowledge store: a shared pgvector index
// logically partitioned by company id. Every insert tags the owning
// company; every query filters on it. The filter is a hard isolation
// boundary, not a ranking preference.
type KnowledgeService struct {
	db            *gorm.DB
	knowledgeRepo *repository.KnowledgeRepository
	embeddingSvc  *EmbeddingService
	extractor     *extract.Extractor
}

func NewKnowledgeService(db *gorm.DB, knowledgeRepo *repository.KnowledgeRepository, embeddingSvc *EmbeddingService, extractor *extract.Extractor) *KnowledgeService {
	return &KnowledgeService{
		db:            db,
		knowledgeRepo: knowledgeRepo,
		embeddingSvc:  embeddingSvc,
		extractor:     extractor,
	}
}

// IngestDocument extracts, chunks, embeds and stores one company document.
func (s *KnowledgeService) IngestDocument(ctx context.Context, companyID uuid.UUID, raw *extract.RawDocument) (int, error) {
	text, err := s.extractor.Extract(raw)
	if err != nil {
		return 0, err
	}
	return s.Ingest(ctx, companyID, text, raw.Filename)
}

// Ingest embeds pre-extracted text and stores the chunks under companyID.
func (s *KnowledgeService) Ingest(ctx context.Context, companyID uuid.UUID, text *extract.ExtractedText, sourceName string) (int, error) {
	if len(text.Chunks) == 0 {
		return 0, nil
	}

	contents := make([]string, len(text.Chunks))
	for i, c := range text.Chunks {
		contents[i] = c.Text
	}

	embeddings, err := s.embeddingSvc.GenerateEmbeddings(ctx, contents)
	if err != nil {
		return 0, fmt.Errorf("generate embeddings: %w", err)
	}
	if len(embeddings) != len(contents) {
		return 0, fmt.Errorf("embedding count mismatch: %d texts, %d vectors", len(contents), len(embeddings))
	}

	chunks := make([]model.KnowledgeChunk, len(contents))
	for i := range contents {
		chunks[i] = model.KnowledgeChunk{
			CompanyID:  companyID,
			SourceName: sourceName,
			Content:    contents[i],
			ChunkIndex: i,
			Embedding:  embeddings[i],
		}
	}

	if err := s.knowledgeRepo.CreateBatch(ctx, chunks); err != nil {
		return 0, fmt.Errorf("store chunks: %w", err)
	}
	return len(chunks), nil
}

// Query runs cosine similarity search restricted to one company's chunks.
func (s *KnowledgeService) Query(ctx context.Context, companyID uuid.UUID, query string, topK int) ([]einotool.Passage, error) {
	if companyID == uuid.Nil {
		return nil, fmt.Errorf("company id is required for knowledge queries")
	}
	if topK <= 0 {
		topK = 5
	}

	queryEmbedding, err := s.embeddingSvc.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	var results []struct {
		model.KnowledgeChunk
		Distance float64 `gorm:"column:distance"`
	}

	// Cosine distance; company filter is mandatory.
	err = s.db.WithContext(ctx).
		Table("knowledge_chunks").
		Select("*, embedding <=> ? as distance", queryEmbedding).
		Where("company_id = ?", companyID).
		Where("embedding IS NOT NULL").
		Where("deleted_at IS NULL").
		Order("distance ASC").
		Limit(topK).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}

	passages := make([]einotool.Passage, 0, len(results))
	for _, r := range results {
		passages = append(passages, einotool.Passage{
			Content: r.Content,
			Score:   1 - r.Distance,
		})
	}
	return passages, nil
}
