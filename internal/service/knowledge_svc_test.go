package service

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rfpworks/rfpserver/internal/extract"
	"github.com/rfpworks/rfpserver/internal/model"
	"github.com/rfpworks/rfpserver/internal/repository"
)

// Integration test. Needs a pgvector-enabled database and a real
// embedding endpoint.
func TestKnowledgeTenantIsolation(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	apiKey := os.Getenv("EMBEDDING_API_KEY")
	if apiKey == "" {
		t.Skip("EMBEDDING_API_KEY not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("connect database: %v", err)
	}
	if err := db.AutoMigrate(&model.KnowledgeChunk{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	embeddingSvc := NewEmbeddingService(apiKey, os.Getenv("EMBEDDING_BASE_URL"), "text-embedding-3-small", 1536)
	svc := NewKnowledgeService(db, repository.NewKnowledgeRepository(db), embeddingSvc, extract.NewExtractor(1000, 200))

	ctx := context.Background()
	companyA := uuid.New()
	companyB := uuid.New()
	defer db.Unscoped().Where("company_id IN ?", []uuid.UUID{companyA, companyB}).Delete(&model.KnowledgeChunk{})

	textA := &extract.ExtractedText{Chunks: []extract.Chunk{{Text: "Company A holds ISO 27001 certification since 2019.", Offset: 0}}}
	textB := &extract.ExtractedText{Chunks: []extract.Chunk{{Text: "Company B specializes in offshore staffing.", Offset: 0}}}

	if _, err := svc.Ingest(ctx, companyA, textA, "a-handbook.pdf"); err != nil {
		t.Fatalf("ingest for company A: %v", err)
	}
	if _, err := svc.Ingest(ctx, companyB, textB, "b-handbook.pdf"); err != nil {
		t.Fatalf("ingest for company B: %v", err)
	}

	passages, err := svc.Query(ctx, companyA, "ISO 27001 certification", 5)
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	t.Logf("retrieved %d passages", len(passages))
	for _, p := range passages {
		t.Logf("score=%.4f content=%s", p.Score, p.Content)
		if p.Content == textB.Chunks[0].Text {
			t.Errorf("company A query returned company B content")
		}
	}
	if len(passages) == 0 {
		t.Error("expected at least one passage for company A")
	}
}

func TestQueryRequiresCompany(t *testing.T) {
	svc := NewKnowledgeService(nil, nil, nil, nil)
	_, err := svc.Query(context.Background(), uuid.Nil, "anything", 5)
	if err == nil {
		t.Fatal("expected error for missing company id")
	}
}
