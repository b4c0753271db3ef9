package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rfpworks/rfpserver/internal/model"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("connect database: %v", err)
	}
	if err := db.AutoMigrate(&model.RFP{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Concurrent appenders must never lose a message: the append is one
// statement, not a read-modify-write.
func TestAppendMessageConcurrent(t *testing.T) {
	db := testDB(t)
	repo := NewRFPRepository(db)
	ctx := context.Background()

	record := &model.RFP{
		CompanyID:  uuid.New(),
		Filename:   "bid.pdf",
		Status:     model.RFPStatusPending,
		UploadedBy: uuid.New(),
	}
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("create rfp: %v", err)
	}
	defer db.Unscoped().Delete(record)

	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.AppendMessage(ctx, record.ID, map[string]interface{}{
				"role":    "user",
				"content": fmt.Sprintf("message %d", i),
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("append message: %v", err)
		}
	}

	reloaded, err := repo.FindByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("reload rfp: %v", err)
	}
	if len(reloaded.Messages) != writers {
		t.Errorf("expected %d messages, got %d (concurrent appends lost writes)", writers, len(reloaded.Messages))
	}
}

func TestAppendMessageMissingRFP(t *testing.T) {
	db := testDB(t)
	repo := NewRFPRepository(db)

	err := repo.AppendMessage(context.Background(), uuid.New(), map[string]interface{}{"role": "user", "content": "x"})
	if err != gorm.ErrRecordNotFound {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestListByCompanyScoping(t *testing.T) {
	db := testDB(t)
	repo := NewRFPRepository(db)
	ctx := context.Background()

	companyA := uuid.New()
	companyB := uuid.New()
	defer db.Unscoped().Where("company_id IN ?", []uuid.UUID{companyA, companyB}).Delete(&model.RFP{})

	for i, companyID := range []uuid.UUID{companyA, companyA, companyB} {
		record := &model.RFP{
			CompanyID:  companyID,
			Filename:   fmt.Sprintf("doc-%d.pdf", i),
			Status:     model.RFPStatusPending,
			UploadedBy: uuid.New(),
		}
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("create rfp: %v", err)
		}
	}

	rfps, total, err := repo.FindByCompanyID(ctx, companyA, "", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(rfps) != 2 {
		t.Errorf("expected 2 rows for company A, got total=%d len=%d", total, len(rfps))
	}
	for _, r := range rfps {
		if r.CompanyID != companyA {
			t.Errorf("company A listing leaked row owned by %s", r.CompanyID)
		}
	}
}
