package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rfpworks/rfpserver/internal/model"
	"github.com/rfpworks/rfpserver/internal/pkg/jwt"
	"github.com/rfpworks/rfpserver/internal/repository"
)

// Integration test. Needs a database.
func TestRegisterCompanyRejectsTakenSubdomain(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("connect database: %v", err)
	}
	if err := db.AutoMigrate(&model.Company{}, &model.Employee{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := NewAuthService(db, repository.NewCompanyRepository(db), repository.NewEmployeeRepository(db), jwt.NewManager("test-secret", 60, 7))
	ctx := context.Background()

	subdomain := "tenant-" + uuid.NewString()
	company, admin, err := svc.RegisterCompany(ctx, "First "+subdomain, subdomain, "Admin", subdomain+"-a@example.com", "password123")
	if err != nil {
		t.Fatalf("first registration: %v", err)
	}
	defer db.Unscoped().Delete(admin)
	defer db.Unscoped().Delete(company)

	_, _, err = svc.RegisterCompany(ctx, "Second "+subdomain, subdomain, "Admin", subdomain+"-b@example.com", "password123")
	if !errors.Is(err, ErrSubdomainTaken) {
		t.Errorf("expected ErrSubdomainTaken, got %v", err)
	}

	// Logging in as the first admin still works.
	tokens, employee, err := svc.Login(ctx, subdomain+"-a@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.AccessToken == "" {
		t.Error("expected a non-empty access token")
	}
	if employee.CompanyID != company.ID {
		t.Errorf("login returned employee of company %s, want %s", employee.CompanyID, company.ID)
	}
}
