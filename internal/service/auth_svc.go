package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rfpworks/rfpserver/internal/model"
	"github.com/rfpworks/rfpserver/internal/pkg/jwt"
	"github.com/rfpworks/rfpserver/internal/repository"
)

// ErrInvalidCredentials is returned for any login failure so callers
// cannot distinguish a missing account from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrSubdomainTaken is returned when a registration requests a subdomain
// another tenant already owns.
var ErrSubdomainTaken = errors.New("subdomain is already taken")

// TokenPair is what a successful login hands back.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService handles tenant registration, employee accounts and logins.
type AuthService struct {
	db           *gorm.DB
	companyRepo  *repository.CompanyRepository
	employeeRepo *repository.EmployeeRepository
	jwtManager   *jwt.Manager
}

func NewAuthService(db *gorm.DB, companyRepo *repository.CompanyRepository, employeeRepo *repository.EmployeeRepository, jwtManager *jwt.Manager) *AuthService {
	return &AuthService{
		db:           db,
		companyRepo:  companyRepo,
		employeeRepo: employeeRepo,
		jwtManager:   jwtManager,
	}
}

// RegisterCompany creates a tenant with its first admin account in one
// transaction.
func (s *AuthService) RegisterCompany(ctx context.Context, name, subdomain, adminName, adminEmail, adminPassword string) (*model.Company, *model.Employee, error) {
	if _, err := s.companyRepo.FindBySubdomain(ctx, subdomain); err == nil {
		return nil, nil, ErrSubdomainTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("check subdomain: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	end := now.AddDate(1, 0, 0)
	company := &model.Company{
		Name:               name,
		Subdomain:          subdomain,
		SubscriptionStart:  &now,
		SubscriptionEnd:    &end,
		SubscriptionStatus: model.SubscriptionActive,
	}
	admin := &model.Employee{
		Name:           adminName,
		Email:          adminEmail,
		HashedPassword: string(hashed),
		Role:           model.RoleAdmin,
		IsActive:       true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(company).Error; err != nil {
			return fmt.Errorf("create company: %w", err)
		}
		admin.CompanyID = company.ID
		if err := tx.Create(admin).Error; err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return company, admin, nil
}

// CreateEmployee adds a staff account to an existing tenant.
func (s *AuthService) CreateEmployee(ctx context.Context, companyID uuid.UUID, name, email, password string, role model.Role) (*model.Employee, error) {
	switch role {
	case model.RoleAdmin, model.RoleEmployee:
	default:
		return nil, fmt.Errorf("invalid role %q", role)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	employee := &model.Employee{
		CompanyID:      companyID,
		Name:           name,
		Email:          email,
		HashedPassword: string(hashed),
		Role:           role,
		IsActive:       true,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return employee, nil
}

// Login verifies credentials and issues access and refresh tokens. The
// access token carries the employee's company so every later request is
// tenant scoped.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, *model.Employee, error) {
	employee, err := s.employeeRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("lookup employee: %w", err)
	}
	if !employee.IsActive {
		return nil, nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(employee.HashedPassword), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	companyID := employee.CompanyID
	access, err := s.jwtManager.GenerateAccessToken(employee.ID, employee.Email, string(employee.Role), &companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(employee.ID, employee.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, employee, nil
}

// Refresh validates a refresh token and issues a fresh access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtManager.ValidateToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	employee, err := s.employeeRepo.FindByID(ctx, claims.UserID)
	if err != nil || !employee.IsActive {
		return nil, ErrInvalidCredentials
	}

	companyID := employee.CompanyID
	access, err := s.jwtManager.GenerateAccessToken(employee.ID, employee.Email, string(employee.Role), &companyID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refreshToken, TokenType: "bearer"}, nil
}
