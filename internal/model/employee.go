package model

import "github.com/google/uuid"

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleEmployee   Role = "employee"
)

// Employee is a company staff member who gets RFPs assigned to them.
type Employee struct {
	BaseModel
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Email          string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	HashedPassword string    `gorm:"size:255;not null" json:"-"`
	Role           Role      `gorm:"size:30;default:employee" json:"role"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (Employee) TableName() string {
	return "employees"
}
