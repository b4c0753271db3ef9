package model

import "time"

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionSuspended SubscriptionStatus = "suspended"
)

// Company is a tenant. All knowledge chunks and proposal artifacts are
// scoped to exactly one company.
type Company struct {
	BaseModel
	Name               string             `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Subdomain          string             `gorm:"size:100;uniqueIndex" json:"subdomain"`
	SubscriptionStart  *time.Time         `json:"subscription_start,omitempty"`
	SubscriptionEnd    *time.Time         `json:"subscription_end,omitempty"`
	SubscriptionStatus SubscriptionStatus `gorm:"size:20;default:active" json:"subscription_status"`
}

func (Company) TableName() string {
	return "companies"
}
