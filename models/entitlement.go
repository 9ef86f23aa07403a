package models

import (
	"time"
)

// Entitlement ties a user to the plan they purchased, with provenance to the
// order that paid for it. Exactly one entitlement per user is active at a
// time; granting a new one deactivates the old row instead of deleting it.
type Entitlement struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    string    `json:"userId" gorm:"column:user_id;type:uuid;not null;index"`
	PlanID    string    `json:"planId" gorm:"column:plan_id;type:uuid;not null"`
	OrderID   string    `json:"orderId" gorm:"column:order_id;type:uuid"`
	Active    bool      `json:"active" gorm:"default:true"`
	GrantedAt time.Time `json:"grantedAt" gorm:"column:granted_at"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Entitlement) TableName() string {
	return "entitlements"
}
