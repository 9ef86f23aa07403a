package models

import (
	"time"
)

// Plan is a static catalog row. Prices are in the currency's minor unit
// (paise for INR). The catalog is seeded at migration time and is not
// user-mutable.
type Plan struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Price       int       `json:"price"`
	Currency    string    `json:"currency" gorm:"type:varchar(5);default:'INR'"`
	UploadLimit int       `json:"uploadLimit" gorm:"column:upload_limit"`
	Features    string    `json:"features"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Plan) TableName() string {
	return "plans"
}

// FreePlanName is the fallback tier for users with no entitlement.
const FreePlanName = "free"

// PlanCatalog returns the seed rows for the plans table.
func PlanCatalog() []Plan {
	return []Plan{
		{Name: "free", Price: 0, Currency: "INR", UploadLimit: 10, Features: "uploads"},
		{Name: "basic", Price: 10000, Currency: "INR", UploadLimit: 100, Features: "uploads,albums"},
		{Name: "premium", Price: 50000, Currency: "INR", UploadLimit: 500, Features: "uploads,albums,video"},
		{Name: "enterprise", Price: 100000, Currency: "INR", UploadLimit: 5000, Features: "uploads,albums,video,priority"},
	}
}
