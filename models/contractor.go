package models

import (
	"time"

	"gorm.io/gorm"
)

// Contractor represents a contractor account that owns team members, quotes,
// jobs and customer records
type Contractor struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Auth0ID      string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	BusinessName string         `gorm:"not null" json:"business_name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string         `json:"phone"`
	WebhookURL   string         `json:"webhook_url"` // destination for dispatch notifications

	// Rolling aggregates bumped inside the quote-acceptance transaction
	AcceptedQuotes int     `gorm:"not null;default:0" json:"accepted_quotes"`
	TotalJobValue  float64 `gorm:"not null;default:0" json:"total_job_value"`
	ActiveJobs     int     `gorm:"not null;default:0" json:"active_jobs"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Contractor model
func (Contractor) TableName() string {
	return "contractors"
}
