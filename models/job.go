package models

import (
	"time"

	"gorm.io/gorm"
)

// Job represents a scheduled unit of contracted work. Jobs are created
// exclusively by the quote-acceptance transaction and are never hard-deleted;
// cancellation is a status, not a deletion. Financial totals and the deposit
// amount are snapshots taken at acceptance time and never recomputed, so the
// job always reflects what the customer agreed to.
type Job struct {
	ID           string    `gorm:"primaryKey" json:"id"` // uuid
	ContractorID uint      `gorm:"not null;index" json:"contractor_id"`
	JobNumber    string    `gorm:"uniqueIndex;not null" json:"job_number"`
	Status       JobStatus `gorm:"not null;default:'pending_schedule'" json:"status"`

	// Customer snapshot copied from the source quote
	CustomerRecordID string `gorm:"index" json:"customer_record_id"`
	CustomerName     string `gorm:"not null" json:"customer_name"`
	CustomerEmail    string `json:"customer_email"`
	CustomerPhone    string `json:"customer_phone"`
	CustomerAddress  string `json:"customer_address"`

	LineItems []JobLineItem `gorm:"foreignKey:JobID" json:"line_items"`

	Subtotal float64 `gorm:"not null;default:0" json:"subtotal"`
	Tax      float64 `gorm:"not null;default:0" json:"tax"`
	Total    float64 `gorm:"not null;default:0" json:"total"`

	DepositRequired bool    `gorm:"not null;default:false" json:"deposit_required"`
	DepositType     string  `json:"deposit_type"`
	DepositValue    float64 `json:"deposit_value"`
	DepositAmount   float64 `gorm:"not null;default:0" json:"deposit_amount"` // computed once at acceptance

	SourceQuoteID *uint `gorm:"index" json:"source_quote_id"`

	ScheduledDate  *time.Time  `json:"scheduled_date"`
	ScheduledTime  string      `json:"scheduled_time"` // "HH:MM", 24h
	AssignedTechID *uint       `gorm:"index" json:"assigned_tech_id"`
	AssignedTech   *TeamMember `gorm:"foreignKey:AssignedTechID" json:"assigned_tech,omitempty"`

	CancellationRequest *CancellationRequest `gorm:"embedded;embeddedPrefix:cancel_req_" json:"cancellation_request,omitempty"`
	Cancellation        *Cancellation        `gorm:"embedded;embeddedPrefix:cancel_" json:"cancellation,omitempty"`

	StatusHistory []JobStatusEvent `gorm:"foreignKey:JobID" json:"status_history,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Job model
func (Job) TableName() string {
	return "jobs"
}

// CancellationRequest is embedded on a job while a deposit-backed
// cancellation awaits contractor approval
type CancellationRequest struct {
	RequestedAt *time.Time `json:"requested_at"`
	RequestedBy string     `json:"requested_by"`
	Reason      string     `json:"reason"`
	Status      string     `json:"status"` // pending, approved, denied
}

// Cancellation is embedded on a job once it reaches the cancelled status
type Cancellation struct {
	CancelledAt *time.Time `json:"cancelled_at"`
	CancelledBy string     `json:"cancelled_by"`
	Reason      string     `json:"reason"`
}

// JobLineItem is one priced line on a job, deep-copied from the source quote
type JobLineItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	JobID       string  `gorm:"not null;index" json:"job_id"`
	Description string  `gorm:"not null" json:"description"`
	Quantity    float64 `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   float64 `gorm:"not null;default:0" json:"unit_price"`
	Amount      float64 `gorm:"not null;default:0" json:"amount"`
}

// TableName specifies the table name for the JobLineItem model
func (JobLineItem) TableName() string {
	return "job_line_items"
}

// JobStatusEvent records one status transition: who triggered it and when.
// Rows are appended inside the same transaction as the status write.
type JobStatusEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	JobID      string    `gorm:"not null;index" json:"job_id"`
	FromStatus JobStatus `json:"from_status"`
	ToStatus   JobStatus `gorm:"not null" json:"to_status"`
	Actor      string    `gorm:"not null" json:"actor"`
	CreatedAt  time.Time `json:"created_at"` // server-assigned
}

// TableName specifies the table name for the JobStatusEvent model
func (JobStatusEvent) TableName() string {
	return "job_status_events"
}

// JobPhoto links an S3 object to a job
type JobPhoto struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	JobID      string    `gorm:"not null;index" json:"job_id"`
	S3Key      string    `gorm:"not null" json:"s3_key"`
	PhotoURL   string    `gorm:"-" json:"photo_url,omitempty"` // computed, presigned
	UploadedBy uint      `json:"uploaded_by"`                  // team member id
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the JobPhoto model
func (JobPhoto) TableName() string {
	return "job_photos"
}
