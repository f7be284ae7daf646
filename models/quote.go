package models

import (
	"time"

	"gorm.io/gorm"
)

// Quote statuses
const (
	QuoteStatusDraft    = "draft"
	QuoteStatusSent     = "sent"
	QuoteStatusViewed   = "viewed"
	QuoteStatusAccepted = "accepted"
	QuoteStatusDeclined = "declined"
	QuoteStatusExpired  = "expired"
)

// Deposit types
const (
	DepositTypePercentage = "percentage"
	DepositTypeFixed      = "fixed"
)

// Quote represents a priced proposal sent to a customer. A quote transitions
// to accepted at most once; ConvertedToJobID is never cleared once set.
type Quote struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	ContractorID uint   `gorm:"not null;index" json:"contractor_id"`
	QuoteNumber  string `gorm:"uniqueIndex;not null" json:"quote_number"`
	Status       string `gorm:"not null;default:'draft'" json:"status"`

	// Customer snapshot as entered on the quote
	CustomerID      string `json:"customer_id"` // optional known customer id
	CustomerName    string `gorm:"not null" json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`

	LineItems []QuoteLineItem `gorm:"foreignKey:QuoteID" json:"line_items"`

	Subtotal float64 `gorm:"not null;default:0" json:"subtotal"`
	Tax      float64 `gorm:"not null;default:0" json:"tax"`
	Total    float64 `gorm:"not null;default:0" json:"total"`

	DepositRequired bool    `gorm:"not null;default:false" json:"deposit_required"`
	DepositType     string  `json:"deposit_type"` // percentage or fixed
	DepositValue    float64 `json:"deposit_value"`

	ConvertedToJobID *string    `json:"converted_to_job_id"`
	SentAt           *time.Time `json:"sent_at"`
	ViewedAt         *time.Time `json:"viewed_at"`
	AcceptedAt       *time.Time `json:"accepted_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Quote model
func (Quote) TableName() string {
	return "quotes"
}

// QuoteLineItem is one priced line on a quote
type QuoteLineItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	QuoteID     uint    `gorm:"not null;index" json:"quote_id"`
	Description string  `gorm:"not null" json:"description"`
	Quantity    float64 `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   float64 `gorm:"not null;default:0" json:"unit_price"`
	Amount      float64 `gorm:"not null;default:0" json:"amount"`
}

// TableName specifies the table name for the QuoteLineItem model
func (QuoteLineItem) TableName() string {
	return "quote_line_items"
}
