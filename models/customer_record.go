package models

import "time"

// CustomerRecord aggregates a customer's history with one contractor. The
// primary key is derived from the quote's customer identity (known customer
// id, else normalized email, else a synthetic uuid) so repeat acceptances
// update one row instead of creating duplicates.
type CustomerRecord struct {
	ID           string `gorm:"primaryKey" json:"id"`
	ContractorID uint   `gorm:"not null;index" json:"contractor_id"`
	Name         string `gorm:"not null" json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`

	TotalJobs  int     `gorm:"not null;default:0" json:"total_jobs"`
	TotalSpend float64 `gorm:"not null;default:0" json:"total_spend"`

	FirstContact time.Time `json:"first_contact"`
	LastContact  time.Time `json:"last_contact"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the CustomerRecord model
func (CustomerRecord) TableName() string {
	return "customer_records"
}
