package models

import (
	"time"

	"gorm.io/gorm"
)

// Message represents a message in a job conversation. Conversations are
// archived (not deleted) when the job is cancelled.
type Message struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	JobID     string         `gorm:"not null;index" json:"job_id"`
	Job       Job            `gorm:"foreignKey:JobID" json:"-"` // don't include full job in JSON
	SenderID  uint           `gorm:"not null;index" json:"sender_id"`
	Sender    TeamMember     `gorm:"foreignKey:SenderID" json:"sender"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	Archived  bool           `gorm:"not null;default:false" json:"archived"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
