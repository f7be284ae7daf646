package models

import (
	"time"

	"gorm.io/gorm"
)

// Proficiency levels for a team member skill, ordered weakest to strongest
const (
	ProficiencyBeginner     = "beginner"
	ProficiencyIntermediate = "intermediate"
	ProficiencyAdvanced     = "advanced"
	ProficiencyExpert       = "expert"
)

// TeamMember represents a technician, lead or manager on a contractor's team
type TeamMember struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	ContractorID uint    `gorm:"not null;index" json:"contractor_id"`
	Name         string  `gorm:"not null" json:"name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Role         string  `gorm:"not null;default:'technician'" json:"role"` // technician, lead, manager
	IsActive     bool    `gorm:"not null;default:true" json:"is_active"`
	HourlyRate   float64 `json:"hourly_rate"`

	// Rolling performance stats, maintained externally from completed-job
	// history. This service only reads them for match scoring.
	FirstTimeFixRate float64 `json:"first_time_fix_rate"`
	OnTimeRate       float64 `json:"on_time_rate"`
	AverageRating    float64 `json:"average_rating"`

	Skills         []TeamMemberSkill `gorm:"foreignKey:TeamMemberID" json:"skills"`
	Certifications []TeamMemberCert  `gorm:"foreignKey:TeamMemberID" json:"certifications"`
	WorkingHours   []WorkingHour     `gorm:"foreignKey:TeamMemberID" json:"working_hours"`
	TimeOff        []TimeOff         `gorm:"foreignKey:TeamMemberID" json:"time_off"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the TeamMember model
func (TeamMember) TableName() string {
	return "team_members"
}

// TeamMemberSkill records one skill a team member holds
type TeamMemberSkill struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	TeamMemberID    uint    `gorm:"not null;index" json:"team_member_id"`
	SkillID         string  `gorm:"not null" json:"skill_id"` // e.g. "hvac_repair"
	Proficiency     string  `gorm:"not null;default:'beginner'" json:"proficiency"`
	YearsExperience float64 `json:"years_experience"`
}

// TableName specifies the table name for the TeamMemberSkill model
func (TeamMemberSkill) TableName() string {
	return "team_member_skills"
}

// TeamMemberCert records one certification a team member holds
type TeamMemberCert struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	TeamMemberID uint       `gorm:"not null;index" json:"team_member_id"`
	CertID       string     `gorm:"not null" json:"cert_id"` // e.g. "epa_608"
	ExpiresAt    *time.Time `json:"expires_at"`              // nil means the certification never expires
	Verified     bool       `gorm:"not null;default:false" json:"verified"`
}

// TableName specifies the table name for the TeamMemberCert model
func (TeamMemberCert) TableName() string {
	return "team_member_certs"
}

// WorkingHour is one weekday entry of a team member's recurring schedule
// template. Weekday follows time.Weekday (0 = Sunday).
type WorkingHour struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	TeamMemberID uint   `gorm:"not null;index" json:"team_member_id"`
	Weekday      int    `gorm:"not null" json:"weekday"`
	Start        string `json:"start"` // "HH:MM", 24h
	End          string `json:"end"`   // "HH:MM", 24h
	Available    bool   `gorm:"not null;default:true" json:"available"`
}

// TableName specifies the table name for the WorkingHour model
func (WorkingHour) TableName() string {
	return "working_hours"
}

// TimeOff is an approved or pending time-off interval, dates inclusive
type TimeOff struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TeamMemberID uint      `gorm:"not null;index" json:"team_member_id"`
	StartDate    time.Time `gorm:"not null" json:"start_date"`
	EndDate      time.Time `gorm:"not null" json:"end_date"`
	Reason       string    `json:"reason"`
	Approved     bool      `gorm:"not null;default:false" json:"approved"`
}

// TableName specifies the table name for the TimeOff model
func (TimeOff) TableName() string {
	return "time_off"
}
