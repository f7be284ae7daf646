package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mike-rowan/fieldserve-api/config"
	"github.com/mike-rowan/fieldserve-api/models"
	"github.com/mike-rowan/fieldserve-api/services"
)

// SkillRequest is one skill entry on a team member request
type SkillRequest struct {
	SkillID         string  `json:"skill_id" binding:"required"`
	Proficiency     string  `json:"proficiency" binding:"omitempty,oneof=beginner intermediate advanced expert"`
	YearsExperience float64 `json:"years_experience" binding:"omitempty,gte=0"`
}

// CertRequest is one certification entry on a team member request
type CertRequest struct {
	CertID    string     `json:"cert_id" binding:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
	Verified  bool       `json:"verified"`
}

// WorkingHourRequest is one weekday entry of the schedule template
type WorkingHourRequest struct {
	Weekday   int    `json:"weekday" binding:"gte=0,lte=6"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// CreateTeamMemberRequest represents the request body for adding a team member
type CreateTeamMemberRequest struct {
	Name         string               `json:"name" binding:"required"`
	Email        string               `json:"email" binding:"omitempty,email"`
	Phone        string               `json:"phone"`
	Role         string               `json:"role" binding:"omitempty,oneof=technician lead manager"`
	HourlyRate   float64              `json:"hourly_rate" binding:"omitempty,gte=0"`
	Skills       []SkillRequest       `json:"skills"`
	Certs        []CertRequest        `json:"certifications"`
	WorkingHours []WorkingHourRequest `json:"working_hours"`
}

// CreateTeamMember handles POST /api/v1/team - adds a team member
func CreateTeamMember(c *gin.Context) {
	contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	var req CreateTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	role := req.Role
	if role == "" {
		role = "technician"
	}

	member := models.TeamMember{
		ContractorID: contractor.ID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         role,
		IsActive:     true,
		HourlyRate:   req.HourlyRate,
	}
	for _, s := range req.Skills {
		proficiency := s.Proficiency
		if proficiency == "" {
			proficiency = models.ProficiencyBeginner
		}
		member.Skills = append(member.Skills, models.TeamMemberSkill{
			SkillID:         s.SkillID,
			Proficiency:     proficiency,
			YearsExperience: s.YearsExperience,
		})
	}
	for _, cert := range req.Certs {
		member.Certifications = append(member.Certifications, models.TeamMemberCert{
			CertID:    cert.CertID,
			ExpiresAt: cert.ExpiresAt,
			Verified:  cert.Verified,
		})
	}
	for _, wh := range req.WorkingHours {
		member.WorkingHours = append(member.WorkingHours, models.WorkingHour{
			Weekday:   wh.Weekday,
			Start:     wh.Start,
			End:       wh.End,
			Available: wh.Available,
		})
	}

	db := config.GetDB()
	if err := db.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create team member",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    member,
	})
}

// ListTeamMembers handles GET /api/v1/team - lists the contractor's team
func ListTeamMembers(c *gin.Context) {
	contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var team []models.TeamMember
	err := db.
		Preload("Skills").
		Preload("Certifications").
		Preload("WorkingHours").
		Preload("TimeOff").
		Where("contractor_id = ?", contractor.ID).
		Order("id").
		Find(&team).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load team",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    team,
	})
}

// AddTimeOffRequest represents the request body for recording time off
type AddTimeOffRequest struct {
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
	Reason    string    `json:"reason"`
	Approved  bool      `json:"approved"`
}

// AddTimeOff handles POST /api/v1/team/:id/time-off - records a time-off interval
func AddTimeOff(c *gin.Context) {
	contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	var req AddTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if req.EndDate.Before(req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "end_date must not be before start_date",
			},
		})
		return
	}

	db := config.GetDB()
	var member models.TeamMember
	if err := db.Where("contractor_id = ?", contractor.ID).First(&member, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Team member not found",
			},
		})
		return
	}

	timeOff := models.TimeOff{
		TeamMemberID: member.ID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Reason:       req.Reason,
		Approved:     req.Approved,
	}
	if err := db.Create(&timeOff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to record time off",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    timeOff,
	})
}

// AvailabilityRequest represents the request body for an availability check
type AvailabilityRequest struct {
	Date      time.Time `json:"date" binding:"required"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
}

// CheckTechnicianAvailability handles POST /api/v1/team/:id/availability -
// checks whether a team member can take work on a date/time
func CheckTechnicianAvailability(c *gin.Context) {
	contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var member models.TeamMember
	err := db.
		Preload("WorkingHours").
		Preload("TimeOff").
		Where("contractor_id = ?", contractor.ID).
		First(&member, c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Team member not found",
			},
		})
		return
	}

	result := services.CheckAvailability(&member, req.Date, req.StartTime, req.EndTime)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
