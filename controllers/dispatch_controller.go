package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mike-rowan/fieldserve-api/config"
	"github.com/mike-rowan/fieldserve-api/services"
)

// EligibleTechniciansRequest represents the job requirements to match
// technicians against
type EligibleTechniciansRequest struct {
	Date                   time.Time `json:"date" binding:"required"`
	StartTime              string    `json:"start_time"`
	EndTime                string    `json:"end_time"`
	RequiredSkills         []string  `json:"required_skills"`
	RequiredCertifications []string  `json:"required_certifications"`
}

// FindEligibleTechnicians handles POST /api/v1/dispatch/eligible - returns
// the technicians who can take a job, best match first
func FindEligibleTechnicians(c *gin.Context) {
	contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	var req EligibleTechniciansRequest
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

	matches, err := services.FindEligibleTechnicians(config.GetDB(), contractor.ID, services.JobRequirements{
		Date:                   req.Date,
		StartTime:              req.StartTime,
		EndTime:                req.EndTime,
		RequiredSkills:         req.RequiredSkills,
		RequiredCertifications: req.RequiredCertifications,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to evaluate technicians",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    matches,
	})
}
