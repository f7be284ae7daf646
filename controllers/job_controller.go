package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mike-rowan/fieldserve-api/config"
	"github.com/mike-rowan/fieldserve-api/middleware"
	"github.com/mike-rowan/fieldserve-api/models"
	"github.com/mike-rowan/fieldserve-api/services"
)

// GetJob handles GET /api/v1/jobs/:id - returns a job with its line items and
// status history
func GetJob(c *gin.Context) {
	contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var job models.Job
	err := db.
		Preload("LineItems").
		Preload("StatusHistory").
		Preload("AssignedTech").
		Where("contractor_id = ?", contractor.ID).
		First(&job, "id = ?", c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Job not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    job,
	})
}

// TransitionJobRequest represents the request body for a status change
type TransitionJobRequest struct {
	Status        string     `json:"status" binding:"required"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	ScheduledTime string     `json:"scheduled_time"`
}

// TransitionJobStatus handles PUT /api/v1/jobs/:id/status - moves a job
// through its lifecycle
func TransitionJobStatus(c *gin.Context) {
	contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	var req TransitionJobRequest
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

	newStatus, err := models.ParseJobStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": err.Error(),
			},
		})
		return
	}

	actor, _ := middleware.GetUserID(c)
	err = services.TransitionJobStatus(config.GetDB(), contractor.ID, c.Param("id"), newStatus, services.TransitionMetadata{
		Actor:         actor,
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
	})
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"status": newStatus},
	})
}

// AssignJobRequest represents the request body for assigning a technician
type AssignJobRequest struct {
	TechnicianID uint      `json:"technician_id" binding:"required"`
	Date         time.Time `json:"date" binding:"required"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
}

// AssignJob handles POST /api/v1/jobs/:id/assign - assigns a technician and
// schedules the job. Eligibility is re-validated here, not trusted from an
// earlier dispatch query.
func AssignJob(c *gin.Context) {
	contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	var req AssignJobRequest
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

	actor, _ := middleware.GetUserID(c)
	err := services.AssignTechnician(config.GetDB(), contractor.ID, c.Param("id"), req.TechnicianID, req.Date, req.StartTime, req.EndTime, actor)
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"status": models.JobStatusScheduled},
	})
}

// CancelJobRequest represents the request body for cancelling a job
type CancelJobRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelJob handles POST /api/v1/jobs/:id/cancel - cancels a job outright or
// files a cancellation request when a deposit is held
func CancelJob(c *gin.Context) {
	contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	var req CancelJobRequest
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

	actor, _ := middleware.GetUserID(c)
	result, err := services.CancelJob(config.GetDB(), contractor.ID, c.Param("id"), req.Reason, actor)
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// ApproveCancellation handles POST /api/v1/jobs/:id/cancellation/approve
func ApproveCancellation(c *gin.Context) {
	contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	actor, _ := middleware.GetUserID(c)
	if err := services.ApproveCancellation(config.GetDB(), contractor.ID, c.Param("id"), actor); err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"status": models.JobStatusCancelled},
	})
}

// DenyCancellation handles POST /api/v1/jobs/:id/cancellation/deny
func DenyCancellation(c *gin.Context) {
	contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	actor, _ := middleware.GetUserID(c)
	if err := services.DenyCancellation(config.GetDB(), contractor.ID, c.Param("id"), actor); err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// respondJobError maps dispatch service errors to the API error envelope
func respondJobError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Job not found",
			},
		})
	case errors.Is(err, services.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATE_TRANSITION",
				"message": err.Error(),
			},
		})
	case errors.Is(err, services.ErrIneligibleAssignment):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INELIGIBLE_ASSIGNMENT",
				"message": err.Error(),
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TRANSACTION_FAILED",
				"message": "Operation failed",
			},
		})
	}
}
