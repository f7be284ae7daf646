package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mike-rowan/fieldserve-api/config"
	"github.com/mike-rowan/fieldserve-api/models"
)

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	SenderID uint   `json:"sender_id" binding:"required"`
	Text     string `json:"text" binding:"required"`
}

// SendMessage handles POST /api/v1/jobs/:id/messages - posts a message on a
// job conversation
func SendMessage(c *gin.Context) {
	contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	var req SendMessageRequest
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
	var job models.Job
	if err := db.Where("contractor_id = ?", contractor.ID).First(&job, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Job not found",
			},
		})
		return
	}

	// No new messages on a cancelled job's archived conversation
	if job.Status == models.JobStatusCancelled {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONVERSATION_ARCHIVED",
				"message": "Cannot post to a cancelled job's conversation",
			},
		})
		return
	}

	var sender models.TeamMember
	if err := db.Where("contractor_id = ?", contractor.ID).First(&sender, req.SenderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Sender not found on this team",
			},
		})
		return
	}

	message := models.Message{
		JobID:    job.ID,
		SenderID: sender.ID,
		Text:     req.Text,
	}
	if err := db.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to send message",
			},
		})
		return
	}

	if err := db.Preload("Sender").First(&message, message.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load message details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    message,
	})
}

// GetMessages handles GET /api/v1/jobs/:id/messages - lists a job's
// conversation, oldest first
func GetMessages(c *gin.Context) {
	contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var job models.Job
	if err := db.Where("contractor_id = ?", contractor.ID).First(&job, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Job not found",
			},
		})
		return
	}

	var messages []models.Message
	err := db.
		Preload("Sender").
		Where("job_id = ?", job.ID).
		Order("created_at").
		Find(&messages).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load messages",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}
