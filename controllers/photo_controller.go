package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mike-rowan/fieldserve-api/config"
	"github.com/mike-rowan/fieldserve-api/models"
	"github.com/mike-rowan/fieldserve-api/services"
	"github.com/mike-rowan/fieldserve-api/utils"
)

// UploadJobPhoto handles POST /api/v1/jobs/:id/photos - uploads a job-site
// photo
func UploadJobPhoto(c *gin.Context) {
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

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "A photo file is required",
			},
		})
		return
	}

	s3Key, err := services.GetPhotoService().UploadPhoto(job.ID, fileHeader)
	if err != nil {
		if errors.Is(err, services.ErrPhotoUploadsDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PHOTOS_DISABLED",
					"message": "Photo uploads are not configured for this server",
				},
			})
			return
		}
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to upload photo",
			},
		})
		return
	}

	photo := models.JobPhoto{
		JobID: job.ID,
		S3Key: s3Key,
	}
	if err := db.Create(&photo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save photo record",
			},
		})
		return
	}

	if url, err := services.GetPhotoService().GetPhotoURL(s3Key); err == nil {
		photo.PhotoURL = url
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    photo,
	})
}

// ListJobPhotos handles GET /api/v1/jobs/:id/photos - lists a job's photos
// with presigned URLs
func ListJobPhotos(c *gin.Context) {
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

	var photos []models.JobPhoto
	if err := db.Where("job_id = ?", job.ID).Order("id").Find(&photos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load photos",
			},
		})
		return
	}

	for i := range photos {
		if url, err := services.GetPhotoService().GetPhotoURL(photos[i].S3Key); err == nil {
			photos[i].PhotoURL = url
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    photos,
	})
}
