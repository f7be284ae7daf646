package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mike-rowan/fieldserve-api/config"
	"github.com/mike-rowan/fieldserve-api/middleware"
	"github.com/mike-rowan/fieldserve-api/models"
)

// currentContractor resolves the contractor account for the authenticated
// request. On failure it writes the error response and returns false.
func currentContractor(c *gin.Context) (*models.Contractor, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var contractor models.Contractor
	if err := db.Where("auth0_id = ?", auth0ID).First(&contractor).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONTRACTOR_NOT_FOUND",
				"message": "Contractor account not found. Please create an account first.",
			},
		})
		return nil, false
	}

	return &contractor, true
}
