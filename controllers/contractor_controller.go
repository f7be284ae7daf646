package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mike-rowan/fieldserve-api/config"
	"github.com/mike-rowan/fieldserve-api/middleware"
	"github.com/mike-rowan/fieldserve-api/models"
	"github.com/mike-rowan/fieldserve-api/services"
)

// CreateContractorRequest represents the request body for account signup
type CreateContractorRequest struct {
	BusinessName string `json:"business_name" binding:"required"`
	Phone        string `json:"phone"`
	WebhookURL   string `json:"webhook_url" binding:"omitempty,url"`
}

// CreateContractor handles POST /api/v1/contractors - creates a contractor
// account from the authenticated Auth0 identity
func CreateContractor(c *gin.Context) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user ID from token",
			},
		})
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_TOKEN",
				"message": "Access token not found",
			},
		})
		return
	}

	var req CreateContractorRequest
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

	// The account email comes from Auth0, not the request body
	cfg := config.GetConfig()
	auth0Service := services.NewAuth0Service(cfg)
	userInfo, err := auth0Service.GetUserInfo(accessToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH0_ERROR",
				"message": "Failed to fetch user information from Auth0",
			},
		})
		return
	}

	if userInfo.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_EMAIL",
				"message": "Email not provided by Auth0",
			},
		})
		return
	}

	contractor := models.Contractor{
		Auth0ID:      auth0ID,
		BusinessName: req.BusinessName,
		Email:        userInfo.Email,
		Phone:        req.Phone,
		WebhookURL:   req.WebhookURL,
	}

	db := config.GetDB()
	if err := db.Create(&contractor).Error; err != nil {
		// Works with both PostgreSQL and SQLite
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CONTRACTOR_EXISTS",
					"message": "An account with this Auth0 ID or email already exists",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create contractor account",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    contractor,
	})
}

// GetMyAccount handles GET /api/v1/contractors/me - returns the current
// contractor account with its rolling aggregates
func GetMyAccount(c *gin.Context) {
	contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    contractor,
	})
}
