package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mike-rowan/fieldserve-api/config"
	"github.com/mike-rowan/fieldserve-api/models"
	"github.com/mike-rowan/fieldserve-api/services"
)

// QuoteLineItemRequest is one priced line on a quote request
type QuoteLineItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" binding:"gte=0"`
}

// CreateQuoteRequest represents the request body for creating a quote
type CreateQuoteRequest struct {
	CustomerID      string                 `json:"customer_id"`
	CustomerName    string                 `json:"customer_name" binding:"required"`
	CustomerEmail   string                 `json:"customer_email" binding:"omitempty,email"`
	CustomerPhone   string                 `json:"customer_phone"`
	CustomerAddress string                 `json:"customer_address"`
	LineItems       []QuoteLineItemRequest `json:"line_items" binding:"required,min=1,dive"`
	TaxRate         float64                `json:"tax_rate" binding:"gte=0"`
	DepositRequired bool                   `json:"deposit_required"`
	DepositType     string                 `json:"deposit_type" binding:"omitempty,oneof=percentage fixed"`
	DepositValue    float64                `json:"deposit_value" binding:"gte=0"`
}

// CreateQuote handles POST /api/v1/quotes - creates a draft quote
func CreateQuote(c *gin.Context) {
	contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	var req CreateQuoteRequest
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

	quote := models.Quote{
		ContractorID:    contractor.ID,
		QuoteNumber:     fmt.Sprintf("Q-%d", time.Now().UnixNano()),
		Status:          models.QuoteStatusDraft,
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		DepositRequired: req.DepositRequired,
		DepositType:     req.DepositType,
		DepositValue:    req.DepositValue,
	}
	for _, item := range req.LineItems {
		amount := item.Quantity * item.UnitPrice
		quote.LineItems = append(quote.LineItems, models.QuoteLineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      amount,
		})
		quote.Subtotal += amount
	}
	quote.Tax = quote.Subtotal * req.TaxRate
	quote.Total = quote.Subtotal + quote.Tax

	db := config.GetDB()
	if err := db.Create(&quote).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create quote",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    quote,
	})
}

// SendQuote handles POST /api/v1/quotes/:id/send - marks a draft quote sent
func SendQuote(c *gin.Context) {
	contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var quote models.Quote
	if err := db.Where("contractor_id = ?", contractor.ID).First(&quote, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Quote not found",
			},
		})
		return
	}

	if quote.Status != models.QuoteStatusDraft {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_QUOTE_STATUS",
				"message": "Only draft quotes can be sent",
			},
		})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{"status": models.QuoteStatusSent, "sent_at": now}
	if err := db.Model(&quote).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to send quote",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// AcceptQuoteRequest represents the optional request body for accepting a quote
type AcceptQuoteRequest struct {
	CustomerMessage string `json:"customer_message"`
}

// AcceptQuote handles POST /api/v1/quotes/:id/accept - atomically converts a
// quote into a job
func AcceptQuote(c *gin.Context) {
	contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	// Body is optional
	var req AcceptQuoteRequest
	_ = c.ShouldBindJSON(&req)

	var quoteID uint
	if _, err := fmt.Sscanf(c.Param("id"), "%d", &quoteID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Quote ID must be numeric",
			},
		})
		return
	}

	result, err := services.AcceptQuote(config.GetDB(), contractor.ID, quoteID, req.CustomerMessage)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Quote not found",
				},
			})
		case errors.Is(err, services.ErrQuoteAlreadyAccepted):
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "QUOTE_ALREADY_ACCEPTED",
					"message": "This quote has already been accepted",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "TRANSACTION_FAILED",
					"message": "Failed to accept quote",
				},
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result,
	})
}
