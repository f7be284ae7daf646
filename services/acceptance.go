package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mike-rowan/fieldserve-api/models"
)

// AcceptanceResult is returned by a successful quote acceptance.
type AcceptanceResult struct {
	JobID      string `json:"job_id"`
	JobNumber  string `json:"job_number"`
	CustomerID string `json:"customer_id"`
}

// AcceptQuote converts an accepted quote into a job, exactly once. The job,
// the quote's new status, the customer record upsert and the contractor
// aggregates commit in a single transaction; a second acceptance of the same
// quote fails with ErrQuoteAlreadyAccepted and creates nothing. A best-effort
// notification to the contractor is dispatched after commit and never affects
// the result.
func AcceptQuote(db *gorm.DB, contractorID uint, quoteID uint, customerMessage string) (*AcceptanceResult, error) {
	var result AcceptanceResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var quote models.Quote
		err := tx.Preload("LineItems").
			Where("contractor_id = ?", contractorID).
			First(&quote, quoteID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load quote: %w", err)
		}

		jobID := uuid.NewString()
		jobNumber := generateJobNumber(quote.QuoteNumber)
		now := time.Now()

		// Idempotency gate: a conditional update inside the transaction, so
		// two concurrent acceptances cannot both pass. Zero rows affected
		// means someone else accepted first (or this is a retry).
		gate := tx.Model(&models.Quote{}).
			Where("id = ? AND status <> ?", quote.ID, models.QuoteStatusAccepted).
			Updates(map[string]interface{}{
				"status":              models.QuoteStatusAccepted,
				"accepted_at":         now,
				"converted_to_job_id": jobID,
			})
		if gate.Error != nil {
			return fmt.Errorf("failed to mark quote accepted: %w", gate.Error)
		}
		if gate.RowsAffected == 0 {
			return ErrQuoteAlreadyAccepted
		}

		customerID := deriveCustomerID(&quote)

		// The job is a deep copy of what the customer agreed to: line items,
		// totals and deposit are snapshots, never recomputed afterwards.
		job := models.Job{
			ID:               jobID,
			ContractorID:     contractorID,
			JobNumber:        jobNumber,
			Status:           models.JobStatusPendingSchedule,
			CustomerRecordID: customerID,
			CustomerName:     quote.CustomerName,
			CustomerEmail:    quote.CustomerEmail,
			CustomerPhone:    quote.CustomerPhone,
			CustomerAddress:  quote.CustomerAddress,
			Subtotal:         quote.Subtotal,
			Tax:              quote.Tax,
			Total:            quote.Total,
			DepositRequired:  quote.DepositRequired,
			DepositType:      quote.DepositType,
			DepositValue:     quote.DepositValue,
			DepositAmount:    computeDepositAmount(&quote),
			SourceQuoteID:    &quote.ID,
		}
		for _, item := range quote.LineItems {
			job.LineItems = append(job.LineItems, models.JobLineItem{
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Amount:      item.Amount,
			})
		}
		if err := tx.Create(&job).Error; err != nil {
			return fmt.Errorf("failed to create job: %w", err)
		}

		event := models.JobStatusEvent{
			JobID:    jobID,
			ToStatus: models.JobStatusPendingSchedule,
			Actor:    "customer",
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to record initial status: %w", err)
		}

		if err := upsertCustomerRecord(tx, contractorID, customerID, &quote, now); err != nil {
			return err
		}

		counters := map[string]interface{}{
			"accepted_quotes": gorm.Expr("accepted_quotes + 1"),
			"total_job_value": gorm.Expr("total_job_value + ?", quote.Total),
			"active_jobs":     gorm.Expr("active_jobs + 1"),
		}
		if err := tx.Model(&models.Contractor{}).Where("id = ?", contractorID).Updates(counters).Error; err != nil {
			return fmt.Errorf("failed to update contractor aggregates: %w", err)
		}

		result = AcceptanceResult{JobID: jobID, JobNumber: jobNumber, CustomerID: customerID}
		return nil
	})
	if err != nil {
		return nil, transactionError(err)
	}

	// Fire-and-forget: the acceptance already committed, a failed
	// notification is logged and swallowed.
	go func() {
		payload := map[string]interface{}{
			"job_id":     result.JobID,
			"job_number": result.JobNumber,
			"quote_id":   quoteID,
		}
		if customerMessage != "" {
			payload["customer_message"] = customerMessage
		}
		if err := GetNotificationService().Notify(contractorID, "quote.accepted", payload); err != nil {
			logger.Warn("quote acceptance notification failed",
				zap.Uint("contractor_id", contractorID),
				zap.String("job_id", result.JobID),
				zap.Error(err))
		}
	}()

	return &result, nil
}

// computeDepositAmount derives the deposit owed from the quote's deposit
// configuration. Computed once at acceptance; the job stores the result.
func computeDepositAmount(quote *models.Quote) float64 {
	if !quote.DepositRequired {
		return 0
	}
	switch quote.DepositType {
	case models.DepositTypePercentage:
		return quote.Total * quote.DepositValue / 100
	case models.DepositTypeFixed:
		return quote.DepositValue
	}
	return 0
}

// deriveCustomerID keys the customer record: explicit customer id when known,
// else the normalized email, else a synthetic id. Repeat customers therefore
// aggregate onto one record.
func deriveCustomerID(quote *models.Quote) string {
	if quote.CustomerID != "" {
		return quote.CustomerID
	}
	if quote.CustomerEmail != "" {
		return strings.ToLower(strings.TrimSpace(quote.CustomerEmail))
	}
	return uuid.NewString()
}

func upsertCustomerRecord(tx *gorm.DB, contractorID uint, customerID string, quote *models.Quote, now time.Time) error {
	var record models.CustomerRecord
	err := tx.Where("contractor_id = ?", contractorID).First(&record, "id = ?", customerID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		record = models.CustomerRecord{
			ID:           customerID,
			ContractorID: contractorID,
			Name:         quote.CustomerName,
			Email:        quote.CustomerEmail,
			Phone:        quote.CustomerPhone,
			Address:      quote.CustomerAddress,
			TotalJobs:    1,
			TotalSpend:   quote.Total,
			FirstContact: now,
			LastContact:  now,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create customer record: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("failed to load customer record: %w", err)
	}

	updates := map[string]interface{}{
		"total_jobs":   gorm.Expr("total_jobs + 1"),
		"total_spend":  gorm.Expr("total_spend + ?", quote.Total),
		"last_contact": now,
	}
	if err := tx.Model(&record).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update customer record: %w", err)
	}
	return nil
}

// generateJobNumber derives a human-readable job number from the quote
// number, falling back to a date-based format.
func generateJobNumber(quoteNumber string) string {
	if strings.HasPrefix(quoteNumber, "Q-") {
		return "J-" + strings.TrimPrefix(quoteNumber, "Q-")
	}
	return fmt.Sprintf("J-%s-%s", time.Now().Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}
