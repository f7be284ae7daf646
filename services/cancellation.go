package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mike-rowan/fieldserve-api/models"
)

// Cancellation modes
const (
	CancelModeImmediate = "immediate"
	CancelModeRequest   = "request"
)

// CancelResult reports which branch the cancellation workflow took.
type CancelResult struct {
	Mode string `json:"mode"`
}

// CancelJob cancels a job, or requests cancellation when money is already
// committed. A job holding a positive deposit amount (strictly > 0, exact
// zero means no deposit) moves to cancellation_requested and waits for the
// contractor; a job with no deposit moves straight to cancelled. After the
// transition commits, side effects run best-effort and individually: a
// failure in one is logged and does not stop the others.
func CancelJob(db *gorm.DB, contractorID uint, jobID, reason, actor string) (*CancelResult, error) {
	var (
		result CancelResult
		job    models.Job
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contractor_id = ?", contractorID).First(&job, "id = ?", jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load job: %w", err)
		}

		now := time.Now()
		if job.DepositAmount > 0 {
			result.Mode = CancelModeRequest
			request := models.CancellationRequest{
				RequestedAt: &now,
				RequestedBy: actor,
				Reason:      reason,
				Status:      "pending",
			}
			if err := tx.Model(&job).Updates(map[string]interface{}{
				"cancel_req_requested_at": now,
				"cancel_req_requested_by": actor,
				"cancel_req_reason":       reason,
				"cancel_req_status":       "pending",
			}).Error; err != nil {
				return fmt.Errorf("failed to record cancellation request: %w", err)
			}
			job.CancellationRequest = &request
			return applyTransition(tx, &job, models.JobStatusCancellationRequested, TransitionMetadata{Actor: actor})
		}

		result.Mode = CancelModeImmediate
		if err := tx.Model(&job).Updates(map[string]interface{}{
			"cancel_cancelled_at": now,
			"cancel_cancelled_by": actor,
			"cancel_reason":       reason,
		}).Error; err != nil {
			return fmt.Errorf("failed to record cancellation: %w", err)
		}
		return applyTransition(tx, &job, models.JobStatusCancelled, TransitionMetadata{Actor: actor})
	})
	if err != nil {
		return nil, transactionError(err)
	}

	go runCancellationSideEffects(db, &job, result.Mode, reason)

	return &result, nil
}

// runCancellationSideEffects performs the post-commit cleanup for a
// cancellation. Each effect is independent: failures are logged and
// swallowed so one broken collaborator cannot block the rest.
func runCancellationSideEffects(db *gorm.DB, job *models.Job, mode, reason string) {
	if job.SourceQuoteID != nil {
		err := db.Model(&models.Quote{}).
			Where("id = ? AND status = ?", *job.SourceQuoteID, models.QuoteStatusAccepted).
			Update("status", models.QuoteStatusDeclined).Error
		if err != nil {
			logger.Warn("failed to update source quote after cancellation",
				zap.String("job_id", job.ID),
				zap.Uint("quote_id", *job.SourceQuoteID),
				zap.Error(err))
		}
	}

	if err := GetScheduleHoldService().ReleaseHold(job.ContractorID, job.ID); err != nil {
		logger.Warn("failed to release schedule hold",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}

	if err := db.Model(&models.Message{}).Where("job_id = ?", job.ID).Update("archived", true).Error; err != nil {
		logger.Warn("failed to archive job conversation",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}

	payload := map[string]interface{}{
		"job_id":     job.ID,
		"job_number": job.JobNumber,
		"mode":       mode,
		"reason":     reason,
	}
	if err := GetNotificationService().Notify(job.ContractorID, "job.cancellation", payload); err != nil {
		logger.Warn("cancellation notification failed",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}
}

// ApproveCancellation resolves a pending cancellation request by cancelling
// the job.
func ApproveCancellation(db *gorm.DB, contractorID uint, jobID, actor string) error {
	var job models.Job
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contractor_id = ?", contractorID).First(&job, "id = ?", jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load job: %w", err)
		}

		now := time.Now()
		reason := ""
		if job.CancellationRequest != nil {
			reason = job.CancellationRequest.Reason
		}
		if err := tx.Model(&job).Updates(map[string]interface{}{
			"cancel_req_status":   "approved",
			"cancel_cancelled_at": now,
			"cancel_cancelled_by": actor,
			"cancel_reason":       reason,
		}).Error; err != nil {
			return fmt.Errorf("failed to record approval: %w", err)
		}
		return applyTransition(tx, &job, models.JobStatusCancelled, TransitionMetadata{Actor: actor})
	})
	if err != nil {
		return transactionError(err)
	}

	go runCancellationSideEffects(db, &job, CancelModeImmediate, "cancellation approved")
	return nil
}

// DenyCancellation resolves a pending cancellation request by restoring the
// job to the status it held before the request, read from status history.
func DenyCancellation(db *gorm.DB, contractorID uint, jobID, actor string) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.Where("contractor_id = ?", contractorID).First(&job, "id = ?", jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load job: %w", err)
		}

		if job.Status != models.JobStatusCancellationRequested {
			return fmt.Errorf("%w: no pending cancellation request", ErrInvalidStateTransition)
		}

		// The event that entered cancellation_requested records the prior
		// status
		var event models.JobStatusEvent
		err := tx.Where("job_id = ? AND to_status = ?", jobID, models.JobStatusCancellationRequested).
			Order("id DESC").
			First(&event).Error
		if err != nil {
			return fmt.Errorf("failed to load status history: %w", err)
		}

		if err := tx.Model(&job).Update("cancel_req_status", "denied").Error; err != nil {
			return fmt.Errorf("failed to record denial: %w", err)
		}
		return applyTransition(tx, &job, event.FromStatus, TransitionMetadata{Actor: actor})
	})
	if err != nil {
		return transactionError(err)
	}
	return nil
}
