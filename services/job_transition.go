package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mike-rowan/fieldserve-api/models"
)

// TransitionMetadata carries optional fields recorded alongside a status
// change.
type TransitionMetadata struct {
	Actor         string
	ScheduledDate *time.Time // set when moving to scheduled
	ScheduledTime string     // "HH:MM"
}

// TransitionJobStatus moves a job to newStatus, enforcing the state machine.
// The re-read, the edge validation, the status write and the status-event row
// all happen inside one transaction, so a concurrent transition cannot
// observe or produce a half-applied change. Illegal edges, including any edge
// out of completed or cancelled, return ErrInvalidStateTransition.
func TransitionJobStatus(db *gorm.DB, contractorID uint, jobID string, newStatus models.JobStatus, meta TransitionMetadata) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.Where("contractor_id = ?", contractorID).First(&job, "id = ?", jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load job: %w", err)
		}

		return applyTransition(tx, &job, newStatus, meta)
	})
	if err != nil {
		return transactionError(err)
	}
	return nil
}

// applyTransition validates and applies one status change on an already
// loaded job. Callers must run it inside a transaction.
func applyTransition(tx *gorm.DB, job *models.Job, newStatus models.JobStatus, meta TransitionMetadata) error {
	if !models.CanTransition(job.Status, newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, job.Status, newStatus)
	}

	actor := meta.Actor
	if actor == "" {
		actor = "system"
	}

	event := models.JobStatusEvent{
		JobID:      job.ID,
		FromStatus: job.Status,
		ToStatus:   newStatus,
		Actor:      actor, // timestamp is server-assigned via CreatedAt
	}

	updates := map[string]interface{}{"status": newStatus}
	if meta.ScheduledDate != nil {
		updates["scheduled_date"] = meta.ScheduledDate
	}
	if meta.ScheduledTime != "" {
		updates["scheduled_time"] = meta.ScheduledTime
	}

	if err := tx.Model(job).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if err := tx.Create(&event).Error; err != nil {
		return fmt.Errorf("failed to record status event: %w", err)
	}

	logger.Info("job status transition",
		zap.String("job_id", job.ID),
		zap.String("from", string(event.FromStatus)),
		zap.String("to", string(newStatus)),
		zap.String("actor", actor))

	job.Status = newStatus
	return nil
}

// transactionError keeps the dispatch error taxonomy intact: core errors pass
// through, anything else from the store surfaces as ErrTransactionFailed.
func transactionError(err error) error {
	if errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrQuoteAlreadyAccepted) ||
		errors.Is(err, ErrInvalidStateTransition) ||
		errors.Is(err, ErrIneligibleAssignment) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
}
