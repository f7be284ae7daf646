package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mike-rowan/fieldserve-api/models"
)

// AssignTechnician assigns a technician to a job and transitions it from
// pending_schedule to scheduled. Eligibility is re-validated here: earlier
// FindEligibleTechnicians results are advisory snapshots and the technician
// may have become unavailable since. Fails with ErrIneligibleAssignment when
// the technician no longer passes.
func AssignTechnician(db *gorm.DB, contractorID uint, jobID string, techID uint, date time.Time, startTime, endTime, actor string) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.Where("contractor_id = ?", contractorID).First(&job, "id = ?", jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load job: %w", err)
		}

		var tech models.TeamMember
		err := tx.Preload("Skills").
			Preload("Certifications").
			Preload("WorkingHours").
			Preload("TimeOff").
			Where("contractor_id = ?", contractorID).
			First(&tech, techID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load team member: %w", err)
		}

		availability := CheckAvailability(&tech, date, startTime, endTime)
		if !availability.Available {
			return fmt.Errorf("%w: %s", ErrIneligibleAssignment, availability.Reason)
		}

		if err := tx.Model(&job).Update("assigned_tech_id", techID).Error; err != nil {
			return fmt.Errorf("failed to assign technician: %w", err)
		}

		return applyTransition(tx, &job, models.JobStatusScheduled, TransitionMetadata{
			Actor:         actor,
			ScheduledDate: &date,
			ScheduledTime: startTime,
		})
	})
	if err != nil {
		return transactionError(err)
	}

	// Best-effort: hold the slot on the dispatch calendar. A miss here never
	// fails the assignment.
	if err := GetScheduleHoldService().PlaceHold(contractorID, jobID, date); err != nil {
		logger.Warn("failed to place schedule hold",
			zap.String("job_id", jobID),
			zap.Error(err))
	}

	return nil
}
