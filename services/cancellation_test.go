package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mike-rowan/fieldserve-api/models"
)

func withDeposit(q *models.Quote) {
	q.DepositRequired = true
	q.DepositType = models.DepositTypePercentage
	q.DepositValue = 20
}

func TestCancelJobNoDepositCancelsImmediately(t *testing.T) {
	db := setupTestDB(t)
	contractor := createTestContractor(t, db)
	job := createTestJob(t, db, contractor.ID, nil)

	result, err := CancelJob(db, contractor.ID, job.ID, "customer moved", "auth0|owner")

	assert.NoError(t, err)
	assert.Equal(t, CancelModeImmediate, result.Mode)

	var updated models.Job
	assert.NoError(t, db.First(&updated, "id = ?", job.ID).Error)
	assert.Equal(t, models.JobStatusCancelled, updated.Status)
	assert.NotNil(t, updated.Cancellation)
	assert.Equal(t, "customer moved", updated.Cancellation.Reason)
	assert.Equal(t, "auth0|owner", updated.Cancellation.CancelledBy)
	if updated.CancellationRequest != nil {
		assert.Empty(t, updated.CancellationRequest.Status, "no cancellation request was filed")
	}
}

func TestCancelJobWithDepositRequestsCancellation(t *testing.T) {
	db := setupTestDB(t)
	contractor := createTestContractor(t, db)
	job := createTestJob(t, db, contractor.ID, withDeposit)

	result, err := CancelJob(db, contractor.ID, job.ID, "changed plans", "auth0|owner")

	assert.NoError(t, err)
	assert.Equal(t, CancelModeRequest, result.Mode)

	var updated models.Job
	assert.NoError(t, db.First(&updated, "id = ?", job.ID).Error)
	assert.Equal(t, models.JobStatusCancellationRequested, updated.Status)
	assert.NotNil(t, updated.CancellationRequest)
	assert.Equal(t, "pending", updated.CancellationRequest.Status)
	assert.Equal(t, "changed plans", updated.CancellationRequest.Reason)
	if updated.Cancellation != nil {
		assert.Empty(t, updated.Cancellation.CancelledBy, "job is not cancelled yet")
	}
}

func TestCancelJobSideEffects(t *testing.T) {
	db := setupTestDB(t)
	contractor := createTestContractor(t, db)

	mockNotifier := NewMockNotificationService()
	mockNotifier.SetAsMockForTesting()
	mockHolds := NewMockScheduleHoldService()
	mockHolds.SetAsMockForTesting()

	quote := createTestQuote(t, db, contractor.ID, nil)
	result, err := AcceptQuote(db, contractor.ID, quote.ID, "")
	assert.NoError(t, err)

	var job models.Job
	assert.NoError(t, db.First(&job, "id = ?", result.JobID).Error)

	// seed a hold and a conversation for the side effects to clean up
	assert.NoError(t, mockHolds.PlaceHold(contractor.ID, job.ID, time.Now()))
	member := models.TeamMember{ContractorID: contractor.ID, Name: "Alex Reed", Role: "technician", IsActive: true}
	assert.NoError(t, db.Create(&member).Error)
	msg := models.Message{JobID: job.ID, SenderID: member.ID, Text: "On my way"}
	assert.NoError(t, db.Create(&msg).Error)

	_, err = CancelJob(db, contractor.ID, job.ID, "no longer needed", "auth0|owner")
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		var updatedQuote models.Quote
		if db.First(&updatedQuote, quote.ID).Error != nil {
			return false
		}
		if updatedQuote.Status != models.QuoteStatusDeclined {
			return false
		}
		var updatedMsg models.Message
		if db.First(&updatedMsg, msg.ID).Error != nil || !updatedMsg.Archived {
			return false
		}
		if mockHolds.HasHold(contractor.ID, job.ID) {
			return false
		}
		return len(mockNotifier.Notifications()) == 2
	}, 2*time.Second, 10*time.Millisecond, "all cancellation side effects should run")

	var cancellationNote *MockNotification
	for _, n := range mockNotifier.Notifications() {
		if n.EventType == "job.cancellation" {
			n := n
			cancellationNote = &n
		}
	}
	if assert.NotNil(t, cancellationNote, "cancellation webhook should have fired") {
		assert.Equal(t, CancelModeImmediate, cancellationNote.Payload["mode"])
	}
}

func TestCancelJobSideEffectFailureDoesNotFailCancellation(t *testing.T) {
	db := setupTestDB(t)
	contractor := createTestContractor(t, db)

	mockNotifier := NewMockNotificationService()
	mockNotifier.SetAsMockForTesting()
	mockNotifier.FailWith(assert.AnError)
	mockHolds := NewMockScheduleHoldService()
	mockHolds.SetAsMockForTesting()
	mockHolds.FailWith(assert.AnError)

	job := createTestJob(t, db, contractor.ID, nil)

	result, err := CancelJob(db, contractor.ID, job.ID, "duplicate booking", "auth0|owner")

	assert.NoError(t, err)
	assert.Equal(t, CancelModeImmediate, result.Mode)

	var updated models.Job
	assert.NoError(t, db.First(&updated, "id = ?", job.ID).Error)
	assert.Equal(t, models.JobStatusCancelled, updated.Status)
}

func TestCancelJobNotFound(t *testing.T) {
	db := setupTestDB(t)
	contractor := createTestContractor(t, db)

	_, err := CancelJob(db, contractor.ID, "missing", "reason", "actor")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelJobAlreadyCancelled(t *testing.T) {
	db := setupTestDB(t)
	contractor := createTestContractor(t, db)
	job := createTestJob(t, db, contractor.ID, nil)

	_, err := CancelJob(db, contractor.ID, job.ID, "first", "actor")
	assert.NoError(t, err)

	_, err = CancelJob(db, contractor.ID, job.ID, "second", "actor")
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestApproveCancellation(t *testing.T) {
	db := setupTestDB(t)
	contractor := createTestContractor(t, db)
	job := createTestJob(t, db, contractor.ID, withDeposit)

	_, err := CancelJob(db, contractor.ID, job.ID, "schedule conflict", "auth0|customer")
	assert.NoError(t, err)

	err = ApproveCancellation(db, contractor.ID, job.ID, "auth0|owner")
	assert.NoError(t, err)

	var updated models.Job
	assert.NoError(t, db.First(&updated, "id = ?", job.ID).Error)
	assert.Equal(t, models.JobStatusCancelled, updated.Status)
	assert.NotNil(t, updated.CancellationRequest)
	assert.Equal(t, "approved", updated.CancellationRequest.Status)
	assert.NotNil(t, updated.Cancellation)
	assert.Equal(t, "schedule conflict", updated.Cancellation.Reason, "approval carries the requested reason")
	assert.Equal(t, "auth0|owner", updated.Cancellation.CancelledBy)
}

func TestDenyCancellationRestoresPriorStatus(t *testing.T) {
	db := setupTestDB(t)
	contractor := createTestContractor(t, db)
	job := createTestJob(t, db, contractor.ID, withDeposit)
	advanceJob(t, db, contractor.ID, job, models.JobStatusScheduled)

	_, err := CancelJob(db, contractor.ID, job.ID, "second thoughts", "auth0|customer")
	assert.NoError(t, err)

	err = DenyCancellation(db, contractor.ID, job.ID, "auth0|owner")
	assert.NoError(t, err)

	var updated models.Job
	assert.NoError(t, db.First(&updated, "id = ?", job.ID).Error)
	assert.Equal(t, models.JobStatusScheduled, updated.Status, "denial restores the status held before the request")
	assert.NotNil(t, updated.CancellationRequest)
	assert.Equal(t, "denied", updated.CancellationRequest.Status)
	if updated.Cancellation != nil {
		assert.Empty(t, updated.Cancellation.CancelledBy)
	}
}

func TestDenyCancellationWithoutPendingRequest(t *testing.T) {
	db := setupTestDB(t)
	contractor := createTestContractor(t, db)
	job := createTestJob(t, db, contractor.ID, nil)

	err := DenyCancellation(db, contractor.ID, job.ID, "auth0|owner")

	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}
