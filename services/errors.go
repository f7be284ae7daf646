package services

import "errors"

// Core dispatch errors. Controllers map these to HTTP error codes; nothing in
// this package swallows them. Best-effort side effects (notifications,
// schedule-hold release, conversation archival) are logged at their call site
// and never converted into one of these.
var (
	// ErrNotFound is returned when a referenced quote, job or team member
	// does not exist for the contractor.
	ErrNotFound = errors.New("record not found")

	// ErrQuoteAlreadyAccepted is returned on a duplicate acceptance attempt.
	ErrQuoteAlreadyAccepted = errors.New("quote has already been accepted")

	// ErrInvalidStateTransition is returned when a job status change is not
	// permitted by the state machine.
	ErrInvalidStateTransition = errors.New("invalid job status transition")

	// ErrIneligibleAssignment is returned when a technician who fails the
	// eligibility checks is assigned to a job.
	ErrIneligibleAssignment = errors.New("technician is not eligible for this job")

	// ErrTransactionFailed is returned when the underlying atomic write
	// failed or aborted; no partial state is retained.
	ErrTransactionFailed = errors.New("transaction failed")
)
