// Job lifecycle state machine.
//
// Valid status graph:
//
//	pending_schedule ──► scheduled ──► in_progress ◄──► running_late
//	                                        │                │
//	                                        └────────┬───────┘
//	                                                 ▼
//	                                             completed
//
// Any non-terminal status may additionally move to cancellation_requested
// (deposit held) or cancelled (no deposit); cancellation_requested resolves
// to cancelled on approval or back to its prior status on denial.
// completed and cancelled are terminal.
package models

import "fmt"

// JobStatus is the closed set of job lifecycle states.
type JobStatus string

const (
	JobStatusPendingSchedule       JobStatus = "pending_schedule"
	JobStatusScheduled             JobStatus = "scheduled"
	JobStatusInProgress            JobStatus = "in_progress"
	JobStatusRunningLate           JobStatus = "running_late"
	JobStatusCompleted             JobStatus = "completed"
	JobStatusCancellationRequested JobStatus = "cancellation_requested"
	JobStatusCancelled             JobStatus = "cancelled"
)

// jobTransitions lists every allowed (from → to) pair. Cancellation edges are
// included for every non-terminal status; which of the two a caller may take
// depends on whether the job holds a deposit, which the cancellation workflow
// enforces.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusPendingSchedule: {JobStatusScheduled, JobStatusCancellationRequested, JobStatusCancelled},
	JobStatusScheduled:       {JobStatusInProgress, JobStatusCancellationRequested, JobStatusCancelled},
	JobStatusInProgress:      {JobStatusRunningLate, JobStatusCompleted, JobStatusCancellationRequested, JobStatusCancelled},
	JobStatusRunningLate:     {JobStatusInProgress, JobStatusCompleted, JobStatusCancellationRequested, JobStatusCancelled},
	// A denied cancellation request returns to the job's prior status; the
	// cancellation workflow validates the specific target against history.
	JobStatusCancellationRequested: {JobStatusCancelled, JobStatusPendingSchedule, JobStatusScheduled, JobStatusInProgress, JobStatusRunningLate},
	// completed and cancelled are terminal, no outgoing transitions
}

// ParseJobStatus converts a raw string to a JobStatus, returning an error for
// unknown values.
func ParseJobStatus(s string) (JobStatus, error) {
	st := JobStatus(s)
	switch st {
	case JobStatusPendingSchedule, JobStatusScheduled, JobStatusInProgress,
		JobStatusRunningLate, JobStatusCompleted, JobStatusCancellationRequested,
		JobStatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// IsTerminal returns true when no transition may leave the status.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// CanTransition returns true when moving from → to is permitted by the state
// machine.
func CanTransition(from, to JobStatus) bool {
	allowed, ok := jobTransitions[from]
	if !ok {
		return false // terminal state
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
