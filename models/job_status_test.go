package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseJobStatus(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  JobStatus
		expectErr bool
	}{
		{name: "pending_schedule is valid", input: "pending_schedule", expected: JobStatusPendingSchedule},
		{name: "scheduled is valid", input: "scheduled", expected: JobStatusScheduled},
		{name: "in_progress is valid", input: "in_progress", expected: JobStatusInProgress},
		{name: "running_late is valid", input: "running_late", expected: JobStatusRunningLate},
		{name: "completed is valid", input: "completed", expected: JobStatusCompleted},
		{name: "cancellation_requested is valid", input: "cancellation_requested", expected: JobStatusCancellationRequested},
		{name: "cancelled is valid", input: "cancelled", expected: JobStatusCancelled},
		{name: "unknown status rejected", input: "paused", expectErr: true},
		{name: "empty status rejected", input: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := ParseJobStatus(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    JobStatus
		to      JobStatus
		allowed bool
	}{
		{name: "pending to scheduled", from: JobStatusPendingSchedule, to: JobStatusScheduled, allowed: true},
		{name: "scheduled to in_progress", from: JobStatusScheduled, to: JobStatusInProgress, allowed: true},
		{name: "in_progress to running_late", from: JobStatusInProgress, to: JobStatusRunningLate, allowed: true},
		{name: "running_late back to in_progress", from: JobStatusRunningLate, to: JobStatusInProgress, allowed: true},
		{name: "in_progress to completed", from: JobStatusInProgress, to: JobStatusCompleted, allowed: true},
		{name: "running_late to completed", from: JobStatusRunningLate, to: JobStatusCompleted, allowed: true},
		{name: "scheduled to cancellation_requested", from: JobStatusScheduled, to: JobStatusCancellationRequested, allowed: true},
		{name: "pending to cancelled", from: JobStatusPendingSchedule, to: JobStatusCancelled, allowed: true},
		{name: "cancellation_requested approved", from: JobStatusCancellationRequested, to: JobStatusCancelled, allowed: true},
		{name: "cancellation_requested denied back to scheduled", from: JobStatusCancellationRequested, to: JobStatusScheduled, allowed: true},

		{name: "pending cannot skip to in_progress", from: JobStatusPendingSchedule, to: JobStatusInProgress, allowed: false},
		{name: "scheduled cannot complete directly", from: JobStatusScheduled, to: JobStatusCompleted, allowed: false},
		{name: "pending cannot run late", from: JobStatusPendingSchedule, to: JobStatusRunningLate, allowed: false},
		{name: "cancellation_requested cannot complete", from: JobStatusCancellationRequested, to: JobStatusCompleted, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

// TestTerminalStatusesHaveNoExits verifies no sequence of transitions can
// leave completed or cancelled.
func TestTerminalStatusesHaveNoExits(t *testing.T) {
	all := []JobStatus{
		JobStatusPendingSchedule, JobStatusScheduled, JobStatusInProgress,
		JobStatusRunningLate, JobStatusCompleted, JobStatusCancellationRequested,
		JobStatusCancelled,
	}

	for _, terminal := range []JobStatus{JobStatusCompleted, JobStatusCancelled} {
		assert.True(t, terminal.IsTerminal())
		for _, to := range all {
			assert.False(t, CanTransition(terminal, to),
				"terminal status %s must not transition to %s", terminal, to)
		}
	}
}

func TestNonTerminalStatusesCanReachCancellation(t *testing.T) {
	for _, from := range []JobStatus{
		JobStatusPendingSchedule, JobStatusScheduled, JobStatusInProgress, JobStatusRunningLate,
	} {
		assert.False(t, from.IsTerminal())
		assert.True(t, CanTransition(from, JobStatusCancellationRequested), "from %s", from)
		assert.True(t, CanTransition(from, JobStatusCancelled), "from %s", from)
	}
}
