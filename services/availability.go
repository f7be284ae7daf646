package services

import (
	"fmt"
	"time"

	"github.com/mike-rowan/fieldserve-api/models"
)

// AvailabilityResult reports whether a technician can take work on a given
// date/time. Reason is always populated on rejection so dispatchers can see
// why a technician was passed over.
type AvailabilityResult struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// CheckAvailability decides whether a team member is available for the target
// date and optional start/end time window. Pure function of its inputs: the
// member's active flag, time-off intervals and recurring weekday template.
func CheckAvailability(member *models.TeamMember, date time.Time, startTime, endTime string) AvailabilityResult {
	if !member.IsActive {
		return AvailabilityResult{Available: false, Reason: "team member is inactive"}
	}

	// Time-off intervals are inclusive on both ends
	day := truncateToDay(date)
	for _, off := range member.TimeOff {
		if !off.Approved {
			continue
		}
		if !day.Before(truncateToDay(off.StartDate)) && !day.After(truncateToDay(off.EndDate)) {
			reason := off.Reason
			if reason == "" {
				reason = "time off"
			}
			return AvailabilityResult{Available: false, Reason: fmt.Sprintf("on approved time off (%s)", reason)}
		}
	}

	template, ok := workingHoursFor(member, date.Weekday())
	if !ok || !template.Available {
		return AvailabilityResult{Available: false, Reason: fmt.Sprintf("not scheduled to work on %s", date.Weekday())}
	}

	// "HH:MM" strings compare correctly lexicographically
	if startTime != "" && (startTime < template.Start || startTime > template.End) {
		return AvailabilityResult{Available: false, Reason: fmt.Sprintf("requested start %s is outside shift %s-%s", startTime, template.Start, template.End)}
	}
	if endTime != "" && (endTime < template.Start || endTime > template.End) {
		return AvailabilityResult{Available: false, Reason: fmt.Sprintf("requested end %s is outside shift %s-%s", endTime, template.Start, template.End)}
	}

	return AvailabilityResult{Available: true}
}

func workingHoursFor(member *models.TeamMember, weekday time.Weekday) (models.WorkingHour, bool) {
	for _, wh := range member.WorkingHours {
		if wh.Weekday == int(weekday) {
			return wh, true
		}
	}
	return models.WorkingHour{}, false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
