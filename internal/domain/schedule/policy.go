package schedule

import "time"

// ThursdayPolicy returns the recurrence a program must carry given its anchor
// date: Thursday programs are always weekly, whatever was requested.
func ThursdayPolicy(anchorDate *time.Time, requested Recurrence) Recurrence {
	if anchorDate != nil && !anchorDate.IsZero() && anchorDate.Weekday() == time.Thursday {
		return RecurrenceWeekly
	}
	if requested == "" {
		return RecurrenceNone
	}
	return requested
}
