package schedule

import (
	"fmt"
	"time"
)

type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceWeekly, RecurrenceMonthly:
		return true
	default:
		return false
	}
}

// TimeOfDay is a wall-clock time without a date or zone.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

func ParseTimeOfDay(value string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute(), Second: parsed.Second()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q", value)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Anchor is the first scheduled date (and optional time) of a program.
// Only the Y/M/D fields of Date are read.
type Anchor struct {
	Date time.Time
	Time *TimeOfDay
}

// Occurrence is a concrete instance of a program. Date is always the civil
// date at midnight UTC; At is set only when the anchor carries a time.
type Occurrence struct {
	Date    time.Time
	At      time.Time
	HasTime bool
}

// Civil truncates t to its calendar date, keeping the fields t already has in
// its own location.
func Civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// mondayOrdinal maps Monday..Sunday to 0..6.
func mondayOrdinal(day time.Weekday) int {
	return (int(day) + 6) % 7
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// addMonthsClamped moves a civil date forward by n months. A day-of-month
// missing from the target month is clamped to that month's last day.
func addMonthsClamped(date time.Time, n int) time.Time {
	monthIndex := int(date.Month()) - 1 + n
	year := date.Year() + monthIndex/12
	month := time.Month(monthIndex%12 + 1)

	day := date.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
