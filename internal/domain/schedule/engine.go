package schedule

import (
	"fmt"
	"time"
)

type Engine struct {
	loc    *time.Location
	strict bool
}

type Option func(*Engine)

// WithStrict makes unknown recurrence values an error instead of falling back
// to a one-off occurrence.
func WithStrict() Option {
	return func(e *Engine) {
		e.strict = true
	}
}

func NewEngine(loc *time.Location, opts ...Option) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	engine := &Engine{loc: loc}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

func (e *Engine) Location() *time.Location {
	return e.loc
}

func (e *Engine) Strict() bool {
	return e.strict
}

// Today returns the civil date of now in the engine's zone.
func (e *Engine) Today(now time.Time) time.Time {
	return Civil(now.In(e.loc))
}

// NextOccurrence returns the next occurrence of a program anchored at anchor,
// or nil when the program has no anchor date.
func (e *Engine) NextOccurrence(anchor *Anchor, rule Recurrence, today time.Time) (*Occurrence, error) {
	if anchor == nil || anchor.Date.IsZero() {
		return nil, nil
	}

	start := Civil(anchor.Date)
	today = Civil(today)

	var next time.Time
	switch rule {
	case RecurrenceNone:
		next = start
	case RecurrenceWeekly:
		daysAhead := (mondayOrdinal(start.Weekday()) - mondayOrdinal(today.Weekday()) + 7) % 7
		if daysAhead == 0 && start.Before(today) {
			daysAhead = 7
		}
		next = today.AddDate(0, 0, daysAhead)
	case RecurrenceMonthly:
		next = start
		for months := 1; !next.After(today); months++ {
			next = addMonthsClamped(start, months)
		}
	default:
		if e.strict {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRecurrence, string(rule))
		}
		next = start
	}

	return e.occurrence(next, anchor.Time), nil
}

// IsImminent reports whether occ lies strictly after now. A date-only
// occurrence stays imminent until its civil day ends in the engine's zone.
func (e *Engine) IsImminent(occ *Occurrence, now time.Time) bool {
	if occ == nil {
		return false
	}
	return e.Instant(occ).After(now)
}

// Instant is the point in time an occurrence is compared at: its start when a
// time is known, otherwise the end of its day.
func (e *Engine) Instant(occ *Occurrence) time.Time {
	if occ.HasTime {
		return occ.At
	}
	return time.Date(occ.Date.Year(), occ.Date.Month(), occ.Date.Day()+1, 0, 0, 0, 0, e.loc)
}

func (e *Engine) occurrence(date time.Time, at *TimeOfDay) *Occurrence {
	occ := &Occurrence{Date: date}
	if at != nil {
		occ.HasTime = true
		occ.At = time.Date(date.Year(), date.Month(), date.Day(), at.Hour, at.Minute, at.Second, 0, e.loc)
	}
	return occ
}
