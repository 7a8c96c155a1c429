package reminder

import (
	"math"
	"time"
)

const (
	// DefaultDaysBefore is the lookahead used when no override is configured.
	DefaultDaysBefore = 7

	// MaxDaysBefore bounds the accepted lookahead override.
	MaxDaysBefore = 365

	// MileageMargin is how many units before the due mileage a reminder
	// starts counting as due soon.
	MileageMargin = 200
)

// DueStatus is the result of evaluating a single record against "today".
type DueStatus struct {
	Overdue bool
	DueSoon bool
}

// Any reports whether the record warrants a notification at all.
func (s DueStatus) Any() bool {
	return s.Overdue || s.DueSoon
}

// DayStart truncates t to the start of its calendar day.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysUntil is the whole-day delta between due and the start of today,
// rounding down so a due time later the same day counts as day zero.
func daysUntil(due, todayStart time.Time) int {
	return int(math.Floor(due.Sub(todayStart).Hours() / 24))
}

// EvaluateDate computes the due status of a record that only carries a due
// date. Comparison is at day granularity: a record due yesterday at 23:59 is
// overdue today regardless of time-of-day. DueSoon fires only when the delta
// equals daysBefore exactly, so the daily job notifies once, not every day
// inside the window.
func EvaluateDate(dueDate *time.Time, now time.Time, daysBefore int) DueStatus {
	if dueDate == nil {
		return DueStatus{}
	}
	todayStart := DayStart(now)
	return DueStatus{
		Overdue: dueDate.Before(todayStart),
		DueSoon: daysUntil(*dueDate, todayStart) == daysBefore,
	}
}

// Evaluate computes the due status of a maintenance reminder, which may carry
// a due date, a due mileage, or both. An unresolved vehicle contributes a
// current mileage of zero. Completed reminders are never due.
func Evaluate(dueDate *time.Time, dueMileage *int, completed bool, now time.Time, currentMileage, daysBefore int) DueStatus {
	if completed {
		return DueStatus{}
	}
	st := EvaluateDate(dueDate, now, daysBefore)
	if dueMileage != nil {
		st.Overdue = st.Overdue || currentMileage >= *dueMileage
		st.DueSoon = st.DueSoon || (currentMileage >= *dueMileage-MileageMargin && currentMileage < *dueMileage)
	}
	return st
}

// ClampDaysBefore validates a lookahead override, falling back to def when the
// value is outside [0, MaxDaysBefore]. Bad input is recovered silently, never
// surfaced to the caller.
func ClampDaysBefore(days, def int) int {
	if days < 0 || days > MaxDaysBefore {
		return def
	}
	return days
}
