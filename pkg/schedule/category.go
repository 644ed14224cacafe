// Package schedule translates between a task's raw scheduling fields and its
// schedule category, and renders human-readable summaries. It is the single
// place that interprets the recurrence descriptor and the frequency
// sub-fields of the extension map.
package schedule

import (
	"time"

	"tableflip.dev/metas/pkg/task"
)

// Category is one of the four mutually exclusive schedule shapes a task can
// have.
type Category int

const (
	// Punctual is a one-off date, with optional time.
	Punctual Category = iota
	// Weekly recurs on a subset of weekdays at an optional time.
	Weekly
	// Monthly recurs on a day-of-month at an optional time.
	Monthly
	// Unscheduled explicitly has no date.
	Unscheduled
)

func (c Category) String() string {
	switch c {
	case Punctual:
		return "PUNCTUAL"
	case Weekly:
		return "WEEKLY"
	case Monthly:
		return "MONTHLY"
	case Unscheduled:
		return "UNSCHEDULED"
	}
	return "UNKNOWN"
}

// Clock supplies the current time. Inject a fixed clock in tests; nil means
// time.Now.
type Clock func() time.Time

func now(clock Clock) time.Time {
	if clock == nil {
		return time.Now()
	}
	return clock()
}

// Derive determines the schedule category of a task from its stored fields.
//
// Priority order: an explicit unscheduled flag wins outright (true means
// unscheduled, false means never unscheduled); then the frequency tag; then
// the absence of both date and recurrence descriptor; anything left is
// punctual.
func Derive(t *task.Task) Category {
	if flag, ok := t.GetExtra(task.ExtraUnscheduled).(bool); ok {
		if flag {
			return Unscheduled
		}
		if c, ok := fromFreq(t); ok {
			return c
		}
		return Punctual
	}
	if c, ok := fromFreq(t); ok {
		return c
	}
	if t.Date == "" && t.Rule == "" {
		return Unscheduled
	}
	return Punctual
}

func fromFreq(t *task.Task) (Category, bool) {
	switch t.GetExtra(task.ExtraFreq) {
	case task.FreqWeekly:
		return Weekly, true
	case task.FreqMonthly:
		return Monthly, true
	}
	return Punctual, false
}
