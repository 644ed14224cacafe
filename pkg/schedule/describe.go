package schedule

import (
	"fmt"
	"strings"
	"time"

	"tableflip.dev/metas/pkg/task"
)

// Display labels for schedules without enough detail to render.
const (
	labelUnscheduled = "sin fecha"
	labelWeekly      = "semanal"
)

// Spanish month abbreviations, January first.
var monthAbbr = [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}

// Describe renders a short human-readable summary of the task's schedule.
// Read-only; the clock only supplies the fallback date for punctual tasks
// that have none stored yet.
func Describe(t *task.Task, clock Clock) string {
	switch Derive(t) {
	case Unscheduled:
		return labelUnscheduled

	case Weekly:
		days := NormalizeDays(t.GetExtra(task.ExtraWeekDays))
		at, _ := t.GetExtra(task.ExtraWeekTime).(string)
		if rule, err := DecodeRule(t.Rule); err == nil && rule.Category == Weekly {
			days = rule.Days
			at = rule.Time
		}
		if len(days) == 0 {
			return labelWeekly
		}
		return withTime(strings.Join(Codes(days), ", "), at)

	case Monthly:
		day := 1
		at, _ := t.GetExtra(task.ExtraMonthTime).(string)
		if rule, err := DecodeRule(t.Rule); err == nil && rule.Category == Monthly {
			day = rule.Day
			at = rule.Time
		} else if d, ok := monthDay(t.Extra); ok {
			day = d
		}
		return withTime(fmt.Sprintf("día %d", day), at)

	default:
		when := now(clock)
		if t.Date != "" {
			if parsed, err := time.Parse(layoutISO, t.Date); err == nil {
				when = parsed
			}
		}
		short := fmt.Sprintf("%d %s", when.Day(), monthAbbr[when.Month()-1])
		return withTime(short, t.Time)
	}
}

func withTime(label, at string) string {
	if at == "" {
		return label
	}
	return fmt.Sprintf("%s %s", label, at)
}
