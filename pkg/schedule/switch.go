package schedule

import (
	"tableflip.dev/metas/pkg/task"
)

const layoutISO = "2006-01-02"

// Switch produces the field patch that moves a task to the target category.
// Switching is a full reset of the scheduling bundle: each category sets its
// own fields and clears the fields belonging to every other category, so the
// record never carries a mixed state. The patch replaces the whole extension
// map; the caller routes it through the editor.
func Switch(t *task.Task, target Category, clock Clock) map[string]any {
	extra := task.CloneExtra(t.Extra)
	if extra == nil {
		extra = make(map[string]any)
	}

	clearSubFields := func() {
		delete(extra, task.ExtraWeekDays)
		delete(extra, task.ExtraWeekTime)
		delete(extra, task.ExtraMonthDay)
		delete(extra, task.ExtraMonthTime)
	}

	patch := map[string]any{}
	switch target {
	case Unscheduled:
		clearSubFields()
		extra[task.ExtraFreq] = task.FreqPunctual
		extra[task.ExtraUnscheduled] = true
		patch[task.FieldDate] = ""
		patch[task.FieldTime] = ""
		patch[task.FieldRule] = ""

	case Punctual:
		clearSubFields()
		extra[task.ExtraFreq] = task.FreqPunctual
		extra[task.ExtraUnscheduled] = false
		date := t.Date
		if date == "" {
			date = now(clock).Format(layoutISO)
		}
		patch[task.FieldDate] = date
		patch[task.FieldRule] = ""

	case Weekly:
		delete(extra, task.ExtraMonthDay)
		delete(extra, task.ExtraMonthTime)
		days := NormalizeDays(extra[task.ExtraWeekDays])
		at, _ := extra[task.ExtraWeekTime].(string)
		extra[task.ExtraWeekDays] = Codes(days)
		extra[task.ExtraFreq] = task.FreqWeekly
		extra[task.ExtraUnscheduled] = false
		patch[task.FieldDate] = ""
		patch[task.FieldRule] = EncodeWeekly(days, at)

	case Monthly:
		delete(extra, task.ExtraWeekDays)
		delete(extra, task.ExtraWeekTime)
		day, ok := monthDay(extra)
		if !ok {
			day = 1
		}
		at, _ := extra[task.ExtraMonthTime].(string)
		extra[task.ExtraMonthDay] = day
		extra[task.ExtraFreq] = task.FreqMonthly
		extra[task.ExtraUnscheduled] = false
		patch[task.FieldDate] = ""
		patch[task.FieldRule] = EncodeMonthly(day, at)
	}

	patch[task.FieldExtra] = extra
	return patch
}

// SetDays updates the weekly selection and recomputes the descriptor. The
// task is switched to weekly if it is not already.
func SetDays(t *task.Task, days []Day, clock Clock) map[string]any {
	patch := Switch(t, Weekly, clock)
	extra := patch[task.FieldExtra].(map[string]any)
	normalized := NormalizeDays(days)
	extra[task.ExtraWeekDays] = Codes(normalized)
	at, _ := extra[task.ExtraWeekTime].(string)
	patch[task.FieldRule] = EncodeWeekly(normalized, at)
	return patch
}

// SetWeeklyTime updates the weekly time sub-field and recomputes the
// descriptor.
func SetWeeklyTime(t *task.Task, at string, clock Clock) map[string]any {
	patch := Switch(t, Weekly, clock)
	extra := patch[task.FieldExtra].(map[string]any)
	extra[task.ExtraWeekTime] = at
	patch[task.FieldRule] = EncodeWeekly(NormalizeDays(extra[task.ExtraWeekDays]), at)
	return patch
}

// SetMonthDay updates the day-of-month sub-field and recomputes the
// descriptor. The task is switched to monthly if it is not already.
func SetMonthDay(t *task.Task, day int, clock Clock) map[string]any {
	patch := Switch(t, Monthly, clock)
	extra := patch[task.FieldExtra].(map[string]any)
	extra[task.ExtraMonthDay] = day
	at, _ := extra[task.ExtraMonthTime].(string)
	patch[task.FieldRule] = EncodeMonthly(day, at)
	return patch
}

// SetMonthlyTime updates the monthly time sub-field and recomputes the
// descriptor.
func SetMonthlyTime(t *task.Task, at string, clock Clock) map[string]any {
	patch := Switch(t, Monthly, clock)
	extra := patch[task.FieldExtra].(map[string]any)
	extra[task.ExtraMonthTime] = at
	day, ok := monthDay(extra)
	if !ok {
		day = 1
	}
	patch[task.FieldRule] = EncodeMonthly(day, at)
	return patch
}

// SetDate pins a punctual task to a specific date.
func SetDate(t *task.Task, date string, clock Clock) map[string]any {
	patch := Switch(t, Punctual, clock)
	if date != "" {
		patch[task.FieldDate] = date
	}
	return patch
}

func monthDay(extra map[string]any) (int, bool) {
	switch v := extra[task.ExtraMonthDay].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}
