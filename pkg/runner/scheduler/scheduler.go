// Package scheduler provides the runner logic for changing a task's
// schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/metas/pkg/app"
	"tableflip.dev/metas/pkg/printers"
	"tableflip.dev/metas/pkg/schedule"
	"tableflip.dev/metas/pkg/task"
)

// Schedule applies exactly one schedule change to a task: a weekly day
// selection, a monthly day-of-month, a punctual date, or explicit
// unscheduling. An optional time applies to whichever category results.
type Schedule struct {
	ID      string
	Weekly  string // comma-joined weekday codes, e.g. "L,X,V"
	Monthly int    // day-of-month
	On      string // punctual date, 2006-01-02
	None    bool   // explicitly unscheduled
	At      string // HH:MM

	ShowID  bool
	Service *app.Service
}

func (s *Schedule) Do(ctx context.Context) error {
	if s.Service == nil {
		return errors.New("can not schedule, no service")
	}
	if s.ID == "" {
		return errors.New("a task id is required")
	}

	var t *task.Task
	var err error
	switch {
	case s.None:
		t, err = s.Service.SetCategory(ctx, s.ID, schedule.Unscheduled)
	case s.Weekly != "":
		days := make([]schedule.Day, 0, 7)
		for _, code := range strings.Split(s.Weekly, ",") {
			d, ok := schedule.ParseDay(code)
			if !ok {
				return fmt.Errorf("unknown weekday %q", code)
			}
			days = append(days, d)
		}
		t, err = s.Service.SetDays(ctx, s.ID, days)
	case s.Monthly > 0:
		t, err = s.Service.SetMonthDay(ctx, s.ID, s.Monthly)
	case s.On != "":
		t, err = s.Service.SetDate(ctx, s.ID, s.On)
	case s.At != "":
		// Time-only change keeps the current category.
	default:
		return errors.New("nothing to do, use --weekly, --monthly, --on or --none")
	}
	if err != nil {
		return err
	}

	if s.At != "" && !s.None {
		if t, err = s.Service.SetTime(ctx, s.ID, s.At); err != nil {
			return err
		}
	}
	s.Service.Drain()

	forest, err := s.Service.Tree(ctx, t.GoalID)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: s.ShowID, Describe: s.Service.Describe}
	pp.Title(t.GoalID)
	pp.Forest(forest...)
	return nil
}
