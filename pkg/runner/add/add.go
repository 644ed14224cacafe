// Package add provides the runner logic for creating tasks.
package add

import (
	"context"
	"errors"

	"tableflip.dev/metas/pkg/app"
	"tableflip.dev/metas/pkg/printers"
	"tableflip.dev/metas/pkg/task"
)

// Add creates a task in a goal, appended after the last sibling under the
// chosen parent.
type Add struct {
	GoalID   string
	ParentID string
	Title    string
	Kind     task.Kind
	Points   int

	Service *app.Service
}

func (a *Add) Do(ctx context.Context) error {
	if a.Service == nil {
		return errors.New("can not add, no service")
	}
	if a.GoalID == "" {
		return errors.New("a goal is required, use --goal")
	}

	t, err := a.Service.Add(ctx, a.GoalID, a.ParentID, a.Title, a.Kind)
	if err != nil {
		return err
	}
	if t == nil {
		return nil
	}
	if a.Points > 0 && a.Points != task.DefaultPoints {
		if _, err := a.Service.SetPoints(ctx, t.ID, a.Points); err != nil {
			return err
		}
	}
	a.Service.Drain()

	forest, err := a.Service.Tree(ctx, a.GoalID)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Describe: a.Service.Describe}
	pp.Title(a.GoalID)
	pp.Forest(forest...)
	return nil
}
