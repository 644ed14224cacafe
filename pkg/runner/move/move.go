// Package move provides the runner logic for reparenting and reordering
// tasks.
package move

import (
	"context"
	"errors"

	"tableflip.dev/metas/pkg/app"
	"tableflip.dev/metas/pkg/order"
	"tableflip.dev/metas/pkg/printers"
)

// Move repositions a task. Before/After reorder among current siblings;
// SetParent reparents under NewParentID (empty means make it a root).
type Move struct {
	ID          string
	Before      string
	After       string
	SetParent   bool
	NewParentID string

	ShowID  bool
	Service *app.Service
}

func (m *Move) Do(ctx context.Context) error {
	if m.Service == nil {
		return errors.New("can not move, no service")
	}
	if m.ID == "" {
		return errors.New("a task id is required")
	}

	var goalID string
	switch {
	case m.SetParent:
		t, err := m.Service.Move(ctx, m.ID, m.NewParentID)
		if err != nil {
			return err
		}
		goalID = t.GoalID
	case m.Before != "":
		t, err := m.Service.Reorder(ctx, m.ID, order.Before, m.Before)
		if err != nil {
			return err
		}
		goalID = t.GoalID
	case m.After != "":
		t, err := m.Service.Reorder(ctx, m.ID, order.After, m.After)
		if err != nil {
			return err
		}
		goalID = t.GoalID
	default:
		return errors.New("nothing to do, use --before, --after or --parent")
	}

	forest, err := m.Service.Tree(ctx, goalID)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: m.ShowID, Describe: m.Service.Describe}
	pp.Title(goalID)
	pp.Forest(forest...)
	return nil
}
