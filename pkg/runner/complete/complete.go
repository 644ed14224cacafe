// Package complete provides the runner logic for toggling task completion.
package complete

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/metas/pkg/app"
	"tableflip.dev/metas/pkg/printers"
)

// Complete toggles the done flag on a task.
type Complete struct {
	ID      string
	Service *app.Service
}

func (n *Complete) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{ShowID: true}

	if n.Service == nil {
		return errors.New("can not complete, no service")
	}

	t, err := n.Service.Complete(ctx, n.ID)
	if err != nil {
		return err
	}
	n.Service.Drain()

	forest, err := n.Service.Tree(ctx, t.GoalID)
	if err != nil {
		return err
	}
	pp.Describe = n.Service.Describe
	fmt.Println("")
	pp.Title(t.GoalID)
	pp.Forest(forest...)
	return nil
}
