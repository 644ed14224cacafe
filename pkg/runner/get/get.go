// Package get provides the runner logic for listing goal trees.
package get

import (
	"context"
	"errors"

	"tableflip.dev/metas/pkg/app"
	"tableflip.dev/metas/pkg/printers"
	"tableflip.dev/metas/pkg/store"
	"tableflip.dev/metas/pkg/tree"
)

// Get renders the task tree for a goal, optionally re-rendering on storage
// changes until cancelled.
type Get struct {
	GoalID    string
	ShowID    bool
	ListGoals bool
	Watch     bool

	Service *app.Service
}

func (g *Get) Do(ctx context.Context) error {
	if g.Service == nil {
		return errors.New("can not get, no service")
	}

	pp := printers.PrettyPrint{ShowID: g.ShowID, Describe: g.Service.Describe}

	if g.ListGoals {
		metas, err := g.Service.Goals(ctx)
		if err != nil {
			return err
		}
		pp.Title("metas")
		for _, meta := range metas {
			pp.Line(meta.ID, meta.Name)
		}
		pp.NewLine()
		return nil
	}

	if err := g.render(ctx, &pp); err != nil {
		return err
	}
	if !g.Watch {
		return nil
	}

	events, err := g.Service.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Type == store.EventGoalChanged && ev.Goal != g.GoalID {
				continue
			}
			if err := g.render(ctx, &pp); err != nil {
				return err
			}
		}
	}
}

func (g *Get) render(ctx context.Context, pp *printers.PrettyPrint) error {
	forest, err := g.Service.Tree(ctx, g.GoalID)
	if err != nil {
		return err
	}
	pp.TitleWithCount(g.GoalID, len(tree.Flatten(forest)))
	pp.Forest(forest...)
	return nil
}
