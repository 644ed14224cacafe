package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/metas/pkg/commands/options"
	"tableflip.dev/metas/pkg/runner/add"
	"tableflip.dev/metas/pkg/task"
)

func addAdd(topLevel *cobra.Command) {
	gopts := &options.GoalOptions{}
	aopts := &options.AddOptions{}

	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task to a goal.",
		Example: `
metas add paint the fence --goal house
metas add pay rent --goal finances --kind expense
metas add sand the gate --goal house --parent 171dff69f8b99dca
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("a task title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			kind := task.Kind(aopts.Kind)
			a := add.Add{
				GoalID:   gopts.Goal,
				ParentID: aopts.Parent,
				Title:    strings.Join(args, " "),
				Kind:     kind,
				Points:   aopts.Points,
				Service:  svc,
			}
			err = a.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddGoalArgs(cmd, gopts)
	options.AddTaskArgs(cmd, aopts)

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
