package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/metas/pkg/commands/options"
	"tableflip.dev/metas/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	gopts := &options.GoalOptions{}
	io := &options.IDOptions{}
	watch := false

	cmd := &cobra.Command{
		Use:   "get [goal]",
		Short: "Show the task tree for a goal.",
		Example: `
metas get house
metas get --goal house --id
metas get --list
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				gopts.Goal = strings.Join(args, " ")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			g := get.Get{
				GoalID:    gopts.Goal,
				ShowID:    io.ShowID,
				ListGoals: gopts.List,
				Watch:     watch,
				Service:   svc,
			}
			err = g.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddGoalArgs(cmd, gopts)
	options.AddListGoalsArg(cmd, gopts)
	options.AddShowIDArgs(cmd, io)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false,
		"Keep running and re-render when storage changes.")

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
