// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// GoalOptions captures common goal selection flags for commands.
type GoalOptions struct {
	Goal string
	List bool
}

// AddGoalArgs wires goal-related flags on the provided command.
func AddGoalArgs(cmd *cobra.Command, o *GoalOptions) {
	cmd.Flags().StringVarP(&o.Goal, "goal", "g", "",
		"Specify the goal (meta).")
}

// AddListGoalsArg registers the goal catalog flag.
func AddListGoalsArg(cmd *cobra.Command, o *GoalOptions) {
	cmd.Flags().BoolVar(&o.List, "list", false,
		"List all goals.")
}
