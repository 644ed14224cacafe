package options

import (
	"github.com/spf13/cobra"
)

// AddOptions captures task creation flags.
type AddOptions struct {
	Parent string
	Kind   string
	Points int
}

// AddTaskArgs wires creation flags on the provided command.
func AddTaskArgs(cmd *cobra.Command, o *AddOptions) {
	cmd.Flags().StringVarP(&o.Parent, "parent", "p", "",
		"Parent task id; omit to create a root task.")
	cmd.Flags().StringVarP(&o.Kind, "kind", "k", "",
		"Task kind: generic, income, expense, physical, knowledge.")
	cmd.Flags().IntVar(&o.Points, "points", 0,
		"Point value for the task (default 2).")
}
