package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/metas/pkg/app"
	"tableflip.dev/metas/pkg/commands/options"
	"tableflip.dev/metas/pkg/store"
)

var (
	oo = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "metas",
		Short: "Goal and task trees with scheduling on the command line.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addGet(topLevel)
	addGoals(topLevel)
	addAdd(topLevel)
	addMove(topLevel)
	addSchedule(topLevel)
	addComplete(topLevel)
	addUndo(topLevel)
	addVersion(topLevel)
}

// loadService builds the app service over the configured store.
func loadService() (*app.Service, error) {
	p, err := store.Load(nil)
	if err != nil {
		return nil, err
	}
	return app.New(p), nil
}
