package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/metas/pkg/commands/options"
	"tableflip.dev/metas/pkg/runner/get"
)

func addGoals(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "goals",
		Short: "List all goals.",
		Example: `
metas goals
metas goals --id
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			g := get.Get{
				ListGoals: true,
				ShowID:    io.ShowID,
				Service:   svc,
			}
			err = g.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
