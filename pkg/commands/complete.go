package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/metas/pkg/commands/options"
	"tableflip.dev/metas/pkg/runner/complete"
)

func addComplete(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Toggle a task's completion.",
		Example: `
metas complete 171dff69f8b99dca
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("exactly one task id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			c := complete.Complete{
				ID:      args[0],
				Service: svc,
			}
			err = c.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
