package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/metas/pkg/commands/options"
	"tableflip.dev/metas/pkg/runner/move"
)

func addMove(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	before := ""
	after := ""
	parent := ""
	root := false

	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Reorder a task among its siblings or give it a new parent.",
		Example: `
metas move 171dff69f8b99dca --before 208aa1b2c3d4e5f6
metas move 171dff69f8b99dca --after 208aa1b2c3d4e5f6
metas move 171dff69f8b99dca --parent 208aa1b2c3d4e5f6
metas move 171dff69f8b99dca --root
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
			m := move.Move{
				ID:          args[0],
				Before:      before,
				After:       after,
				SetParent:   root || parent != "",
				NewParentID: parent,
				ShowID:      io.ShowID,
				Service:     svc,
			}
			err = m.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	cmd.Flags().StringVar(&before, "before", "", "Place the task before this sibling id.")
	cmd.Flags().StringVar(&after, "after", "", "Place the task after this sibling id.")
	cmd.Flags().StringVar(&parent, "parent", "", "Reparent the task under this id.")
	cmd.Flags().BoolVar(&root, "root", false, "Make the task a root of its goal.")
	options.AddShowIDArgs(cmd, io)

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
