package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/metas/pkg/commands/options"
	"tableflip.dev/metas/pkg/runner/scheduler"
)

func addSchedule(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	s := scheduler.Schedule{}

	cmd := &cobra.Command{
		Use:   "schedule <id>",
		Short: "Change when a task happens.",
		Long: `Change when a task happens.

A task is punctual (a one-off date), weekly (a subset of weekdays),
monthly (a day of the month), or explicitly unscheduled. Weekday codes
are L M X J V S D, Monday through Sunday.`,
		Example: `
metas schedule 171dff69f8b99dca --weekly L,X,V --at 09:00
metas schedule 171dff69f8b99dca --monthly 1
metas schedule 171dff69f8b99dca --on 2026-09-15
metas schedule 171dff69f8b99dca --none
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
			s.ID = args[0]
			s.ShowID = io.ShowID
			s.Service = svc
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	cmd.Flags().StringVar(&s.Weekly, "weekly", "", "Weekday codes, comma joined (e.g. L,X,V).")
	cmd.Flags().IntVar(&s.Monthly, "monthly", 0, "Day of the month (1-31).")
	cmd.Flags().StringVar(&s.On, "on", "", "One-off date (2006-01-02).")
	cmd.Flags().BoolVar(&s.None, "none", false, "Mark the task explicitly unscheduled.")
	cmd.Flags().StringVar(&s.At, "at", "", "Time of day (HH:MM).")
	options.AddShowIDArgs(cmd, io)

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
