package options

import (
	"github.com/spf13/cobra"
)

// IDOptions controls identifier display.
type IDOptions struct {
	ShowID bool
}

// AddShowIDArgs wires the id display flag.
func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVar(&o.ShowID, "id", false,
		"Show task ids.")
}
