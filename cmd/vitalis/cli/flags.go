package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFlagsCmd(h *holder) *cobra.Command {
	return &cobra.Command{
		Use:   "flags",
		Short: "Show feature flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer tw.Flush()

			for _, flag := range h.app.Flags {
				state := "disabled"
				if flag.Enabled {
					state = "enabled"
				}
				fmt.Fprintf(tw, "%s\t%s\t%q\n", flag.Name, state, flag.Value)
			}
			return nil
		},
	}
}
