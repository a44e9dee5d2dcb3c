package cli

import (
	"github.com/spf13/cobra"
)

func newWhoamiCmd(h *holder) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Long: `Resolve the current session from the platform and print it along with
whether premium content is unlocked.

Examples:
  vitalis whoami`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := h.app.Manager
			m.Initialize(cmd.Context())
			m.Wait()

			printSession(cmd.OutOrStdout(), m.Current())
			warn(cmd.ErrOrStderr(), m.LastFailure())
			return nil
		},
	}
}
