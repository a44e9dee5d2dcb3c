package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errUnconfirmed = errors.New("account deletion must be confirmed with --yes")

func newAccountCmd(h *holder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage your account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Permanently delete the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errUnconfirmed
			}
			if err := h.app.Client.DeleteAccount(cmd.Context()); err != nil {
				return describe("account deletion failed", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Account deleted.")
			h.resync(cmd)
			return nil
		},
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	cmd.AddCommand(deleteCmd)
	return cmd
}
