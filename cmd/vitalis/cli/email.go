package cli

import (
	"fmt"

	"github.com/tjper/vitalis/internal/client"

	"github.com/spf13/cobra"
)

func newEmailCmd(h *holder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "email",
		Short: "Manage your email address",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var input client.EmailChangeInput
	change := &cobra.Command{
		Use:   "change",
		Short: "Move the account to a new email address",
		Long: `Request a move to a new email address. The change takes effect once the
new address is confirmed with 'vitalis verify-email confirm'.

Examples:
  vitalis email change --new-email ada@example.org --password 'S3cure-pass'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := h.app.Client.RequestEmailChange(cmd.Context(), input); err != nil {
				return describe("email change failed", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Confirmation sent to %s.\n", input.NewEmail)
			return nil
		},
	}
	change.Flags().StringVar(&input.NewEmail, "new-email", "", "new email address")
	change.Flags().StringVar(&input.Password, "password", "", "account password")

	cmd.AddCommand(change)
	return cmd
}
