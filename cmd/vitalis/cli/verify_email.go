package cli

import (
	"fmt"

	"github.com/tjper/vitalis/internal/client"

	"github.com/spf13/cobra"
)

func newVerifyEmailCmd(h *holder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify-email",
		Short: "Verify your email address",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	request := &cobra.Command{
		Use:   "request",
		Short: "Send a new verification email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := h.app.Client.RequestEmailVerification(cmd.Context()); err != nil {
				return describe("verification request failed", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Verification email sent.")
			return nil
		},
	}

	var input client.VerifyEmailInput
	confirm := &cobra.Command{
		Use:   "confirm",
		Short: "Confirm an email address with the emailed token",
		Long: `Confirm an email address with the token from the verification email. This
also completes a pending email change.

Examples:
  vitalis verify-email confirm --token <token>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := h.app.Client.VerifyEmail(cmd.Context(), input); err != nil {
				return describe("email verification failed", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Email verified.")
			h.resync(cmd)
			return nil
		},
	}
	confirm.Flags().StringVar(&input.Token, "token", "", "verification token")

	cmd.AddCommand(request, confirm)
	return cmd
}
