package cli

import (
	"fmt"

	"github.com/tjper/vitalis/internal/client"

	"github.com/spf13/cobra"
)

func newPasswordCmd(h *holder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change or recover your password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var forgot client.ForgotPasswordInput
	forgotCmd := &cobra.Command{
		Use:   "forgot",
		Short: "Email a password reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := h.app.Client.ForgotPassword(cmd.Context(), forgot); err != nil {
				return describe("password recovery failed", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "If an account exists for that email, a reset link is on its way.")
			return nil
		},
	}
	forgotCmd.Flags().StringVar(&forgot.Email, "email", "", "account email")

	var reset client.ResetPasswordInput
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password with an emailed reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := h.app.Client.ResetPassword(cmd.Context(), reset); err != nil {
				return describe("password reset failed", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password reset. Sign in with your new password.")
			return nil
		},
	}
	resetCmd.Flags().StringVar(&reset.Token, "token", "", "reset token")
	resetCmd.Flags().StringVar(&reset.Password, "password", "", "new password")

	var change client.PasswordChangeInput
	changeCmd := &cobra.Command{
		Use:   "change",
		Short: "Change the password of the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := h.app.Client.RequestPasswordChange(cmd.Context(), change); err != nil {
				return describe("password change failed", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password changed.")
			return nil
		},
	}
	changeCmd.Flags().StringVar(&change.CurrentPassword, "current", "", "current password")
	changeCmd.Flags().StringVar(&change.NewPassword, "new", "", "new password")

	cmd.AddCommand(forgotCmd, resetCmd, changeCmd)
	return cmd
}
