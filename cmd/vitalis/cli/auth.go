package cli

import (
	"fmt"

	"github.com/tjper/vitalis/internal/client"

	"github.com/spf13/cobra"
)

func newLoginCmd(h *holder) *cobra.Command {
	var input client.LoginInput

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Long: `Sign in to the platform. The access token handed out by the platform is
saved so later commands stay signed in.

Examples:
  vitalis login --email user@example.com --password 'S3cure-pass'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := h.app.Client.Login(cmd.Context(), input); err != nil {
				return describe("login failed", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Login successful!")
			h.resync(cmd)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "account email")
	cmd.Flags().StringVar(&input.Password, "password", "", "account password")
	return cmd
}

func newRegisterCmd(h *holder) *cobra.Command {
	var input client.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Long: `Create an account. Passwords are 8 to 64 characters and contain a lowercase
letter, an uppercase letter and a number. A verification email is sent to the
address.

Examples:
  vitalis register --name Ada --email ada@example.com --password 'S3cure-pass'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := h.app.Client.Register(cmd.Context(), input); err != nil {
				return describe("registration failed", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Registration successful! Check your inbox to verify your email.")
			h.resync(cmd)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Name, "name", "", "display name")
	cmd.Flags().StringVar(&input.Email, "email", "", "account email")
	cmd.Flags().StringVar(&input.Password, "password", "", "account password")
	return cmd
}

func newLogoutCmd(h *holder) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Long: `Sign out of the platform. The saved access token is removed even if the
platform cannot be reached.

Examples:
  vitalis logout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := h.app.Client.Logout(cmd.Context())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", describe("platform logout failed", err))
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			h.resync(cmd)
			return nil
		},
	}
}
