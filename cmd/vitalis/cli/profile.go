package cli

import (
	"fmt"

	"github.com/tjper/vitalis/internal/client"

	"github.com/spf13/cobra"
)

func newProfileCmd(h *holder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newProfileUpdateCmd(h))
	return cmd
}

func newProfileUpdateCmd(h *holder) *cobra.Command {
	var name, bio, avatarURL, dateOfBirth string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		Long: `Update profile fields. Only the flags passed are changed.

Examples:
  vitalis profile update --bio 'Cold plunges and creatine.'
  vitalis profile update --date-of-birth 1990-04-21`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var input client.UpdateProfileInput
			flags := cmd.Flags()
			if flags.Changed("name") {
				input.Name = &name
			}
			if flags.Changed("bio") {
				input.Bio = &bio
			}
			if flags.Changed("avatar-url") {
				input.AvatarURL = &avatarURL
			}
			if flags.Changed("date-of-birth") {
				input.DateOfBirth = &dateOfBirth
			}
			if input == (client.UpdateProfileInput{}) {
				return fmt.Errorf("nothing to update; pass at least one field flag")
			}

			if _, err := h.app.Client.UpdateProfile(cmd.Context(), input); err != nil {
				return describe("profile update failed", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated.")
			h.resync(cmd)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&bio, "bio", "", "short biography")
	cmd.Flags().StringVar(&avatarURL, "avatar-url", "", "avatar image URL")
	cmd.Flags().StringVar(&dateOfBirth, "date-of-birth", "", "date of birth, YYYY-MM-DD")
	return cmd
}
