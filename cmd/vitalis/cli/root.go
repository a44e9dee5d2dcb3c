// Package cli implements the vitalis command line client. Every command runs
// against an App produced by the Builder given to New, which lets tests point
// the commands at an in-memory backend.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"

	"github.com/tjper/vitalis/internal/client"
	"github.com/tjper/vitalis/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds the components commands run against.
type App struct {
	Logger  *zap.Logger
	Client  *client.Client
	Manager *session.Manager
	Flags   []Flag

	// Close releases resources held by the App. It may be nil.
	Close func()
}

// Flag is a resolved feature flag.
type Flag struct {
	Name    string
	Value   string
	Enabled bool
}

// Builder creates the App a command runs against.
type Builder func(ctx context.Context) (*App, error)

// New creates the root command.
func New(build Builder) *cobra.Command {
	h := &holder{}

	root := &cobra.Command{
		Use:   "vitalis",
		Short: "Command line client for the vitalis wellness platform",
		Long: `vitalis signs you in to the vitalis wellness platform, shows the session the
platform resolves for you and manages your account.

The session is resolved from the platform's identity endpoint. Anything that
prevents it from being resolved leaves you signed out as a guest.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app, err := build(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize; error: %w", err)
			}
			h.app = app
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if h.app != nil && h.app.Close != nil {
				h.app.Close()
			}
		},
	}

	root.AddCommand(
		newWhoamiCmd(h),
		newLoginCmd(h),
		newRegisterCmd(h),
		newLogoutCmd(h),
		newProfileCmd(h),
		newVerifyEmailCmd(h),
		newPasswordCmd(h),
		newEmailCmd(h),
		newAccountCmd(h),
		newFlagsCmd(h),
	)

	return root
}

// holder carries the App built by the root command to its subcommands.
type holder struct {
	app *App
}

// --- helpers ---

// resync refreshes the Session after a mutation and prints it.
func (h holder) resync(cmd *cobra.Command) {
	sess := h.app.Manager.Refresh(cmd.Context())
	printSession(cmd.OutOrStdout(), sess)
	warn(cmd.ErrOrStderr(), h.app.Manager.LastFailure())
}

func printSession(w io.Writer, sess session.Session) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "status:\t%s\n", sess.Status)
	if sess.Status != session.StatusGuest {
		fmt.Fprintf(tw, "role:\t%s\n", sess.Role)
		fmt.Fprintf(tw, "name:\t%s\n", sess.Name)
		fmt.Fprintf(tw, "email:\t%s\n", sess.Email)
		fmt.Fprintf(tw, "email verified:\t%t\n", sess.IsEmailVerified)
		if sess.CreatedAt != nil {
			fmt.Fprintf(tw, "member since:\t%s\n", sess.CreatedAt.Format("2006-01-02"))
		}
		for k, v := range sess.Stats {
			fmt.Fprintf(tw, "%s:\t%d\n", k, v)
		}
	}
	fmt.Fprintf(tw, "premium access:\t%t\n", session.HasPremiumAccess(&sess))
}

// warn reports session failures other than a plain rejection of the
// caller's credentials.
func warn(w io.Writer, failure *session.Failure) {
	if failure == nil || failure.Kind == session.FailureAuthentication && failure.Status == http.StatusUnauthorized {
		return
	}
	fmt.Fprintf(w, "warning: session unavailable (%s): %v\n", failure.Kind, failure.Err)
}

// describe converts client errors into a message fit for the terminal.
func describe(action string, err error) error {
	if valErr := client.AsValidationError(err); valErr != nil {
		return fmt.Errorf("%s: invalid input: %v", action, valErr)
	}
	if apiErr := client.AsAPIError(err); apiErr != nil {
		return fmt.Errorf("%s: %s", action, apiErr.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: the platform took too long to respond", action)
	}
	return fmt.Errorf("%s: %w", action, err)
}
