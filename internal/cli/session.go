package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or change the stored session",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show whether a token is stored",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if rt.app.Session.Token() == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "no token stored")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "token stored")
				return nil
			},
		},
		&cobra.Command{
			Use:   "set-token <token>",
			Short: "Store a token without resolving it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				rt.app.Session.SetToken(cmd.Context(), args[0])
				fmt.Fprintln(cmd.OutOrStdout(), "token stored")
				return nil
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Clear the stored token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				rt.app.Auth.Logout(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "logged out")
				return nil
			},
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Resolve the stored token against the storefront API",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				user, err := rt.app.Session.LoadIdentity(cmd.Context())
				if err != nil {
					return err
				}
				if user == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "anonymous")
					return nil
				}
				role := "customer"
				if user.IsAdmin() {
					role = "admin"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.Email, role)
				return nil
			},
		},
	)
	return cmd
}
