package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRouteCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Evaluate the navigation guard",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <path>",
		Short: "Show where a navigation to path would end up for the stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := rt.app.Guard.Before(cmd.Context(), args[0])
			if d.Allowed() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s [%s] allowed\n", args[0], d.Tier)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s [%s] redirect %s (%s)\n", args[0], d.Tier, d.Redirect, d.Reason)
			return nil
		},
	})
	return cmd
}
