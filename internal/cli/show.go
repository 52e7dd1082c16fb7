package cli

import (
	"github.com/spf13/cobra"
)

func showCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a ticket with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := app.Store.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			printTicket(cmd.OutOrStdout(), t)
			return nil
		},
	}
}
