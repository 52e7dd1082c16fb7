package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/tickets/internal/tickets"
)

func commentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "comment ID MESSAGE",
		Short: "Add a comment to a ticket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := app.Store.AddComment(cmd.Context(), id, tickets.AuthorHuman, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), green.Sprintf("✓ Added comment to ticket #%d.", id))
			return nil
		},
	}
}
