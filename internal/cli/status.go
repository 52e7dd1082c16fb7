package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/tickets/internal/tickets"
)

func statusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Change a ticket's status",
		Long: `Change a ticket's status. Any status may be set; the usual flow is

  pending → in_progress → ready_to_test → closed

Moving a ready_to_test ticket back to in_progress rejects the agent's work;
add a comment saying what is wrong.`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"pending", "in_progress", "ready_to_test", "closed"},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := tickets.ParseStatus(args[1])
			if err != nil {
				return err
			}

			before, err := app.Store.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			t, err := app.Store.SetStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", green.Sprintf("✓ Ticket #%d status changed to", t.ID), statusText(t.Status))
			if before.Status.IsRejection(t.Status) {
				fmt.Fprintln(out, dim.Sprintf("  Tip: explain what failed with `tickets comment %d \"...\"`", t.ID))
			}
			return nil
		},
	}
}
