package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func deleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a ticket and its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			yes, _ := cmd.Flags().GetBool("yes")

			t, err := app.Store.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !yes {
				if app.IsTerminal == nil || !app.IsTerminal() {
					return fmt.Errorf("refusing to delete ticket #%d without confirmation: stdin is not a terminal (use --yes)", id)
				}
				fmt.Fprintf(out, "%s [y/N] ", yellow.Sprintf("Delete ticket #%d: %s?", id, t.Title))
				if !confirm(app) {
					fmt.Fprintln(out, dim.Sprint("Cancelled."))
					return nil
				}
			}

			if err := app.Store.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(out, green.Sprintf("✓ Deleted ticket #%d.", id))
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip confirmation")
	return cmd
}

func confirm(app *App) bool {
	line, err := bufio.NewReader(app.In).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
