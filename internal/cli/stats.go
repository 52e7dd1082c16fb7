package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/tickets/internal/tickets"
)

func statsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show ticket counts per status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all-projects")
			scope, err := app.scope(all)
			if err != nil {
				return err
			}

			st, err := app.Store.Stats(cmd.Context(), scope)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			label := projectName(st.Project)
			if all {
				label = "all projects"
			}
			fmt.Fprintln(out, bold.Sprintf("Tickets in %s", label))

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, s := range tickets.Statuses {
				fmt.Fprintf(tw, "  %s\t%d\n", statusText(s), st.ByStatus[s])
			}
			fmt.Fprintf(tw, "  %s\t%d\n", bold.Sprint("total"), st.Total)
			_ = tw.Flush()

			if all && len(st.Projects) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, bold.Sprint("Projects (most recently active first):"))
				for _, p := range st.Projects {
					fmt.Fprintf(out, "  %s\n", p)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolP("all-projects", "a", false, "count tickets from all projects")
	return cmd
}
