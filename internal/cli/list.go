package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/tickets/internal/tickets"
)

func listCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets for the current project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			priority, _ := cmd.Flags().GetString("priority")
			tag, _ := cmd.Flags().GetString("tag")
			all, _ := cmd.Flags().GetBool("all-projects")

			scope, err := app.scope(all)
			if err != nil {
				return err
			}

			list, err := app.Store.List(cmd.Context(), tickets.ListOptions{
				Project:  scope,
				Status:   tickets.Status(status),
				Priority: tickets.Priority(priority),
				Tag:      tag,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, dim.Sprint("No tickets found."))
				return nil
			}
			printTickets(out, list, all)
			fmt.Fprintln(out, dim.Sprintf("%d ticket(s)", len(list)))
			return nil
		},
	}

	cmd.Flags().StringP("status", "s", "", "filter by status (pending, in_progress, ready_to_test, closed)")
	cmd.Flags().StringP("priority", "p", "", "filter by priority (high, medium, low)")
	cmd.Flags().StringP("tag", "t", "", "filter by tag")
	cmd.Flags().BoolP("all-projects", "a", false, "show tickets from all projects")
	return cmd
}

func searchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search tickets by title, description, and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]
			status, _ := cmd.Flags().GetString("status")
			all, _ := cmd.Flags().GetBool("all-projects")
			withComments, _ := cmd.Flags().GetBool("comments")

			scope, err := app.scope(all)
			if err != nil {
				return err
			}

			list, err := app.Store.Search(cmd.Context(), query, tickets.SearchOptions{
				Project:         scope,
				Status:          tickets.Status(status),
				IncludeComments: withComments,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, dim.Sprintf("No tickets matching '%s'.", query))
				return nil
			}
			fmt.Fprintln(out, bold.Sprintf("Search: '%s'", query))
			printTickets(out, list, all)
			fmt.Fprintln(out, dim.Sprintf("%d result(s)", len(list)))
			return nil
		},
	}

	cmd.Flags().StringP("status", "s", "", "filter by status")
	cmd.Flags().BoolP("all-projects", "a", false, "search across all projects")
	cmd.Flags().Bool("comments", false, "also match comment text")
	return cmd
}
