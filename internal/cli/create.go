package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/tickets/internal/tickets"
)

func createCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create TITLE [DESCRIPTION]",
		Short: "Create a new ticket in the current project",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, _ := cmd.Flags().GetString("priority")
			tags, _ := cmd.Flags().GetString("tags")

			description := ""
			if len(args) > 1 {
				description = args[1]
			}

			proj, err := app.scope(false)
			if err != nil {
				return err
			}

			t, err := app.Store.Create(cmd.Context(), tickets.CreateParams{
				Project:     proj,
				Title:       args[0],
				Description: description,
				Priority:    tickets.Priority(priority),
				Tags:        tickets.ParseTags(tags),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green.Sprintf("✓ Created ticket #%d:", t.ID), t.Title)
			return nil
		},
	}

	cmd.Flags().StringP("priority", "p", string(tickets.PriorityMedium), "priority (high, medium, low)")
	cmd.Flags().StringP("tags", "t", "", "comma-separated tags")
	return cmd
}

func editCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a ticket's title, description, priority, or tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var p tickets.UpdateParams
			flags := cmd.Flags()
			if flags.Changed("title") {
				v, _ := flags.GetString("title")
				p.Title = &v
			}
			if flags.Changed("description") {
				v, _ := flags.GetString("description")
				p.Description = &v
			}
			if flags.Changed("priority") {
				v, _ := flags.GetString("priority")
				pr := tickets.Priority(v)
				p.Priority = &pr
			}
			if flags.Changed("tags") {
				v, _ := flags.GetString("tags")
				tags := tickets.ParseTags(v)
				p.Tags = &tags
			}

			out := cmd.OutOrStdout()
			if p.IsEmpty() {
				fmt.Fprintln(out, yellow.Sprint("No changes specified."))
				return nil
			}

			if _, err := app.Store.Update(cmd.Context(), id, p); err != nil {
				return err
			}
			fmt.Fprintln(out, green.Sprintf("✓ Updated ticket #%d.", id))
			return nil
		},
	}

	cmd.Flags().String("title", "", "new title")
	cmd.Flags().StringP("description", "d", "", "new description")
	cmd.Flags().StringP("priority", "p", "", "new priority (high, medium, low)")
	cmd.Flags().String("tags", "", "new comma-separated tags (empty clears)")
	return cmd
}
