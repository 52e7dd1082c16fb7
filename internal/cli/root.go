package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewRootCmd builds the full command tree around app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:     "tickets",
		Short:   "Project-scoped ticket tracker shared with your AI agent",
		Version: Version,
		Long: `tickets manages lightweight work tickets for the current project.
The same tickets are visible to your AI agent through tickets-mcp and in
the tickets-tui terminal UI.

Workflow: pending → in_progress → ready_to_test → closed`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
		},
	}

	root.PersistentFlags().StringVar(&app.configFile, "config", "", "config file (default: <user config dir>/tickets/config.yaml)")
	root.PersistentFlags().StringVar(&app.projectOverride, "project", "", "project identifier (default: current directory)")

	root.AddCommand(listCmd(app))
	root.AddCommand(showCmd(app))
	root.AddCommand(searchCmd(app))
	root.AddCommand(createCmd(app))
	root.AddCommand(editCmd(app))
	root.AddCommand(statusCmd(app))
	root.AddCommand(deleteCmd(app))
	root.AddCommand(commentCmd(app))
	root.AddCommand(statsCmd(app))
	root.AddCommand(versionCmd())

	return root
}

// Execute runs the command tree and reports a failure on stderr. It
// returns the process exit code.
func Execute(ctx context.Context, app *App, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		app.Close()
		fmt.Fprintf(stderr, "%s %v\n", color.New(color.FgRed).Sprint("Error:"), err)
		return 1
	}
	return 0
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// No store needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		PersistentPostRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tickets v%s\n", Version)
		},
	}
}
