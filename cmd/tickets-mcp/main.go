// tickets-mcp: MCP server for the project ticket tracker.
//
// Exposes the shared ticket store to an AI agent over the MCP stdio
// transport. The human operator works on the same database through the
// tickets CLI and the tickets-tui terminal UI.
//
// Usage:
//
//	tickets-mcp serve    # Start MCP server (stdio transport)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/HendryAvila/tickets/internal/config"
	"github.com/HendryAvila/tickets/internal/logging"
	ticketserver "github.com/HendryAvila/tickets/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("tickets-mcp v%s\n", ticketserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("TICKETS_CONFIG"))
	if err != nil {
		return err
	}

	// Logs go to stderr: stdout is the MCP transport.
	logger, closeLog, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closeLog.Close()

	// Graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, cleanup, err := ticketserver.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	stdio := server.NewStdioServer(s)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `tickets-mcp v%s: ticket tracker MCP server

Usage:
  tickets-mcp serve    Start the MCP server (stdio transport)

Environment:
  TICKETS_PROJECT      Project identifier (default: $CLAUDE_PROJECT_ROOT, then cwd)
  TICKETS_DB_PATH      Database file (default: <user config dir>/tickets/tickets.db)
  TICKETS_CONFIG       Explicit config.yaml path
  TICKETS_LOG_LEVEL    debug, info, warn, error

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "tickets": {
        "command": "tickets-mcp",
        "args": ["serve"]
      }
    }
  }
`, ticketserver.Version)
}
