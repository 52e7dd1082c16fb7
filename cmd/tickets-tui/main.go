// tickets-tui: interactive terminal UI for the project ticket tracker.
//
// Browses and edits the tickets of the current project in the same
// database the tickets CLI and the tickets-mcp server use. Changes made
// by those processes show up on refresh (r).
//
// Usage:
//
//	tickets-tui [--project DIR] [--all]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/HendryAvila/tickets/internal/config"
	"github.com/HendryAvila/tickets/internal/logging"
	"github.com/HendryAvila/tickets/internal/project"
	"github.com/HendryAvila/tickets/internal/tickets"
	"github.com/HendryAvila/tickets/internal/tui"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configFile, projectFlag string

	flagSet := pflag.NewFlagSet("tickets-tui", pflag.ContinueOnError)
	flagSet.StringVar(&configFile, "config", os.Getenv("TICKETS_CONFIG"), "config file (default: <user config dir>/tickets/config.yaml)")
	flagSet.StringVarP(&projectFlag, "project", "P", "", "project identifier (default: current directory)")
	allFlag := flagSet.BoolP("all", "a", false, "start with all projects shown")
	versionFlag := flagSet.Bool("version", false, "print version and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if *versionFlag {
		fmt.Printf("tickets-tui %s\n", version)
		return nil
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	// The terminal belongs to bubbletea: log to a file or nowhere.
	logger := logging.Discard()
	if cfg.Log.File != "" {
		fileLogger, closeLog, err := logging.New(cfg.Log, io.Discard)
		if err != nil {
			return fmt.Errorf("opening log: %w", err)
		}
		defer closeLog.Close()
		logger = fileLogger
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := tickets.Open(ctx, cfg.Store())
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("tui started", "db", store.Path())

	resolver := project.New(project.FirstNonEmpty(projectFlag, cfg.Project))
	model := tui.NewModel(ctx, store, resolver, logger)
	if *allFlag {
		model = model.WithAllProjects()
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
