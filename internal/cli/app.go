// Package cli implements the tickets command-line front-end: a cobra
// command tree over the shared ticket store, with colored terminal output.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/HendryAvila/tickets/internal/config"
	"github.com/HendryAvila/tickets/internal/logging"
	"github.com/HendryAvila/tickets/internal/project"
	"github.com/HendryAvila/tickets/internal/tickets"
)

// App holds the dependencies shared by every command. Fields left nil
// are filled in from configuration before the first command runs; tests
// set them directly.
type App struct {
	Config  *config.Config
	Store   *tickets.Store
	Project *project.Resolver
	Logger  *slog.Logger

	// In is read for interactive confirmation.
	In io.Reader
	// IsTerminal reports whether In is an interactive terminal.
	IsTerminal func() bool

	configFile      string
	projectOverride string
	closers         []func()
}

// NewApp returns an App wired to the process's stdin.
func NewApp() *App {
	return &App{
		In:         os.Stdin,
		IsTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

// open loads configuration and opens the store for whatever is missing.
func (a *App) open(ctx context.Context) error {
	if a.Config == nil {
		cfg, err := config.Load(a.configFile)
		if err != nil {
			return err
		}
		a.Config = cfg
	}
	if a.Logger == nil {
		logger, closer, err := logging.New(a.Config.Log, os.Stderr)
		if err != nil {
			return fmt.Errorf("opening log: %w", err)
		}
		a.Logger = logger
		a.closers = append(a.closers, func() { _ = closer.Close() })
	}
	if a.Project == nil {
		a.Project = project.New(project.FirstNonEmpty(a.projectOverride, a.Config.Project))
	}
	if a.Store == nil {
		store, err := tickets.Open(ctx, a.Config.Store())
		if err != nil {
			return err
		}
		a.Logger.Debug("store opened", "db", store.Path())
		a.Store = store
		a.closers = append(a.closers, func() { _ = store.Close() })
	}
	return nil
}

// Close releases everything open opened.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) scope(all bool) (string, error) {
	s, err := a.Project.Scope(all)
	if err != nil {
		return "", fmt.Errorf("resolving project: %w", err)
	}
	return s, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid ticket id %q", tickets.ErrValidation, s)
	}
	return id, nil
}
