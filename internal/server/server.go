// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it opens the ticket store, resolves the
// project, and injects both into the tools, prompts, and resources that
// depend on them. No business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/HendryAvila/tickets/internal/config"
	"github.com/HendryAvila/tickets/internal/project"
	"github.com/HendryAvila/tickets/internal/prompts"
	"github.com/HendryAvila/tickets/internal/resources"
	"github.com/HendryAvila/tickets/internal/tickets"
	"github.com/HendryAvila/tickets/internal/tickettools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ProjectRootEnv is set by the agent host to the directory it was
// launched for. It takes precedence over the working directory but not
// over an explicit TICKETS_PROJECT.
const ProjectRootEnv = "CLAUDE_PROJECT_ROOT"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. Unlike the tools, the store is not optional:
// if it cannot be opened New fails and the binary exits.
//
// The returned cleanup function closes the store and must be called on
// shutdown (typically via defer). It is always non-nil.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*server.MCPServer, func(), error) {
	// --- Create shared dependencies ---

	store, err := tickets.Open(ctx, cfg.Store())
	if err != nil {
		return nil, noop, fmt.Errorf("opening ticket store: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("ticket store close", "error", err)
		}
	}

	resolver := project.New(project.FirstNonEmpty(cfg.Project, os.Getenv(ProjectRootEnv)))
	proj, err := resolver.Current()
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("resolving project: %w", err)
	}
	logger.Info("ticket server ready", "db", store.Path(), "project", proj)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"tickets",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register ticket tools ---

	registerTicketTools(s, store, resolver, logger)

	// --- Register prompts ---

	triagePrompt := prompts.NewTriagePrompt()
	s.AddPrompt(triagePrompt.Definition(), triagePrompt.Handle)

	workPrompt := prompts.NewWorkPrompt()
	s.AddPrompt(workPrompt.Definition(), workPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(store, resolver)
	s.AddResource(resourceHandler.SummaryResource(), resourceHandler.HandleSummary)
	s.AddResource(resourceHandler.OpenResource(), resourceHandler.HandleOpen)

	return s, cleanup, nil
}

// noop is the cleanup returned when nothing was opened.
func noop() {}

// toolDef is what every tickettools handler exposes.
type toolDef interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// registerTicketTools registers the six ticket MCP tools with the server.
func registerTicketTools(s *server.MCPServer, store *tickets.Store, resolver *project.Resolver, logger *slog.Logger) {
	all := []toolDef{
		// --- Query ---
		tickettools.NewListTool(store, resolver),
		tickettools.NewGetTool(store),
		tickettools.NewSearchTool(store, resolver),

		// --- Mutation ---
		tickettools.NewCreateTool(store, resolver),
		tickettools.NewStatusTool(store),
		tickettools.NewCommentTool(store),
	}
	for _, t := range all {
		def := t.Definition()
		s.AddTool(def, logged(logger, def.Name, t.Handle))
	}
}

// logged records each tool call at debug level and tool errors at warn.
func logged(logger *slog.Logger, name string, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		res, err := next(ctx, req)
		elapsed := time.Since(start)

		switch {
		case err != nil:
			logger.Error("tool failed", "tool", name, "duration", elapsed, "error", err)
		case res != nil && res.IsError:
			logger.Warn("tool returned error", "tool", name, "duration", elapsed)
		default:
			logger.Debug("tool call", "tool", name, "duration", elapsed)
		}
		return res, err
	}
}

// serverInstructions returns the system instructions that tell the AI
// how to use the tracker.
func serverInstructions() string {
	return `You have access to a lightweight ticket tracker shared with the human operator.
Tickets belong to the current project; the operator sees the same tickets from a CLI and a terminal UI.

## WORKFLOW

Statuses: pending → in_progress → ready_to_test → closed

- At the start of a session, run list_tickets to see pending work.
- Before starting a ticket, run update_ticket_status with status='in_progress'.
- Record findings, decisions, and blockers with add_comment as you go.
- When the work is done, add a comment explaining what changed and how to test it,
  then set status='ready_to_test'.
- Do NOT close tickets yourself. The operator closes them after testing, or moves
  them back to in_progress with a comment explaining what is wrong.

## TOOLS

- list_tickets: filter by status, priority, or tag
- get_ticket: full details and comments
- search_tickets: substring search over title, description, tags, and comments
- create_ticket: new pending ticket (title required; priority high|medium|low; comma-separated tags)
- update_ticket_status: any status may be set, the flow above is a convention
- add_comment: your comments are recorded with the agent role`
}
