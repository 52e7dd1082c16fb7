package tickettools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tickets/internal/project"
	"github.com/HendryAvila/tickets/internal/tickets"
)

// ListTool handles the list_tickets MCP tool.
type ListTool struct {
	store   *tickets.Store
	project *project.Resolver
}

// NewListTool creates a ListTool.
func NewListTool(store *tickets.Store, resolver *project.Resolver) *ListTool {
	return &ListTool{store: store, project: resolver}
}

// Definition returns the MCP tool definition for list_tickets.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("list_tickets",
		mcp.WithDescription(
			"List tickets for the current project, most recently updated first. "+
				"Check this at the start of a session to find pending work.",
		),
		mcp.WithString("status",
			mcp.Description("Filter by status: pending, in_progress, ready_to_test, closed"),
		),
		mcp.WithString("priority",
			mcp.Description("Filter by priority: high, medium, low"),
		),
		mcp.WithString("tag",
			mcp.Description("Filter by a single tag (exact match)"),
		),
		mcp.WithBoolean("all_projects",
			mcp.Description("List tickets from every project instead of only the current one (default: false)"),
		),
	)
}

// Handle processes the list_tickets tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all := boolArg(req, "all_projects", false)
	scope, err := t.project.Scope(all)
	if err != nil {
		return errorResult(fmt.Errorf("resolve project: %w", err)), nil
	}

	list, err := t.store.List(ctx, tickets.ListOptions{
		Project:  scope,
		Status:   tickets.Status(req.GetString("status", "")),
		Priority: tickets.Priority(req.GetString("priority", "")),
		Tag:      req.GetString("tag", ""),
	})
	if err != nil {
		return errorResult(err), nil
	}

	if len(list) == 0 {
		return mcp.NewToolResultText("No tickets found for this project."), nil
	}
	return mcp.NewToolResultText(ticketList(fmt.Sprintf("Found %d ticket(s):", len(list)), list, all)), nil
}
