package tickettools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tickets/internal/project"
	"github.com/HendryAvila/tickets/internal/tickets"
)

// SearchTool handles the search_tickets MCP tool.
type SearchTool struct {
	store   *tickets.Store
	project *project.Resolver
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(store *tickets.Store, resolver *project.Resolver) *SearchTool {
	return &SearchTool{store: store, project: resolver}
}

// Definition returns the MCP tool definition for search_tickets.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("search_tickets",
		mcp.WithDescription(
			"Search tickets in the current project. Matches a case-insensitive substring "+
				"against title, description, each tag, and comments.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to search for"),
		),
		mcp.WithString("status",
			mcp.Description("Optional status filter: pending, in_progress, ready_to_test, closed"),
		),
		mcp.WithBoolean("include_comments",
			mcp.Description("Also match comment text (default: true)"),
		),
		mcp.WithBoolean("all_projects",
			mcp.Description("Search every project instead of only the current one (default: false)"),
		),
	)
}

// Handle processes the search_tickets tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}

	all := boolArg(req, "all_projects", false)
	scope, err := t.project.Scope(all)
	if err != nil {
		return errorResult(fmt.Errorf("resolve project: %w", err)), nil
	}

	list, err := t.store.Search(ctx, query, tickets.SearchOptions{
		Project:         scope,
		Status:          tickets.Status(req.GetString("status", "")),
		IncludeComments: boolArg(req, "include_comments", true),
	})
	if err != nil {
		return errorResult(err), nil
	}

	if len(list) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No tickets matching %q.", query)), nil
	}
	header := fmt.Sprintf("Found %d ticket(s) matching %q:", len(list), query)
	return mcp.NewToolResultText(ticketList(header, list, all)), nil
}
