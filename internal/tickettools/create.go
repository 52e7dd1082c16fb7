package tickettools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tickets/internal/project"
	"github.com/HendryAvila/tickets/internal/tickets"
)

// CreateTool handles the create_ticket MCP tool.
type CreateTool struct {
	store   *tickets.Store
	project *project.Resolver
}

// NewCreateTool creates a CreateTool.
func NewCreateTool(store *tickets.Store, resolver *project.Resolver) *CreateTool {
	return &CreateTool{store: store, project: resolver}
}

// Definition returns the MCP tool definition for create_ticket.
func (t *CreateTool) Definition() mcp.Tool {
	return mcp.NewTool("create_ticket",
		mcp.WithDescription("Create a new ticket in the current project. New tickets start as pending."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Short title for the ticket"),
		),
		mcp.WithString("description",
			mcp.Description("Full description of the work to be done"),
		),
		mcp.WithString("priority",
			mcp.Description("Priority level: high, medium, low (default: medium)"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags for categorization (e.g. 'bug,auth')"),
		),
	)
}

// Handle processes the create_ticket tool call.
func (t *CreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}

	proj, err := t.project.Current()
	if err != nil {
		return errorResult(fmt.Errorf("resolve project: %w", err)), nil
	}

	tk, err := t.store.Create(ctx, tickets.CreateParams{
		Project:     proj,
		Title:       title,
		Description: req.GetString("description", ""),
		Priority:    tickets.Priority(req.GetString("priority", "")),
		Tags:        tickets.ParseTags(req.GetString("tags", "")),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created ticket #%d: %s", tk.ID, tk.Title)), nil
}
