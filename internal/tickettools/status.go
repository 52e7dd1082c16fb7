package tickettools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tickets/internal/tickets"
)

// StatusTool handles the update_ticket_status MCP tool.
type StatusTool struct {
	store *tickets.Store
}

// NewStatusTool creates a StatusTool.
func NewStatusTool(store *tickets.Store) *StatusTool {
	return &StatusTool{store: store}
}

// Definition returns the MCP tool definition for update_ticket_status.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("update_ticket_status",
		mcp.WithDescription(
			"Update the status of a ticket. Move to in_progress when starting work and to "+
				"ready_to_test when done; the human operator closes tickets after testing.",
		),
		mcp.WithNumber("ticket_id",
			mcp.Required(),
			mcp.Description("The ID of the ticket to update"),
		),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("New status: pending, in_progress, ready_to_test, closed"),
			mcp.Enum(string(tickets.StatusPending), string(tickets.StatusInProgress),
				string(tickets.StatusReadyToTest), string(tickets.StatusClosed)),
		),
	)
}

// Handle processes the update_ticket_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := idArg(req, "ticket_id")
	if !ok {
		return missingID("ticket_id"), nil
	}
	status, err := tickets.ParseStatus(req.GetString("status", ""))
	if err != nil {
		return errorResult(err), nil
	}

	tk, err := t.store.SetStatus(ctx, id, status)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Ticket #%d status updated to: %s", tk.ID, tk.Status)), nil
}
