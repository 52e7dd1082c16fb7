package tickettools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tickets/internal/tickets"
)

// GetTool handles the get_ticket MCP tool.
type GetTool struct {
	store *tickets.Store
}

// NewGetTool creates a GetTool.
func NewGetTool(store *tickets.Store) *GetTool {
	return &GetTool{store: store}
}

// Definition returns the MCP tool definition for get_ticket.
func (t *GetTool) Definition() mcp.Tool {
	return mcp.NewTool("get_ticket",
		mcp.WithDescription("Get full details of a ticket including all comments."),
		mcp.WithNumber("ticket_id",
			mcp.Required(),
			mcp.Description("The ID of the ticket to retrieve"),
		),
	)
}

// Handle processes the get_ticket tool call.
func (t *GetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := idArg(req, "ticket_id")
	if !ok {
		return missingID("ticket_id"), nil
	}

	tk, err := t.store.Get(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatTicket(tk)), nil
}

func formatTicket(tk *tickets.Ticket) string {
	tags := "none"
	if len(tk.Tags) > 0 {
		tags = tickets.JoinTags(tk.Tags)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ticket #%d: %s\n", tk.ID, tk.Title)
	fmt.Fprintf(&b, "Status: %s\n", tk.Status)
	if next, ok := tk.Status.Next(); ok {
		fmt.Fprintf(&b, "Suggested next status: %s\n", next)
	}
	fmt.Fprintf(&b, "Priority: %s\n", tk.Priority)
	fmt.Fprintf(&b, "Tags: %s\n", tags)
	fmt.Fprintf(&b, "Project: %s\n", tk.Project)
	fmt.Fprintf(&b, "Created: %s\n", tk.CreatedAt)
	fmt.Fprintf(&b, "Updated: %s\n", tk.UpdatedAt)
	b.WriteString("\nDescription:\n")
	if tk.Description == "" {
		b.WriteString("(none)")
	} else {
		b.WriteString(tk.Description)
	}

	if len(tk.Comments) > 0 {
		fmt.Fprintf(&b, "\n\nComments (%d):", len(tk.Comments))
		for _, c := range tk.Comments {
			fmt.Fprintf(&b, "\n  [%s] %s: %s", c.Author, shortTime(c.CreatedAt), c.Content)
		}
	}
	return b.String()
}

// shortTime trims a stored timestamp to seconds.
func shortTime(ts string) string {
	if len(ts) >= 19 {
		return ts[:19]
	}
	return ts
}
