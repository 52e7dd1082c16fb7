package tickettools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tickets/internal/tickets"
)

// CommentTool handles the add_comment MCP tool. Comments are always
// recorded with the agent role.
type CommentTool struct {
	store *tickets.Store
}

// NewCommentTool creates a CommentTool.
func NewCommentTool(store *tickets.Store) *CommentTool {
	return &CommentTool{store: store}
}

// Definition returns the MCP tool definition for add_comment.
func (t *CommentTool) Definition() mcp.Tool {
	return mcp.NewTool("add_comment",
		mcp.WithDescription("Add a comment to a ticket. Use this to document progress, findings, or notes for the operator."),
		mcp.WithNumber("ticket_id",
			mcp.Required(),
			mcp.Description("The ID of the ticket to comment on"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The comment text"),
		),
	)
}

// Handle processes the add_comment tool call.
func (t *CommentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := idArg(req, "ticket_id")
	if !ok {
		return missingID("ticket_id"), nil
	}
	content := req.GetString("content", "")
	if content == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}

	if _, err := t.store.AddComment(ctx, id, tickets.AuthorAgent, content); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added comment to ticket #%d.", id)), nil
}
