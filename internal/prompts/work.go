package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// WorkPrompt handles the tickets-work MCP prompt.
// It walks the AI through one ticket using the advisory status flow.
type WorkPrompt struct{}

// NewWorkPrompt creates a WorkPrompt.
func NewWorkPrompt() *WorkPrompt {
	return &WorkPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *WorkPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("tickets-work",
		mcp.WithPromptDescription(
			"Work on a ticket: mark it in progress, do the work, document it "+
				"in comments, and hand it back for testing.",
		),
		mcp.WithArgument("ticket_id",
			mcp.ArgumentDescription("Ticket to work on. Default: the highest-priority pending ticket"),
		),
	)
}

// Handle processes the tickets-work prompt request.
func (p *WorkPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	pick := "Run `list_tickets` with status='pending' and pick the highest-priority ticket"
	desc := "Work on next pending ticket"
	if id := req.Params.Arguments["ticket_id"]; id != "" {
		pick = fmt.Sprintf("Run `get_ticket` with ticket_id=%s and read it, including comments", id)
		desc = fmt.Sprintf("Work on ticket #%s", id)
	}

	return &mcp.GetPromptResult{
		Description: desc,
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please work on a ticket from our tracker.\n\n"+
						"1. %s\n"+
						"2. Run `update_ticket_status` with status='in_progress'\n"+
						"3. Do the work, using `add_comment` to record findings and decisions\n"+
						"4. When done, add a comment summarizing what changed and how to test it\n"+
						"5. Run `update_ticket_status` with status='ready_to_test'; I will close it after testing\n\n"+
						"If I move a ticket from ready_to_test back to in_progress, read my latest comment first.",
					pick,
				)),
			},
		},
	}, nil
}
