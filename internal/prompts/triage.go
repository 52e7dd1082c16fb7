// Package prompts implements MCP prompt handlers for the ticket workflow.
//
// Prompts are started by the operator, like slash commands, and hand the
// agent a fixed sequence of ticket tool calls to run.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// TriagePrompt handles the tickets-triage MCP prompt.
// It instructs the AI to review the project's ticket board.
type TriagePrompt struct{}

// NewTriagePrompt creates a TriagePrompt.
func NewTriagePrompt() *TriagePrompt {
	return &TriagePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *TriagePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("tickets-triage",
		mcp.WithPromptDescription(
			"Review the ticket board for this project: what is waiting, "+
				"what is in flight, and what needs the operator's testing.",
		),
	)
}

// Handle processes the tickets-triage prompt request.
func (p *TriagePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Ticket triage",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `list_tickets` for this project.\n\n" +
						"Then:\n" +
						"1. Group the tickets by status and show them in a compact table\n" +
						"2. Point out tickets that are ready_to_test, since those wait on me\n" +
						"3. Flag high-priority tickets still pending\n" +
						"4. Suggest which pending ticket you should pick up next and why",
				),
			},
		},
	}, nil
}
