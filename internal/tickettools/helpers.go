// Package tickettools provides MCP tool handlers for the ticket store.
//
// Each tool handler follows the same pattern:
// - A struct with dependencies (tickets.Store, project.Resolver) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Every failure is reported as a tool result error the agent can read,
// never as a protocol error.
package tickettools

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tickets/internal/tickets"
)

// idArg extracts a ticket ID. JSON numbers arrive as float64; some
// clients send numeric strings.
func idArg(req mcp.CallToolRequest, key string) (int64, bool) {
	switch v := req.GetArguments()[key].(type) {
	case float64:
		if v != float64(int64(v)) || v <= 0 {
			return 0, false
		}
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err))
}

func missingID(key string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("'%s' is required and must be a positive integer", key))
}

// ticketLine renders a one-line summary: #12 [pending] [high] [bug,auth] Title
func ticketLine(t tickets.Ticket) string {
	tags := ""
	if len(t.Tags) > 0 {
		tags = " [" + tickets.JoinTags(t.Tags) + "]"
	}
	return fmt.Sprintf("#%d [%s] [%s]%s %s", t.ID, t.Status, t.Priority, tags, t.Title)
}

func ticketList(header string, list []tickets.Ticket, allProjects bool) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for _, t := range list {
		b.WriteString(ticketLine(t))
		if allProjects {
			fmt.Fprintf(&b, "  (%s)", t.Project)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
