// Package resources implements MCP resource handlers for the ticket store.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (tickets://...) following MCP conventions.
package resources

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tickets/internal/project"
	"github.com/HendryAvila/tickets/internal/tickets"
)

const (
	SummaryURI = "tickets://project/summary"
	OpenURI    = "tickets://project/open"
)

// Handler manages ticket resource endpoints.
type Handler struct {
	store   *tickets.Store
	project *project.Resolver
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(store *tickets.Store, resolver *project.Resolver) *Handler {
	return &Handler{store: store, project: resolver}
}

// SummaryResource returns the MCP resource definition for the project summary.
func (h *Handler) SummaryResource() mcp.Resource {
	return mcp.NewResource(
		SummaryURI,
		"Ticket Summary",
		mcp.WithResourceDescription("Ticket counts per status for the current project, plus every known project"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleSummary returns the current project's stats as JSON.
func (h *Handler) HandleSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	proj, err := h.project.Current()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	stats, err := h.store.Stats(ctx, proj)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, stats)
}

// openWork is the payload of the open-tickets resource.
type openWork struct {
	Project string           `json:"project"`
	Tickets []tickets.Ticket `json:"tickets"`
}

// OpenResource returns the MCP resource definition for unclosed tickets.
func (h *Handler) OpenResource() mcp.Resource {
	return mcp.NewResource(
		OpenURI,
		"Open Tickets",
		mcp.WithResourceDescription("Every ticket in the current project that is not closed, most recently updated first"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleOpen returns the current project's unclosed tickets as JSON.
func (h *Handler) HandleOpen(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	proj, err := h.project.Current()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	all, err := h.store.List(ctx, tickets.ListOptions{Project: proj})
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	out := openWork{Project: proj, Tickets: []tickets.Ticket{}}
	for _, t := range all {
		if t.Status != tickets.StatusClosed {
			out.Tickets = append(out.Tickets, t)
		}
	}
	return jsonResource(req.Params.URI, out)
}
