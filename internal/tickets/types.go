// Package tickets is the shared data-access layer behind every front-end:
// the ticket/comment model, the status workflow, project scoping, and
// search, all persisted in a single SQLite file that several processes
// (CLI invocations, the MCP server, a TUI session) open at once.
//
// Every exported Store method runs as one short transaction. Nothing is
// cached between calls, so each read observes the latest committed state.
package tickets

import (
	"fmt"
	"strings"
)

// AllProjects is the project sentinel that disables project scoping.
const AllProjects = "*"

// --- Status enum ---

// Status is the workflow state of a ticket.
type Status string

const (
	StatusPending     Status = "pending"
	StatusInProgress  Status = "in_progress"
	StatusReadyToTest Status = "ready_to_test"
	StatusClosed      Status = "closed"
)

// Statuses lists every status in advisory flow order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusReadyToTest, StatusClosed}

var validStatuses = map[Status]bool{
	StatusPending:     true,
	StatusInProgress:  true,
	StatusReadyToTest: true,
	StatusClosed:      true,
}

// ParseStatus validates s and returns it as a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	if !validStatuses[st] {
		return "", fmt.Errorf("%w %q: must be one of: pending, in_progress, ready_to_test, closed", ErrInvalidStatus, s)
	}
	return st, nil
}

// --- Priority enum ---

// Priority is the urgency of a ticket.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

var validPriorities = map[Priority]bool{
	PriorityHigh:   true,
	PriorityMedium: true,
	PriorityLow:    true,
}

// ParsePriority validates s and returns it as a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.TrimSpace(s))
	if !validPriorities[p] {
		return "", fmt.Errorf("%w %q: must be one of: high, medium, low", ErrInvalidPriority, s)
	}
	return p, nil
}

// --- Author roles ---

// Author identifies who wrote a comment.
type Author string

const (
	AuthorHuman Author = "human"
	AuthorAgent Author = "agent"
)

// legacyAuthors maps author strings written by earlier versions of the
// tracker onto the two fixed roles.
var legacyAuthors = map[string]Author{
	"user":   AuthorHuman,
	"claude": AuthorAgent,
}

// ParseAuthor validates s as an author role. The legacy values "user"
// and "claude" are accepted as aliases for human and agent.
func ParseAuthor(s string) (Author, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch Author(v) {
	case AuthorHuman, AuthorAgent:
		return Author(v), nil
	}
	if a, ok := legacyAuthors[v]; ok {
		return a, nil
	}
	return "", fmt.Errorf("%w %q: must be human or agent", ErrInvalidAuthor, s)
}

// --- Records ---

// Ticket is a unit of tracked work scoped to one project.
type Ticket struct {
	ID          int64     `json:"id"`
	Project     string    `json:"project"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	Tags        []string  `json:"tags"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
	Comments    []Comment `json:"comments,omitempty"`
}

// Comment is an append-only note attached to a ticket.
type Comment struct {
	ID        int64  `json:"id"`
	TicketID  int64  `json:"ticket_id"`
	Author    Author `json:"author"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// Stats summarizes the tickets visible in a scope.
type Stats struct {
	Project  string         `json:"project"`
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
	Projects []string       `json:"projects"`
}

// --- Params ---

// CreateParams holds the input for a new ticket. Priority defaults to
// medium when empty.
type CreateParams struct {
	Project     string   `json:"project"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// UpdateParams holds partial update fields. Nil fields are left unchanged.
type UpdateParams struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// IsEmpty reports whether no field is set.
func (p UpdateParams) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil && p.Tags == nil
}

// ListOptions filters List. Project is required; use AllProjects to
// disable scoping. Empty Status, Priority, or Tag means no filter.
type ListOptions struct {
	Project  string   `json:"project"`
	Status   Status   `json:"status,omitempty"`
	Priority Priority `json:"priority,omitempty"`
	Tag      string   `json:"tag,omitempty"`
}

// SearchOptions filters Search. An empty Project or AllProjects searches
// every project.
type SearchOptions struct {
	Project         string `json:"project,omitempty"`
	Status          Status `json:"status,omitempty"`
	IncludeComments bool   `json:"include_comments,omitempty"`
}
