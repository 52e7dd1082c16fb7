package tickets

import (
	"context"
	"fmt"
	"strings"
)

// Search returns tickets whose title, description, or any single tag
// contains query. Matching is an ASCII case-insensitive substring test
// done with instr(), so LIKE wildcards in query are literal. Tags are
// matched token by token through json_each, so a query can never match
// across the boundary between two tags. Results are ordered like List.
func (s *Store) Search(ctx context.Context, query string, opts SearchOptions) ([]Ticket, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrValidation)
	}

	match := []string{
		"instr(lower(t.title), lower(?)) > 0",
		"instr(lower(t.description), lower(?)) > 0",
		"EXISTS (SELECT 1 FROM json_each(" + tagsJSON + ") WHERE instr(lower(value), lower(?)) > 0)",
	}
	args := []any{query, query, query}

	if opts.IncludeComments {
		match = append(match,
			"EXISTS (SELECT 1 FROM comments c WHERE c.ticket_id = t.id AND instr(lower(c.content), lower(?)) > 0)")
		args = append(args, query)
	}

	sqlStr := `SELECT ` + ticketColumns + ` FROM tickets t WHERE (` + strings.Join(match, " OR ") + `)`

	if opts.Project != "" && opts.Project != AllProjects {
		sqlStr += " AND t.project = ?"
		args = append(args, opts.Project)
	}
	if opts.Status != "" {
		status, err := ParseStatus(string(opts.Status))
		if err != nil {
			return nil, err
		}
		sqlStr += " AND t.status = ?"
		args = append(args, status)
	}

	sqlStr += " ORDER BY t.updated_at DESC, t.id DESC"

	return s.queryTickets(ctx, "search tickets", sqlStr, args...)
}
