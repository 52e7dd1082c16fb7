package tickets

import (
	"context"
	"database/sql"
	"fmt"
)

// --- Status workflow ---
//
// Any status may be set from any other status. The flow below is the
// intended path for a human+agent loop and is only advisory: front-ends
// use it to suggest the next step, the store never enforces it.
//
//	pending → in_progress → ready_to_test → closed
//	ready_to_test → in_progress   (operator rejects the work)

// AdvisoryFlow maps each status to the statuses a ticket usually moves to
// next, preferred transition first.
var AdvisoryFlow = map[Status][]Status{
	StatusPending:     {StatusInProgress},
	StatusInProgress:  {StatusReadyToTest},
	StatusReadyToTest: {StatusClosed, StatusInProgress},
	StatusClosed:      {},
}

// Next returns the preferred next status in the advisory flow, or false
// for closed tickets.
func (s Status) Next() (Status, bool) {
	next := AdvisoryFlow[s]
	if len(next) == 0 {
		return "", false
	}
	return next[0], true
}

// IsRejection reports whether moving from s to to is the operator
// sending work back to the agent.
func (s Status) IsRejection(to Status) bool {
	return s == StatusReadyToTest && to == StatusInProgress
}

// SetStatus moves a ticket to status and refreshes updated_at. No comment
// is recorded; callers add one if they want a trail.
func (s *Store) SetStatus(ctx context.Context, id int64, status Status) (*Ticket, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("%w %q: must be one of: pending, in_progress, ready_to_test, closed", ErrInvalidStatus, status)
	}

	var t *Ticket
	err := s.withTx(ctx, "set status", func(tx *sql.Tx) error {
		if err := touchTicket(ctx, tx, id, []string{"status = ?"}, []any{status}); err != nil {
			return err
		}
		var err error
		t, err = getTicket(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}
