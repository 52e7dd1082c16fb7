package tickets

import (
	"context"
	"database/sql"
)

// ─── Migrations ──────────────────────────────────────────────────────────────

const schema = `
	CREATE TABLE IF NOT EXISTS tickets (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		project     TEXT    NOT NULL,
		title       TEXT    NOT NULL,
		description TEXT    NOT NULL DEFAULT '',
		status      TEXT    NOT NULL DEFAULT 'pending',
		priority    TEXT    NOT NULL DEFAULT 'medium',
		tags        TEXT    NOT NULL DEFAULT '[]',
		created_at  TEXT    NOT NULL,
		updated_at  TEXT    NOT NULL
	);

	CREATE TABLE IF NOT EXISTS comments (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		ticket_id  INTEGER NOT NULL,
		author     TEXT    NOT NULL,
		content    TEXT    NOT NULL,
		created_at TEXT    NOT NULL,
		FOREIGN KEY (ticket_id) REFERENCES tickets(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_tickets_project ON tickets(project);
	CREATE INDEX IF NOT EXISTS idx_tickets_status  ON tickets(status);
	CREATE INDEX IF NOT EXISTS idx_tickets_updated ON tickets(updated_at DESC);
	CREATE INDEX IF NOT EXISTS idx_comments_ticket ON comments(ticket_id);
`

// ensureSchema creates both tables and their indexes if absent. It runs
// inside one IMMEDIATE transaction, so processes racing on first use
// serialize on the write lock and the IF NOT EXISTS guards make every
// run after the first a no-op.
func (s *Store) ensureSchema(ctx context.Context) error {
	return s.withTx(ctx, "ensure schema", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, schema); err != nil {
			return err
		}
		return normalizeLegacy(ctx, tx)
	})
}

// normalizeLegacy rewrites rows written by the earlier tracker, which
// stored tags comma-joined and used free-form author names.
func normalizeLegacy(ctx context.Context, tx *sql.Tx) error {
	_, _ = tx.ExecContext(ctx, `UPDATE comments SET author = 'human' WHERE author = 'user'`)  // best-effort migration cleanup
	_, _ = tx.ExecContext(ctx, `UPDATE comments SET author = 'agent' WHERE author = 'claude'`) // best-effort migration cleanup

	rows, err := tx.QueryContext(ctx,
		`SELECT id, COALESCE(tags, '') FROM tickets
		 WHERE CASE WHEN json_valid(tags) THEN json_type(tags) <> 'array' ELSE 1 END`)
	if err != nil {
		return err
	}

	type legacyRow struct {
		id   int64
		tags string
	}
	var legacy []legacyRow
	for rows.Next() {
		var r legacyRow
		if err := rows.Scan(&r.id, &r.tags); err != nil {
			_ = rows.Close()
			return err
		}
		legacy = append(legacy, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for _, r := range legacy {
		if _, err := tx.ExecContext(ctx,
			`UPDATE tickets SET tags = ? WHERE id = ?`, encodeTags(ParseTags(r.tags)), r.id,
		); err != nil {
			return err
		}
	}
	return nil
}
