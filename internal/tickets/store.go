package tickets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds store configuration.
type Config struct {
	// Path is the SQLite database file.
	Path string
	// BusyTimeout is how long SQLite itself waits on a locked database
	// before reporting SQLITE_BUSY.
	BusyTimeout time.Duration
	// MaxRetries bounds the application-level retries after SQLITE_BUSY.
	MaxRetries int
	// RetryBase is the first backoff interval; it doubles per retry.
	RetryBase time.Duration
}

// DefaultPath returns the database location under the per-user
// configuration directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "tickets", "tickets.db")
}

// DefaultConfig returns the default configuration for the store.
func DefaultConfig() Config {
	return Config{
		Path:        DefaultPath(),
		BusyTimeout: 5 * time.Second,
		MaxRetries:  5,
		RetryBase:   20 * time.Millisecond,
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the record store for tickets and comments. It is safe for
// concurrent use and shares its database file with other processes.
type Store struct {
	db  *sql.DB
	cfg Config
}

// Open opens (creating if needed) the database at cfg.Path and ensures
// the schema exists. An error here is fatal for the caller: it wraps
// ErrStoreUnavailable.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultPath()
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 20 * time.Millisecond
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, fmt.Errorf("tickets: create data dir: %w: %w", ErrStoreUnavailable, err)
	}

	db, err := openDB("sqlite", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("tickets: open database: %w: %w", ErrStoreUnavailable, err)
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		if !errors.Is(err, ErrStoreUnavailable) {
			err = fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return nil, fmt.Errorf("tickets: schema: %w", err)
	}
	return s, nil
}

// dsn builds the connection string. Pragmas are applied to every pooled
// connection; busy_timeout comes first so the WAL switch can wait for a
// concurrent first-run process. Transactions begin IMMEDIATE so writers
// queue on the lock up front instead of failing on upgrade.
func dsn(cfg Config) string {
	pragmas := []string{
		fmt.Sprintf("busy_timeout(%d)", cfg.BusyTimeout.Milliseconds()),
		"journal_mode(WAL)",
		"synchronous(NORMAL)",
		"foreign_keys(1)",
	}
	params := make([]string, 0, len(pragmas)+1)
	for _, p := range pragmas {
		params = append(params, "_pragma="+p)
	}
	params = append(params, "_txlock=immediate")

	// The path is percent-escaped so '?', '#' and '%' in a directory name
	// stay part of the file name.
	path := filepath.ToSlash(cfg.Path)
	if filepath.VolumeName(cfg.Path) != "" {
		path = "/" + path
	}
	u := url.URL{Scheme: "file", OmitHost: true, Path: path, RawQuery: strings.Join(params, "&")}
	return u.String()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.cfg.Path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn in its own transaction, retrying the whole transaction
// with exponential backoff while SQLite reports lock contention. Errors
// returned by fn that are not contention are returned unchanged.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	backoff := retry.NewExponential(s.cfg.RetryBase)
	backoff = retry.WithCappedDuration(time.Second, backoff)
	backoff = retry.WithMaxRetries(uint64(s.cfg.MaxRetries), backoff)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return retryable(err)
		}
		defer tx.Rollback() //nolint:errcheck

		if err := fn(tx); err != nil {
			return retryable(err)
		}
		return retryable(tx.Commit())
	})
	if err == nil {
		return nil
	}
	if isUnavailable(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
	return err
}

func retryable(err error) error {
	if err != nil && isBusy(err) {
		return retry.RetryableError(err)
	}
	return err
}

// ─── Tickets ─────────────────────────────────────────────────────────────────

const ticketColumns = `t.id, t.project, t.title, t.description, t.status, t.priority, t.tags, t.created_at, t.updated_at`

// tagsJSON guards json_each against rows written in the legacy
// comma-joined format by another process.
const tagsJSON = `CASE WHEN json_valid(t.tags) THEN t.tags ELSE '[]' END`

// Create inserts a new pending ticket and returns it.
func (s *Store) Create(ctx context.Context, p CreateParams) (*Ticket, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if err := validateProject(p.Project); err != nil {
		return nil, err
	}
	priority := PriorityMedium
	if p.Priority != "" {
		var err error
		if priority, err = ParsePriority(string(p.Priority)); err != nil {
			return nil, err
		}
	}

	now := nowTimestamp()
	t := &Ticket{
		Project:     p.Project,
		Title:       title,
		Description: p.Description,
		Status:      StatusPending,
		Priority:    priority,
		Tags:        NormalizeTags(p.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
		Comments:    []Comment{},
	}

	err := s.withTx(ctx, "create ticket", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO tickets (project, title, description, status, priority, tags, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.Project, t.Title, t.Description, t.Status, t.Priority, encodeTags(t.Tags), now, now,
		)
		if err != nil {
			return err
		}
		t.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns a ticket with its comments, oldest first.
func (s *Store) Get(ctx context.Context, id int64) (*Ticket, error) {
	var t *Ticket
	err := s.withTx(ctx, "get ticket", func(tx *sql.Tx) error {
		var err error
		if t, err = getTicket(ctx, tx, id); err != nil {
			return err
		}
		t.Comments, err = listComments(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns the tickets matching opts, most recently updated first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Ticket, error) {
	if err := validateScope(opts.Project); err != nil {
		return nil, err
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets t WHERE 1=1`
	args := []any{}

	if opts.Project != AllProjects {
		query += " AND t.project = ?"
		args = append(args, opts.Project)
	}
	if opts.Status != "" {
		status, err := ParseStatus(string(opts.Status))
		if err != nil {
			return nil, err
		}
		query += " AND t.status = ?"
		args = append(args, status)
	}
	if opts.Priority != "" {
		priority, err := ParsePriority(string(opts.Priority))
		if err != nil {
			return nil, err
		}
		query += " AND t.priority = ?"
		args = append(args, priority)
	}
	if tag := strings.TrimSpace(opts.Tag); tag != "" {
		query += " AND EXISTS (SELECT 1 FROM json_each(" + tagsJSON + ") WHERE lower(value) = ?)"
		args = append(args, strings.ToLower(tag))
	}

	query += " ORDER BY t.updated_at DESC, t.id DESC"

	return s.queryTickets(ctx, "list tickets", query, args...)
}

// Update applies the non-nil fields of p and refreshes updated_at. An
// empty p returns the ticket unchanged.
func (s *Store) Update(ctx context.Context, id int64, p UpdateParams) (*Ticket, error) {
	sets := []string{}
	args := []any{}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		sets = append(sets, "title = ?")
		args = append(args, title)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	if p.Priority != nil {
		priority, err := ParsePriority(string(*p.Priority))
		if err != nil {
			return nil, err
		}
		sets = append(sets, "priority = ?")
		args = append(args, priority)
	}
	if p.Tags != nil {
		sets = append(sets, "tags = ?")
		args = append(args, encodeTags(*p.Tags))
	}

	if len(sets) == 0 {
		return s.Get(ctx, id)
	}

	var t *Ticket
	err := s.withTx(ctx, "update ticket", func(tx *sql.Tx) error {
		if err := touchTicket(ctx, tx, id, sets, args); err != nil {
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

// Delete removes a ticket and all of its comments.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return s.withTx(ctx, "delete ticket", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE ticket_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ticketNotFound(id)
		}
		return nil
	})
}

// touchTicket runs an UPDATE with the given SET clauses plus an
// updated_at refresh. updated_at never drops below created_at, even if
// the wall clock went backwards.
func touchTicket(ctx context.Context, tx *sql.Tx, id int64, sets []string, args []any) error {
	sets = append(sets, "updated_at = MAX(?, created_at)")
	args = append(args, nowTimestamp(), id)

	res, err := tx.ExecContext(ctx,
		`UPDATE tickets SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ticketNotFound(id)
	}
	return nil
}

func getTicket(ctx context.Context, tx *sql.Tx, id int64) (*Ticket, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM tickets t WHERE t.id = ?`, id)
	t, err := scanTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ticketNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) queryTickets(ctx context.Context, op, query string, args ...any) ([]Ticket, error) {
	results := []Ticket{}
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		results = results[:0]
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			t, err := scanTicket(rows)
			if err != nil {
				return err
			}
			results = append(results, *t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTicket(row scanner) (*Ticket, error) {
	var t Ticket
	var tags string
	if err := row.Scan(
		&t.ID, &t.Project, &t.Title, &t.Description, &t.Status, &t.Priority,
		&tags, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.Tags = decodeTags(tags)
	return &t, nil
}

func ticketNotFound(id int64) error {
	return fmt.Errorf("ticket #%d %w", id, ErrNotFound)
}

func validateProject(project string) error {
	if strings.TrimSpace(project) == "" {
		return fmt.Errorf("%w: project is required", ErrValidation)
	}
	if project == AllProjects {
		return fmt.Errorf("%w: %q is not a valid project for a new ticket", ErrValidation, AllProjects)
	}
	return nil
}

func validateScope(project string) error {
	if strings.TrimSpace(project) == "" {
		return fmt.Errorf("%w: project is required (use %q for all projects)", ErrValidation, AllProjects)
	}
	return nil
}

// ─── Comments ────────────────────────────────────────────────────────────────

// AddComment appends a comment to a ticket. It does not change the
// ticket's updated_at.
func (s *Store) AddComment(ctx context.Context, ticketID int64, author Author, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", ErrValidation)
	}
	author, err := ParseAuthor(string(author))
	if err != nil {
		return nil, err
	}

	c := &Comment{
		TicketID:  ticketID,
		Author:    author,
		Content:   content,
		CreatedAt: nowTimestamp(),
	}
	err = s.withTx(ctx, "add comment", func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM tickets WHERE id = ?`, ticketID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ticketNotFound(ticketID)
		}
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO comments (ticket_id, author, content, created_at) VALUES (?, ?, ?, ?)`,
			c.TicketID, c.Author, c.Content, c.CreatedAt,
		)
		if err != nil {
			return err
		}
		c.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func listComments(ctx context.Context, tx *sql.Tx, ticketID int64) ([]Comment, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, ticket_id, author, content, created_at
		 FROM comments
		 WHERE ticket_id = ?
		 ORDER BY created_at ASC, id ASC`,
		ticketID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.TicketID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		// An older writer may still be adding legacy author names.
		if author, err := ParseAuthor(string(c.Author)); err == nil {
			c.Author = author
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ─── Stats ───────────────────────────────────────────────────────────────────

// Stats counts tickets per status in the given scope and lists every
// known project, most recently active first.
func (s *Store) Stats(ctx context.Context, project string) (*Stats, error) {
	if err := validateScope(project); err != nil {
		return nil, err
	}

	stats := &Stats{Project: project}
	err := s.withTx(ctx, "ticket stats", func(tx *sql.Tx) error {
		stats.Total = 0
		stats.ByStatus = make(map[Status]int, len(Statuses))
		stats.Projects = []string{}
		for _, st := range Statuses {
			stats.ByStatus[st] = 0
		}

		query := `SELECT status, COUNT(*) FROM tickets`
		args := []any{}
		if project != AllProjects {
			query += ` WHERE project = ?`
			args = append(args, project)
		}
		query += ` GROUP BY status`

		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		for rows.Next() {
			var st Status
			var n int
			if err := rows.Scan(&st, &n); err != nil {
				_ = rows.Close()
				return err
			}
			stats.ByStatus[st] = n
			stats.Total += n
		}
		if err := rows.Close(); err != nil {
			return err
		}

		prows, err := tx.QueryContext(ctx,
			`SELECT project FROM tickets GROUP BY project ORDER BY MAX(updated_at) DESC`)
		if err != nil {
			return err
		}
		defer func() { _ = prows.Close() }()
		for prows.Next() {
			var p string
			if err := prows.Scan(&p); err != nil {
				return err
			}
			stats.Projects = append(stats.Projects, p)
		}
		return prows.Err()
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
