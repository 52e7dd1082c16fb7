package resources

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tickets/internal/project"
	"github.com/HendryAvila/tickets/internal/tickets"
)

func newTestHandler(t *testing.T) (*Handler, *tickets.Store) {
	t.Helper()
	store, err := tickets.Open(context.Background(), tickets.Config{
		Path:        filepath.Join(t.TempDir(), "tickets.db"),
		BusyTimeout: time.Second,
		MaxRetries:  3,
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewHandler(store, &project.Resolver{Override: "/p"}), store
}

func readReq(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func textOf(t *testing.T, contents []mcp.ResourceContents) mcp.TextResourceContents {
	t.Helper()
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content is %T, want TextResourceContents", contents[0])
	}
	return tc
}

func TestHandleSummary(t *testing.T) {
	h, store := newTestHandler(t)
	ctx := context.Background()

	tk, _ := store.Create(ctx, tickets.CreateParams{Project: "/p", Title: "a"})
	_, _ = store.Create(ctx, tickets.CreateParams{Project: "/p", Title: "b"})
	_, _ = store.Create(ctx, tickets.CreateParams{Project: "/q", Title: "c"})
	if _, err := store.SetStatus(ctx, tk.ID, tickets.StatusReadyToTest); err != nil {
		t.Fatal(err)
	}

	contents, err := h.HandleSummary(ctx, readReq(SummaryURI))
	if err != nil {
		t.Fatal(err)
	}
	tc := textOf(t, contents)
	if tc.MIMEType != "application/json" {
		t.Errorf("MIMEType = %q", tc.MIMEType)
	}

	var stats tickets.Stats
	if err := json.Unmarshal([]byte(tc.Text), &stats); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, tc.Text)
	}
	if stats.Project != "/p" || stats.Total != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ByStatus[tickets.StatusReadyToTest] != 1 || stats.ByStatus[tickets.StatusPending] != 1 {
		t.Errorf("ByStatus = %v", stats.ByStatus)
	}
	if len(stats.Projects) != 2 {
		t.Errorf("Projects = %v, want 2 entries", stats.Projects)
	}
}

func TestHandleOpen_SkipsClosed(t *testing.T) {
	h, store := newTestHandler(t)
	ctx := context.Background()

	open, _ := store.Create(ctx, tickets.CreateParams{Project: "/p", Title: "open"})
	done, _ := store.Create(ctx, tickets.CreateParams{Project: "/p", Title: "done"})
	if _, err := store.SetStatus(ctx, done.ID, tickets.StatusClosed); err != nil {
		t.Fatal(err)
	}

	contents, err := h.HandleOpen(ctx, readReq(OpenURI))
	if err != nil {
		t.Fatal(err)
	}

	var got openWork
	if err := json.Unmarshal([]byte(textOf(t, contents).Text), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Tickets) != 1 || got.Tickets[0].ID != open.ID {
		t.Errorf("tickets = %+v, want only #%d", got.Tickets, open.ID)
	}
}

func TestDefinitions(t *testing.T) {
	h, _ := newTestHandler(t)
	if h.SummaryResource().URI != SummaryURI {
		t.Errorf("summary URI = %q", h.SummaryResource().URI)
	}
	if h.OpenResource().URI != OpenURI {
		t.Errorf("open URI = %q", h.OpenResource().URI)
	}
}
