package tickettools

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tickets/internal/project"
	"github.com/HendryAvila/tickets/internal/tickets"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

const testProject = "/work/demo"

// newTestStore creates a tickets.Store in a temp directory for testing.
func newTestStore(t *testing.T) *tickets.Store {
	t.Helper()
	store, err := tickets.Open(context.Background(), tickets.Config{
		Path:        filepath.Join(t.TempDir(), "tickets.db"),
		BusyTimeout: 2 * time.Second,
		MaxRetries:  3,
		RetryBase:   10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testResolver() *project.Resolver {
	return &project.Resolver{Override: testProject}
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func mustNotError(t *testing.T, result *mcp.CallToolResult, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("result is nil")
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(result))
	}
}

func mustToolError(t *testing.T, result *mcp.CallToolResult, err error, want string) {
	t.Helper()
	if err != nil {
		t.Fatalf("tool errors must not be protocol errors, got: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatalf("expected tool error, got: %s", resultText(result))
	}
	if !strings.Contains(resultText(result), want) {
		t.Errorf("error text = %q, want it to contain %q", resultText(result), want)
	}
}

func seed(t *testing.T, store *tickets.Store, p tickets.CreateParams) *tickets.Ticket {
	t.Helper()
	if p.Project == "" {
		p.Project = testProject
	}
	tk, err := store.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return tk
}

func requiredParams(def mcp.Tool) map[string]bool {
	out := map[string]bool{}
	for _, r := range def.InputSchema.Required {
		out[r] = true
	}
	return out
}

// ─── Definitions ─────────────────────────────────────────────────────────────

func TestDefinitions(t *testing.T) {
	store := newTestStore(t)
	res := testResolver()

	tests := []struct {
		def      mcp.Tool
		name     string
		required []string
	}{
		{NewListTool(store, res).Definition(), "list_tickets", nil},
		{NewGetTool(store).Definition(), "get_ticket", []string{"ticket_id"}},
		{NewCreateTool(store, res).Definition(), "create_ticket", []string{"title"}},
		{NewStatusTool(store).Definition(), "update_ticket_status", []string{"ticket_id", "status"}},
		{NewCommentTool(store).Definition(), "add_comment", []string{"ticket_id", "content"}},
		{NewSearchTool(store, res).Definition(), "search_tickets", []string{"query"}},
	}
	for _, tt := range tests {
		if tt.def.Name != tt.name {
			t.Errorf("tool name = %q, want %q", tt.def.Name, tt.name)
		}
		req := requiredParams(tt.def)
		for _, r := range tt.required {
			if !req[r] {
				t.Errorf("%s: %q should be required", tt.name, r)
			}
			if _, ok := tt.def.InputSchema.Properties[r]; !ok {
				t.Errorf("%s: missing %q parameter", tt.name, r)
			}
		}
	}
}

// ─── create_ticket ───────────────────────────────────────────────────────────

func TestCreateTool_CreatesInCurrentProject(t *testing.T) {
	store := newTestStore(t)
	tool := NewCreateTool(store, testResolver())

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"title":       "Fix crash",
		"description": "NPE on save",
		"priority":    "high",
		"tags":        "bug, crash",
	}))
	mustNotError(t, result, err)

	if text := resultText(result); !strings.Contains(text, "Created ticket #1: Fix crash") {
		t.Errorf("unexpected response: %s", text)
	}

	tk, err := store.Get(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if tk.Project != testProject || tk.Priority != tickets.PriorityHigh || tk.Status != tickets.StatusPending {
		t.Errorf("unexpected ticket: %+v", tk)
	}
	if len(tk.Tags) != 2 || tk.Tags[1] != "crash" {
		t.Errorf("Tags = %v, want [bug crash]", tk.Tags)
	}
}

func TestCreateTool_Errors(t *testing.T) {
	store := newTestStore(t)
	tool := NewCreateTool(store, testResolver())

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	mustToolError(t, result, err, "'title' is required")

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"title":    "x",
		"priority": "urgent",
	}))
	mustToolError(t, result, err, "invalid priority")
}

// ─── list_tickets ────────────────────────────────────────────────────────────

func TestListTool(t *testing.T) {
	store := newTestStore(t)
	tool := NewListTool(store, testResolver())

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "No tickets found") {
		t.Errorf("expected empty message, got: %s", resultText(result))
	}

	seed(t, store, tickets.CreateParams{Title: "Mine", Priority: tickets.PriorityHigh, Tags: []string{"bug"}})
	seed(t, store, tickets.CreateParams{Title: "Also mine"})
	seed(t, store, tickets.CreateParams{Project: "/elsewhere", Title: "Not mine"})

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	mustNotError(t, result, err)
	text := resultText(result)
	if !strings.Contains(text, "Found 2 ticket(s)") {
		t.Errorf("expected 2 tickets, got: %s", text)
	}
	if !strings.Contains(text, "#1 [pending] [high] [bug] Mine") {
		t.Errorf("missing formatted line, got: %s", text)
	}
	if strings.Contains(text, "Not mine") {
		t.Errorf("other project leaked into list: %s", text)
	}

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{"all_projects": true}))
	mustNotError(t, result, err)
	if text := resultText(result); !strings.Contains(text, "Not mine") || !strings.Contains(text, "(/elsewhere)") {
		t.Errorf("all_projects should include other projects with their name, got: %s", text)
	}

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{"tag": "bug"}))
	mustNotError(t, result, err)
	if text := resultText(result); !strings.Contains(text, "Found 1 ticket(s)") {
		t.Errorf("tag filter: got %s", text)
	}

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{"status": "done"}))
	mustToolError(t, result, err, "invalid status")
}

// ─── get_ticket ──────────────────────────────────────────────────────────────

func TestGetTool(t *testing.T) {
	store := newTestStore(t)
	tk := seed(t, store, tickets.CreateParams{Title: "Write docs", Description: "README first"})
	if _, err := store.AddComment(context.Background(), tk.ID, tickets.AuthorHuman, "please hurry"); err != nil {
		t.Fatal(err)
	}
	tool := NewGetTool(store)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"ticket_id": float64(tk.ID)}))
	mustNotError(t, result, err)

	text := resultText(result)
	for _, want := range []string{
		"Ticket #1: Write docs",
		"Status: pending",
		"Suggested next status: in_progress",
		"Tags: none",
		"Project: " + testProject,
		"README first",
		"Comments (1):",
		"[human]",
		"please hurry",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("response missing %q:\n%s", want, text)
		}
	}
}

func TestGetTool_Errors(t *testing.T) {
	tool := NewGetTool(newTestStore(t))

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"ticket_id": float64(42)}))
	mustToolError(t, result, err, "ticket #42 not found")

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	mustToolError(t, result, err, "'ticket_id' is required")

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{"ticket_id": 1.5}))
	mustToolError(t, result, err, "'ticket_id' is required")
}

func TestIDArg_AcceptsNumericString(t *testing.T) {
	id, ok := idArg(makeReq(map[string]interface{}{"ticket_id": " 7 "}), "ticket_id")
	if !ok || id != 7 {
		t.Errorf("idArg = %d, %v; want 7, true", id, ok)
	}
	if _, ok := idArg(makeReq(map[string]interface{}{"ticket_id": "seven"}), "ticket_id"); ok {
		t.Error("non-numeric string should be rejected")
	}
	if _, ok := idArg(makeReq(map[string]interface{}{"ticket_id": float64(-3)}), "ticket_id"); ok {
		t.Error("negative id should be rejected")
	}
}

// ─── update_ticket_status ────────────────────────────────────────────────────

func TestStatusTool(t *testing.T) {
	store := newTestStore(t)
	tk := seed(t, store, tickets.CreateParams{Title: "t"})
	tool := NewStatusTool(store)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"ticket_id": float64(tk.ID),
		"status":    "ready_to_test",
	}))
	mustNotError(t, result, err)
	if text := resultText(result); text != "Ticket #1 status updated to: ready_to_test" {
		t.Errorf("unexpected response: %s", text)
	}

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"ticket_id": float64(tk.ID),
		"status":    "done",
	}))
	mustToolError(t, result, err, "invalid status")

	got, _ := store.Get(context.Background(), tk.ID)
	if got.Status != tickets.StatusReadyToTest {
		t.Errorf("status = %q, want unchanged ready_to_test", got.Status)
	}

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"ticket_id": float64(99),
		"status":    "closed",
	}))
	mustToolError(t, result, err, "not found")
}

// ─── add_comment ─────────────────────────────────────────────────────────────

func TestCommentTool_RecordsAgentAuthor(t *testing.T) {
	store := newTestStore(t)
	tk := seed(t, store, tickets.CreateParams{Title: "t"})
	tool := NewCommentTool(store)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"ticket_id": float64(tk.ID),
		"content":   "Investigating",
	}))
	mustNotError(t, result, err)
	if text := resultText(result); text != "Added comment to ticket #1." {
		t.Errorf("unexpected response: %s", text)
	}

	got, err := store.Get(context.Background(), tk.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Comments) != 1 || got.Comments[0].Author != tickets.AuthorAgent {
		t.Errorf("Comments = %+v, want one agent comment", got.Comments)
	}

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{"ticket_id": float64(tk.ID)}))
	mustToolError(t, result, err, "'content' is required")

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"ticket_id": float64(500),
		"content":   "hello",
	}))
	mustToolError(t, result, err, "not found")
}

// ─── search_tickets ──────────────────────────────────────────────────────────

func TestSearchTool(t *testing.T) {
	store := newTestStore(t)
	auth := seed(t, store, tickets.CreateParams{Title: "Add authentication"})
	quiet := seed(t, store, tickets.CreateParams{Title: "Perf"})
	seed(t, store, tickets.CreateParams{Project: "/elsewhere", Title: "auth elsewhere"})
	if _, err := store.AddComment(context.Background(), quiet.ID, tickets.AuthorAgent, "touches the Auth module"); err != nil {
		t.Fatal(err)
	}
	tool := NewSearchTool(store, testResolver())

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"query": "AUTH"}))
	mustNotError(t, result, err)
	text := resultText(result)
	if !strings.Contains(text, `Found 2 ticket(s) matching "AUTH"`) {
		t.Errorf("expected 2 matches including comment match, got: %s", text)
	}
	if strings.Contains(text, "elsewhere") {
		t.Errorf("search leaked other project: %s", text)
	}

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"query":            "auth",
		"include_comments": false,
	}))
	mustNotError(t, result, err)
	text = resultText(result)
	if !strings.Contains(text, "Found 1 ticket(s)") || !strings.Contains(text, auth.Title) {
		t.Errorf("without comments expected only %q, got: %s", auth.Title, text)
	}

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"query":        "auth",
		"all_projects": true,
	}))
	mustNotError(t, result, err)
	if text := resultText(result); !strings.Contains(text, "auth elsewhere") {
		t.Errorf("all_projects should include other projects, got: %s", text)
	}

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{"query": "zzz"}))
	mustNotError(t, result, err)
	if text := resultText(result); !strings.Contains(text, `No tickets matching "zzz"`) {
		t.Errorf("unexpected empty response: %s", text)
	}

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	mustToolError(t, result, err, "'query' is required")
}

// ─── Scenario ────────────────────────────────────────────────────────────────

func TestAgentLoop(t *testing.T) {
	store := newTestStore(t)
	res := testResolver()
	ctx := context.Background()

	create := NewCreateTool(store, res)
	status := NewStatusTool(store)
	comment := NewCommentTool(store)
	get := NewGetTool(store)

	r, err := create.Handle(ctx, makeReq(map[string]interface{}{"title": "Fix crash", "description": "NPE"}))
	mustNotError(t, r, err)

	for _, args := range []map[string]interface{}{
		{"ticket_id": float64(1), "status": "in_progress"},
		{"ticket_id": float64(1), "status": "ready_to_test"},
	} {
		r, err = status.Handle(ctx, makeReq(args))
		mustNotError(t, r, err)
	}
	r, err = comment.Handle(ctx, makeReq(map[string]interface{}{"ticket_id": float64(1), "content": "Fixed in save()"}))
	mustNotError(t, r, err)

	r, err = get.Handle(ctx, makeReq(map[string]interface{}{"ticket_id": float64(1)}))
	mustNotError(t, r, err)
	text := resultText(r)
	if !strings.Contains(text, "Status: ready_to_test") || !strings.Contains(text, "[agent]") {
		t.Errorf("unexpected final state:\n%s", text)
	}
}
