package server

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tickets/internal/config"
	"github.com/HendryAvila/tickets/internal/logging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DB: config.DBConfig{
			Path:        filepath.Join(t.TempDir(), "tickets.db"),
			BusyTimeout: time.Second,
			MaxRetries:  2,
		},
		Project: "/work/demo",
		Log:     config.LogConfig{Level: "error", Format: "console"},
	}
}

func TestNew_RegistersEverything(t *testing.T) {
	s, cleanup, err := New(context.Background(), testConfig(t), logging.Discard())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer cleanup()

	tools := s.ListTools()
	for _, name := range []string{
		"list_tickets", "get_ticket", "create_ticket",
		"update_ticket_status", "add_comment", "search_tickets",
	} {
		if _, ok := tools[name]; !ok {
			t.Errorf("tool %q not registered", name)
		}
	}
	if len(tools) != 6 {
		t.Errorf("registered %d tools, want 6", len(tools))
	}
}

func TestNew_UnusableStoreFails(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg.DB.Path = filepath.Join(blocker, "tickets.db")

	_, cleanup, err := New(context.Background(), cfg, logging.Discard())
	if err == nil {
		t.Fatal("expected error for unusable database path")
	}
	if cleanup == nil {
		t.Error("cleanup must never be nil")
	}
	cleanup()
}

func TestLogged_PassesThrough(t *testing.T) {
	want := mcp.NewToolResultText("ok")
	h := logged(logging.Discard(), "x", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return want, nil
	})
	got, err := h(context.Background(), mcp.CallToolRequest{})
	if err != nil || got != want {
		t.Errorf("logged() = %v, %v", got, err)
	}

	boom := errors.New("boom")
	h = logged(logging.Discard(), "x", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, boom
	})
	if _, err := h(context.Background(), mcp.CallToolRequest{}); !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
}

func TestServerInstructions_MentionsEveryTool(t *testing.T) {
	text := serverInstructions()
	for _, name := range []string{"list_tickets", "get_ticket", "search_tickets", "create_ticket", "update_ticket_status", "add_comment"} {
		if !strings.Contains(text, name) {
			t.Errorf("instructions missing %q", name)
		}
	}
}
