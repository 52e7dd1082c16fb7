package tickets

import (
	"context"
	"errors"
	"testing"
)

func TestSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	authTitle := mustCreate(t, s, CreateParams{Project: "p", Title: "Add AUTHENTICATION"})
	authTag := mustCreate(t, s, CreateParams{Project: "p", Title: "Login form", Tags: []string{"auth"}})
	authoring := mustCreate(t, s, CreateParams{Project: "p", Title: "Docs", Tags: []string{"authoring"}})
	inDesc := mustCreate(t, s, CreateParams{Project: "p", Title: "Session", Description: "token refresh for oauth"})
	mustCreate(t, s, CreateParams{Project: "p", Title: "Unrelated", Tags: []string{"ui"}})
	otherProject := mustCreate(t, s, CreateParams{Project: "q", Title: "auth in another project"})

	tests := []struct {
		name  string
		query string
		opts  SearchOptions
		want  []int64
	}{
		{
			name:  "title description and tag tokens",
			query: "auth",
			opts:  SearchOptions{Project: "p"},
			want:  []int64{inDesc.ID, authoring.ID, authTag.ID, authTitle.ID},
		},
		{
			name:  "case insensitive",
			query: "AuTh",
			opts:  SearchOptions{Project: "p"},
			want:  []int64{inDesc.ID, authoring.ID, authTag.ID, authTitle.ID},
		},
		{
			name:  "all projects",
			query: "auth",
			opts:  SearchOptions{Project: AllProjects},
			want:  []int64{otherProject.ID, inDesc.ID, authoring.ID, authTag.ID, authTitle.ID},
		},
		{
			name:  "empty project means all",
			query: "another",
			opts:  SearchOptions{},
			want:  []int64{otherProject.ID},
		},
		{
			name:  "scoped to other project",
			query: "auth",
			opts:  SearchOptions{Project: "q"},
			want:  []int64{otherProject.ID},
		},
		{
			name:  "no match",
			query: "kubernetes",
			opts:  SearchOptions{Project: "p"},
			want:  []int64{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Search(ctx, tt.query, tt.opts)
			if err != nil {
				t.Fatalf("Search(%q) error: %v", tt.query, err)
			}
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("Search(%q) ids = %v, want %v", tt.query, ids(got), tt.want)
			}
		})
	}
}

func TestSearch_NeverSpansTagBoundary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, CreateParams{Project: "p", Title: "Ticket", Tags: []string{"auth", "bug"}})

	for _, q := range []string{"auth,bug", "h,b", "auth, bug"} {
		got, err := s.Search(ctx, q, SearchOptions{Project: "p"})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Errorf("Search(%q) matched %v, want nothing", q, ids(got))
		}
	}
}

func TestSearch_WildcardsAreLiteral(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pct := mustCreate(t, s, CreateParams{Project: "p", Title: "Coverage at 100% please"})
	mustCreate(t, s, CreateParams{Project: "p", Title: "Coverage at 1000 lines"})
	under := mustCreate(t, s, CreateParams{Project: "p", Title: "rename snake_case fields"})
	mustCreate(t, s, CreateParams{Project: "p", Title: "snakeXcase"})

	got, err := s.Search(ctx, "0%", SearchOptions{Project: "p"})
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(ids(got), []int64{pct.ID}) {
		t.Errorf("Search(0%%) ids = %v, want [%d]", ids(got), pct.ID)
	}

	got, err = s.Search(ctx, "e_c", SearchOptions{Project: "p"})
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(ids(got), []int64{under.ID}) {
		t.Errorf("Search(e_c) ids = %v, want [%d]", ids(got), under.ID)
	}
}

func TestSearch_StatusFilterAndComments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	open := mustCreate(t, s, CreateParams{Project: "p", Title: "cache layer"})
	done := mustCreate(t, s, CreateParams{Project: "p", Title: "cache eviction"})
	if _, err := s.SetStatus(ctx, done.ID, StatusClosed); err != nil {
		t.Fatal(err)
	}
	quiet := mustCreate(t, s, CreateParams{Project: "p", Title: "perf work"})
	if _, err := s.AddComment(ctx, quiet.ID, AuthorAgent, "Added a CACHE in front of the DB"); err != nil {
		t.Fatal(err)
	}

	got, err := s.Search(ctx, "cache", SearchOptions{Project: "p", Status: StatusPending})
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(ids(got), []int64{open.ID}) {
		t.Errorf("pending ids = %v, want [%d]", ids(got), open.ID)
	}

	got, err = s.Search(ctx, "cache", SearchOptions{Project: "p", Status: StatusPending, IncludeComments: true})
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(ids(got), []int64{quiet.ID, open.ID}) {
		t.Errorf("with comments ids = %v, want [%d %d]", ids(got), quiet.ID, open.ID)
	}
}

func TestSearch_Validation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Search(ctx, "   ", SearchOptions{Project: "p"}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty query: error = %v, want ErrValidation", err)
	}
	if _, err := s.Search(ctx, "x", SearchOptions{Status: "done"}); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status: error = %v, want ErrInvalidStatus", err)
	}
}
