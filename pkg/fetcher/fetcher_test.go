package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/repolens/repolens/models"
)

// newTestGitHub wires a GitHub provider against a stub API server.
func newTestGitHub(t *testing.T, handler http.Handler) *GitHub {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	g := NewGitHub("", 5*time.Second)
	g.baseURL = server.URL
	return g
}

func TestFacts_FullRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/parser", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"full_name": "acme/parser",
			"html_url": "https://github.com/acme/parser",
			"description": "A deterministic parser.",
			"topics": ["parser", "cli"],
			"default_branch": "main",
			"pushed_at": "2026-02-01T10:00:00Z"
		}`))
	})
	mux.HandleFunc("/repos/acme/parser/readme", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept"), "raw") {
			t.Errorf("readme request Accept = %q, want raw media type", r.Header.Get("Accept"))
		}
		w.Write([]byte("# parser\nParses configuration files."))
	})
	mux.HandleFunc("/repos/acme/parser/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tree": [
			{"path": "go.mod", "type": "blob"},
			{"path": "cmd", "type": "tree"},
			{"path": "cmd/parser/main.go", "type": "blob"}
		], "truncated": false}`))
	})
	mux.HandleFunc("/repos/acme/parser/languages", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Go": 12345, "Makefile": 120}`))
	})
	mux.HandleFunc("/repos/acme/parser/releases", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"tag_name": "v1.0.0"}, {"tag_name": "v0.9.0"}]`))
	})

	g := newTestGitHub(t, mux)
	facts, err := g.Facts(context.Background(), "acme", "parser")
	if err != nil {
		t.Fatalf("Facts() failed: %v", err)
	}

	if facts.Description != "A deterministic parser." {
		t.Errorf("Description = %q", facts.Description)
	}
	if len(facts.Topics) != 2 {
		t.Errorf("Topics = %v, want 2 entries", facts.Topics)
	}
	if !strings.Contains(facts.Readme, "Parses configuration files.") {
		t.Errorf("Readme = %q", facts.Readme)
	}
	if len(facts.Files) != 3 {
		t.Fatalf("Files = %v, want 3 entries", facts.Files)
	}
	if facts.Files[1].Type != models.EntryDir {
		t.Errorf("cmd entry type = %v, want dir", facts.Files[1].Type)
	}
	if facts.Languages["Go"] != 12345 {
		t.Errorf("Languages = %v", facts.Languages)
	}
	if facts.Releases != 2 {
		t.Errorf("Releases = %d, want 2", facts.Releases)
	}
	if facts.UpdatedAt == nil || !facts.UpdatedAt.Equal(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("UpdatedAt = %v", facts.UpdatedAt)
	}
}

// Everything except the metadata call may fail without failing the fetch.
func TestFacts_DegradedFields(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/bare", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"full_name": "acme/bare", "default_branch": "main"}`))
	})
	// readme, tree, languages, releases all 404.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	g := newTestGitHub(t, mux)
	facts, err := g.Facts(context.Background(), "acme", "bare")
	if err != nil {
		t.Fatalf("Facts() failed on degraded input: %v", err)
	}

	if facts.Readme != "" {
		t.Errorf("Readme = %q, want empty", facts.Readme)
	}
	if len(facts.Files) != 0 {
		t.Errorf("Files = %v, want empty", facts.Files)
	}
	if facts.Releases != 0 {
		t.Errorf("Releases = %d, want 0", facts.Releases)
	}
	if facts.UpdatedAt != nil {
		t.Errorf("UpdatedAt = %v, want nil", facts.UpdatedAt)
	}
	if facts.URL != "https://github.com/acme/bare" {
		t.Errorf("URL = %q, want constructed fallback", facts.URL)
	}
}

func TestFacts_RepositoryNotFound(t *testing.T) {
	g := newTestGitHub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := g.Facts(context.Background(), "acme", "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Facts() error = %v, want ErrNotFound", err)
	}
}

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain markdown untouched",
			in:   "# Title\nSome *markdown* text with a < b comparisons.",
			want: "# Title\nSome *markdown* text with a < b comparisons.",
		},
		{
			name: "centered header flattened",
			in:   "<p align=\"center\"><b>parser</b></p>\nParses files.",
			want: "parser\nParses files.",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanHTML(tt.in); got != tt.want {
				t.Errorf("CleanHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}
