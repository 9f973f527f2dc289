package caching

import (
	"testing"
	"time"

	"github.com/repolens/repolens/models"
)

func record(repoURL, description string) *models.DescriptionRecord {
	return &models.DescriptionRecord{
		RepoURL:        repoURL,
		DescriptionMDX: description,
		RepoType:       models.TypeTool,
		Signals: models.RepoSignals{
			RepoType:    models.TypeTool,
			ProjectGoal: "A command line formatter.",
			TechStack:   []string{"Go"},
			Maintenance: models.MaintenanceActive,
			Maturity:    models.MaturityStable,
		},
		Model:       "gemini-2.0-flash",
		Confidence:  models.ConfidenceHigh,
		GeneratedAt: time.Now().UTC(),
	}
}

func TestMemoryStore_SaveAndFind(t *testing.T) {
	store, err := NewMemoryStore(8)
	if err != nil {
		t.Fatalf("NewMemoryStore() failed: %v", err)
	}

	want := record("https://github.com/acme/fmt", "Formats files.")
	if err := store.SaveDescription(want); err != nil {
		t.Fatalf("SaveDescription() failed: %v", err)
	}

	got, err := store.FindByRepoURL(want.RepoURL)
	if err != nil {
		t.Fatalf("FindByRepoURL() failed: %v", err)
	}
	if got == nil || got.DescriptionMDX != want.DescriptionMDX {
		t.Errorf("FindByRepoURL() = %+v, want saved record", got)
	}
}

func TestMemoryStore_MissReturnsNil(t *testing.T) {
	store, err := NewMemoryStore(8)
	if err != nil {
		t.Fatalf("NewMemoryStore() failed: %v", err)
	}

	got, err := store.FindByRepoURL("https://github.com/acme/none")
	if err != nil {
		t.Fatalf("FindByRepoURL() failed: %v", err)
	}
	if got != nil {
		t.Errorf("FindByRepoURL() = %+v, want nil", got)
	}
}

func TestMemoryStore_LastWriteWins(t *testing.T) {
	store, err := NewMemoryStore(8)
	if err != nil {
		t.Fatalf("NewMemoryStore() failed: %v", err)
	}

	repoURL := "https://github.com/acme/fmt"
	if err := store.SaveDescription(record(repoURL, "First.")); err != nil {
		t.Fatalf("SaveDescription() failed: %v", err)
	}
	if err := store.SaveDescription(record(repoURL, "Second.")); err != nil {
		t.Fatalf("SaveDescription() failed: %v", err)
	}

	got, err := store.FindByRepoURL(repoURL)
	if err != nil {
		t.Fatalf("FindByRepoURL() failed: %v", err)
	}
	if got.DescriptionMDX != "Second." {
		t.Errorf("DescriptionMDX = %q, want second write", got.DescriptionMDX)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after overwrite", store.Len())
	}
}

// Stored records are copies; mutating a returned record must not change
// what the store serves next.
func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store, err := NewMemoryStore(8)
	if err != nil {
		t.Fatalf("NewMemoryStore() failed: %v", err)
	}

	repoURL := "https://github.com/acme/fmt"
	if err := store.SaveDescription(record(repoURL, "Original.")); err != nil {
		t.Fatalf("SaveDescription() failed: %v", err)
	}

	first, _ := store.FindByRepoURL(repoURL)
	first.DescriptionMDX = "Mutated."

	second, _ := store.FindByRepoURL(repoURL)
	if second.DescriptionMDX != "Original." {
		t.Errorf("DescriptionMDX = %q, caller mutation leaked into store", second.DescriptionMDX)
	}
}

// The tech stack slice must be copied too, not just the struct: mutating
// the caller's slice after a save, or a returned record's slice, must not
// change what the store serves.
func TestMemoryStore_StackSliceIsolated(t *testing.T) {
	store, err := NewMemoryStore(8)
	if err != nil {
		t.Fatalf("NewMemoryStore() failed: %v", err)
	}

	repoURL := "https://github.com/acme/fmt"
	saved := record(repoURL, "Original.")
	if err := store.SaveDescription(saved); err != nil {
		t.Fatalf("SaveDescription() failed: %v", err)
	}
	saved.Signals.TechStack[0] = "Rust"

	first, _ := store.FindByRepoURL(repoURL)
	if got := first.Signals.TechStack[0]; got != "Go" {
		t.Fatalf("TechStack[0] = %q after caller mutation, want %q", got, "Go")
	}

	first.Signals.TechStack[0] = "Python"
	second, _ := store.FindByRepoURL(repoURL)
	if got := second.Signals.TechStack[0]; got != "Go" {
		t.Errorf("TechStack[0] = %q after reader mutation, want %q", got, "Go")
	}
}
