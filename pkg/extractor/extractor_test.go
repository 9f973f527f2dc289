package extractor

import (
	"strings"
	"testing"
	"time"

	"github.com/repolens/repolens/models"
)

func TestResolveGoal(t *testing.T) {
	// Exactly 19 and 21 characters after cleaning, around the >20 rule.
	line19 := strings.Repeat("a", 19)
	line21 := strings.Repeat("a", 21)

	tests := []struct {
		name        string
		description string
		readme      string
		want        string
	}{
		{
			name:        "description wins verbatim",
			description: "A tiny parser for config files.",
			readme:      "# Something else entirely that is long enough",
			want:        "A tiny parser for config files.",
		},
		{
			name:        "whitespace-only description falls through",
			description: "   ",
			readme:      "This readme line is definitely long enough to use.",
			want:        "This readme line is definitely long enough to use.",
		},
		{
			name:   "heading stripped, short first line skipped",
			readme: "# Title\nThis is a sufficiently long first real sentence of readme content.",
			want:   "This is a sufficiently long first real sentence of readme content.",
		},
		{
			name:   "19 chars after cleaning rejected",
			readme: "## " + line19,
			want:   GoalPlaceholder,
		},
		{
			name:   "21 chars after cleaning accepted",
			readme: "## " + line21,
			want:   line21,
		},
		{
			name:   "exactly 20 chars rejected",
			readme: strings.Repeat("a", 20),
			want:   GoalPlaceholder,
		},
		{
			name: "no readme at all",
			want: GoalPlaceholder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveGoal(tt.description, tt.readme)
			if got != tt.want {
				t.Errorf("resolveGoal() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTopLanguages(t *testing.T) {
	tests := []struct {
		name      string
		languages map[string]int64
		want      []string
	}{
		{
			name:      "top two by bytes descending",
			languages: map[string]int64{"Go": 9000, "TypeScript": 4000, "Shell": 100},
			want:      []string{"Go", "TypeScript"},
		},
		{
			name:      "single language",
			languages: map[string]int64{"Rust": 42},
			want:      []string{"Rust"},
		},
		{
			name:      "byte ties break by name",
			languages: map[string]int64{"Zig": 500, "C": 500},
			want:      []string{"C", "Zig"},
		},
		{
			name:      "empty map",
			languages: nil,
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopLanguages(tt.languages)
			if len(got) != len(tt.want) {
				t.Fatalf("TopLanguages() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("TopLanguages()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMaintenance_Boundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	boundary := now.Add(-activeWindow)

	tests := []struct {
		name      string
		updatedAt *time.Time
		want      models.Maintenance
	}{
		{"nil timestamp", nil, models.MaintenanceInactive},
		{"exactly 60 days is active", &boundary, models.MaintenanceActive},
		{
			"60 days minus one second is active",
			timePtr(boundary.Add(time.Second)),
			models.MaintenanceActive,
		},
		{
			"60 days plus one second is inactive",
			timePtr(boundary.Add(-time.Second)),
			models.MaintenanceInactive,
		},
		{"yesterday", timePtr(now.Add(-24 * time.Hour)), models.MaintenanceActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := maintenance(tt.updatedAt, now)
			if got != tt.want {
				t.Errorf("maintenance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestBuildSignals(t *testing.T) {
	updated := time.Now().Add(-24 * time.Hour)
	facts := models.RepoFacts{
		Description: "Deterministic repository classification.",
		Languages:   map[string]int64{"Go": 1000},
		Releases:    3,
		UpdatedAt:   &updated,
	}

	got := BuildSignals(facts, models.TypeLibrary)

	if got.RepoType != models.TypeLibrary {
		t.Errorf("RepoType = %v, want library", got.RepoType)
	}
	if got.ProjectGoal != facts.Description {
		t.Errorf("ProjectGoal = %q, want description", got.ProjectGoal)
	}
	if len(got.TechStack) != 1 || got.TechStack[0] != "Go" {
		t.Errorf("TechStack = %v, want [Go]", got.TechStack)
	}
	if got.Maintenance != models.MaintenanceActive {
		t.Errorf("Maintenance = %v, want active", got.Maintenance)
	}
	if got.Maturity != models.MaturityStable {
		t.Errorf("Maturity = %v, want stable", got.Maturity)
	}
}

func TestBuildSignals_AllFallbacks(t *testing.T) {
	got := BuildSignals(models.RepoFacts{}, models.TypeNeutral)

	if got.ProjectGoal != GoalPlaceholder {
		t.Errorf("ProjectGoal = %q, want placeholder", got.ProjectGoal)
	}
	if len(got.TechStack) != 0 {
		t.Errorf("TechStack = %v, want empty", got.TechStack)
	}
	if got.Maintenance != models.MaintenanceInactive {
		t.Errorf("Maintenance = %v, want inactive", got.Maintenance)
	}
	if got.Maturity != models.MaturityExperimental {
		t.Errorf("Maturity = %v, want experimental", got.Maturity)
	}
}
