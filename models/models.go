// Package models defines the data structures shared across the
// classification and description pipeline.
package models

import "time"

// EntryType distinguishes files from directories in a repository listing.
type EntryType string

const (
	EntryFile EntryType = "file"
	EntryDir  EntryType = "dir"
)

// FileEntry is a single name in a repository file listing.
type FileEntry struct {
	Name string    `json:"name"`
	Type EntryType `json:"type"`
}

// RepoType is the discrete project-type classification. The declaration
// order encodes detection priority when multiple signatures match.
type RepoType string

const (
	TypeMonorepo    RepoType = "monorepo"
	TypeApplication RepoType = "application"
	TypeTool        RepoType = "tool"
	TypeTemplate    RepoType = "template"
	TypeResource    RepoType = "resource"
	TypeLibrary     RepoType = "library"
	TypeNeutral     RepoType = "neutral"
)

// Confidence is the coarse reliability tier attached to a classification
// or to a stored description record.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Maintenance describes whether a repository has seen recent activity.
type Maintenance string

const (
	MaintenanceActive   Maintenance = "active"
	MaintenanceInactive Maintenance = "inactive"
)

// Maturity describes whether a repository has shipped anything.
type Maturity string

const (
	MaturityExperimental Maturity = "experimental"
	MaturityStable       Maturity = "stable"
)

// ClassificationResult is the detector's output. Stack preserves detection
// order with duplicates suppressed.
type ClassificationResult struct {
	Type           RepoType   `json:"type"`
	Stack          []string   `json:"stack"`
	IsExperimental bool       `json:"is_experimental"`
	Confidence     Confidence `json:"confidence"`
}

// RepoSignals is the normalized signal record the generation prompt is
// grounded on. RepoType is carried through as a weak hint only.
type RepoSignals struct {
	RepoType    RepoType    `json:"repo_type"`
	ProjectGoal string      `json:"project_goal"`
	TechStack   []string    `json:"tech_stack"`
	Maintenance Maintenance `json:"maintenance"`
	Maturity    Maturity    `json:"maturity"`
}

// DescriptionRecord is the persisted outcome of one successful
// generation+validation, keyed by repository URL. It is written exactly
// once per key and never mutated afterwards.
type DescriptionRecord struct {
	RepoURL        string      `json:"repo_url"`
	DescriptionMDX string      `json:"description_mdx"`
	RepoType       RepoType    `json:"repo_type"`
	Signals        RepoSignals `json:"signals"`
	Model          string      `json:"model"`
	Confidence     Confidence  `json:"confidence"`
	GeneratedAt    time.Time   `json:"generated_at"`
}

// ValidationResult reports whether generated text passed the output
// validator, with the first failing rule's reason when it did not.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// RepoFacts is everything the repo-data provider could learn about a
// repository. Any field may be zero when the provider could not fetch it;
// downstream stages treat absence as degraded input, never as an error.
type RepoFacts struct {
	Owner       string           `json:"owner"`
	Name        string           `json:"name"`
	URL         string           `json:"url"`
	Description string           `json:"description"`
	Topics      []string         `json:"topics"`
	Readme      string           `json:"readme"`
	Files       []FileEntry      `json:"files"`
	Languages   map[string]int64 `json:"languages"`
	Releases    int              `json:"releases"`
	UpdatedAt   *time.Time       `json:"updated_at,omitempty"`
}
