// Package extractor builds the normalized signal record the generation
// prompt is grounded on: project goal, top languages, maintenance and
// maturity. Every branch has a defined fallback; extraction never fails.
package extractor

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/repolens/repolens/models"
)

// GoalPlaceholder is the fixed fallback when neither the description nor
// the README yields a usable goal sentence.
const GoalPlaceholder = "The purpose of this project is not clearly documented."

// maxStackEntries caps how many languages the signal record carries.
const maxStackEntries = 2

// minGoalLineLength is the cleaned README line length a goal candidate
// must exceed.
const minGoalLineLength = 20

// activeWindow is how recently a repository must have been updated to
// count as actively maintained. The boundary is inclusive.
const activeWindow = 60 * 24 * time.Hour

var headingMarker = regexp.MustCompile(`^#+\s*`)

// BuildSignals derives a RepoSignals record from raw repository facts and
// the classifier's type. The type is carried through as a weak hint only.
func BuildSignals(facts models.RepoFacts, repoType models.RepoType) models.RepoSignals {
	return models.RepoSignals{
		RepoType:    repoType,
		ProjectGoal: resolveGoal(facts.Description, facts.Readme),
		TechStack:   TopLanguages(facts.Languages),
		Maintenance: maintenance(facts.UpdatedAt, time.Now()),
		Maturity:    maturity(facts.Releases),
	}
}

// TopLanguages ranks the language byte-count map descending and returns
// at most the top two names. Byte-count ties break by name so the result
// is reproducible.
func TopLanguages(languages map[string]int64) []string {
	type langBytes struct {
		name  string
		bytes int64
	}

	ranked := make([]langBytes, 0, len(languages))
	for name, bytes := range languages {
		ranked = append(ranked, langBytes{name, bytes})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].bytes != ranked[j].bytes {
			return ranked[i].bytes > ranked[j].bytes
		}
		return ranked[i].name < ranked[j].name
	})

	top := []string{}
	for i, l := range ranked {
		if i == maxStackEntries {
			break
		}
		top = append(top, l.name)
	}
	return top
}

// resolveGoal applies the goal fallback chain: description verbatim,
// else the first README line whose text (heading markers stripped)
// exceeds the minimum length, else the fixed placeholder.
func resolveGoal(description, readme string) string {
	if goal := strings.TrimSpace(description); goal != "" {
		return goal
	}

	for _, line := range strings.Split(readme, "\n") {
		cleaned := strings.TrimSpace(headingMarker.ReplaceAllString(strings.TrimSpace(line), ""))
		if len(cleaned) > minGoalLineLength {
			return cleaned
		}
	}

	return GoalPlaceholder
}

func maintenance(updatedAt *time.Time, now time.Time) models.Maintenance {
	if updatedAt == nil {
		return models.MaintenanceInactive
	}
	if now.Sub(*updatedAt) <= activeWindow {
		return models.MaintenanceActive
	}
	return models.MaintenanceInactive
}

func maturity(releases int) models.Maturity {
	if releases > 0 {
		return models.MaturityStable
	}
	return models.MaturityExperimental
}
