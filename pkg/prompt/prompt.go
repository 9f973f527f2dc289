// Package prompt renders a signal record into the instruction string for
// the text-generation call. Composition is pure string assembly: the same
// signals always produce the same prompt.
package prompt

import (
	"strings"

	"github.com/repolens/repolens/models"
	"github.com/repolens/repolens/pkg/extractor"
)

// minClearGoalLength is the trimmed goal length below which the goal is
// not considered clear even when it is not the placeholder.
const minClearGoalLength = 30

// GoalIsClear reports whether the project goal is trustworthy enough for
// confident phrasing.
func GoalIsClear(signals models.RepoSignals) bool {
	goal := strings.TrimSpace(signals.ProjectGoal)
	return signals.ProjectGoal != extractor.GoalPlaceholder && len(goal) >= minClearGoalLength
}

// PromptConfidence gates the hedging instructions: high only when the
// goal is clear and at least one technology is known.
func PromptConfidence(signals models.RepoSignals) models.Confidence {
	if GoalIsClear(signals) && len(signals.TechStack) > 0 {
		return models.ConfidenceHigh
	}
	return models.ConfidenceLow
}

// Compose builds the generation instruction string. Only the FACTS block
// is ever presented to the generator as fact; everything else is writing
// guidance.
func Compose(signals models.RepoSignals) string {
	confidence := PromptConfidence(signals)
	hint := repoTypeHint(signals.RepoType)

	var b strings.Builder

	b.WriteString("Write a short description of a software repository using only the facts listed below.\n\n")

	b.WriteString("Do not open with generic phrases such as \"This is a\" or \"This project is\". ")
	b.WriteString("Choose a neutral, fact-based opening instead.\n")

	if hint != "" {
		b.WriteString("The repository type hint is a weak signal. Use it only if it helps clarify the opening sentence; never assert it as an established fact.\n")
	}

	if confidence == models.ConfidenceHigh {
		b.WriteString("The facts below are reliable. Direct, confident phrasing is appropriate.\n")
	} else {
		b.WriteString("The facts below are incomplete. Hedge the opening sentence to acknowledge uncertainty, using language such as \"appears to\" or \"seems to\".\n")
	}

	b.WriteString("\nFACTS:\n")
	b.WriteString("- Project goal: " + signals.ProjectGoal + "\n")
	if len(signals.TechStack) > 0 {
		b.WriteString("- Tech stack: " + strings.Join(signals.TechStack, ", ") + "\n")
	} else {
		b.WriteString("- Tech stack: not specified\n")
	}
	b.WriteString("- Maturity: " + string(signals.Maturity) + "\n")
	b.WriteString("- Maintenance: " + string(signals.Maintenance) + "\n")
	if hint != "" {
		b.WriteString("- Repository type hint: " + hint + "\n")
	}

	b.WriteString("\nWRITING CONSTRAINTS:\n")
	b.WriteString("- Output valid Markdown/MDX.\n")
	b.WriteString("- Write 3 to 6 sentences as plain paragraphs: no HTML, no lists, no code blocks.\n")
	b.WriteString("- Keep a neutral, professional tone. No emoji. No hype or marketing words.\n")
	b.WriteString("- Do not invent features or technologies. ")
	b.WriteString("Only the tech-stack items listed above may be named.\n")

	return b.String()
}

// repoTypeHint returns the hint string for the FACTS block, empty when
// the classification carried no usable signal.
func repoTypeHint(repoType models.RepoType) string {
	if repoType == "" || repoType == models.TypeNeutral {
		return ""
	}
	return string(repoType)
}
