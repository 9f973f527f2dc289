// Package pipeline wires the five stages together: classify, build
// signals, compose the prompt, generate, validate, persist. A cache hit
// on the stored description short-circuits everything.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/repolens/repolens/models"
	"github.com/repolens/repolens/pkg/detector"
	"github.com/repolens/repolens/pkg/extractor"
	"github.com/repolens/repolens/pkg/fetcher"
	"github.com/repolens/repolens/pkg/llm"
	"github.com/repolens/repolens/pkg/prompt"
	"github.com/repolens/repolens/pkg/validate"
)

// ErrValidationFailed wraps the validator's reason when generated text is
// rejected. The attempt is not persisted and not retried.
var ErrValidationFailed = errors.New("generated description failed validation")

// Store is the persistence contract: wholesale upsert by repository URL
// and point lookup returning (nil, nil) on a miss. A save completes
// before a subsequent find for the same key observes it.
type Store interface {
	SaveDescription(record *models.DescriptionRecord) error
	FindByRepoURL(repoURL string) (*models.DescriptionRecord, error)
}

// attemptRecorder is the optional audit-log capability of a store.
type attemptRecorder interface {
	RecordAttempt(repoURL, outcome, reason, model string, duration time.Duration) error
}

// Attempt outcome labels, mirrored by the sqlite store's constants.
const (
	outcomeOK               = "ok"
	outcomeFetchFailed      = "fetch_failed"
	outcomeGenerationFailed = "generation_failed"
	outcomeValidationFailed = "validation_failed"
)

// Pipeline runs the end-to-end describe flow for one repository at a
// time. Concurrent calls for the same repository URL coalesce onto one
// generation.
type Pipeline struct {
	store    Store
	provider fetcher.Provider
	gen      llm.Generator
	logger   *slog.Logger
	flight   singleflight.Group
	now      func() time.Time
}

// New creates a pipeline. The store is injected explicitly; there is no
// package-level default.
func New(store Store, provider fetcher.Provider, gen llm.Generator, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:    store,
		provider: provider,
		gen:      gen,
		logger:   logger,
		now:      time.Now,
	}
}

// RepoURL is the canonical store key for a repository.
func RepoURL(owner, repo string) string {
	return fmt.Sprintf("https://github.com/%s/%s", owner, repo)
}

// Describe returns the stored description for the repository, generating
// and persisting one first if none exists. Generation is at-most-once per
// key: a hit returns the stored record verbatim with no stage re-run.
func (p *Pipeline) Describe(ctx context.Context, owner, repo string) (*models.DescriptionRecord, error) {
	repoURL := RepoURL(owner, repo)

	if record, err := p.store.FindByRepoURL(repoURL); err != nil {
		return nil, fmt.Errorf("store lookup failed: %w", err)
	} else if record != nil {
		p.logger.Debug("description served from store", "repo_url", repoURL)
		return record, nil
	}

	v, err, _ := p.flight.Do(repoURL, func() (any, error) {
		return p.generate(ctx, owner, repo, repoURL)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.DescriptionRecord), nil
}

// Classify runs only the classifier and signal builder, no generation.
func (p *Pipeline) Classify(ctx context.Context, owner, repo string) (models.ClassificationResult, models.RepoSignals, error) {
	facts, err := p.provider.Facts(ctx, owner, repo)
	if err != nil {
		return models.ClassificationResult{}, models.RepoSignals{}, err
	}
	classification := classify(facts)
	return classification, extractor.BuildSignals(facts, classification.Type), nil
}

// ComposePrompt renders the generation prompt without calling the
// generator.
func (p *Pipeline) ComposePrompt(ctx context.Context, owner, repo string) (string, error) {
	_, signals, err := p.Classify(ctx, owner, repo)
	if err != nil {
		return "", err
	}
	return prompt.Compose(signals), nil
}

func (p *Pipeline) generate(ctx context.Context, owner, repo, repoURL string) (*models.DescriptionRecord, error) {
	// A racing caller may have persisted while this one waited.
	if record, err := p.store.FindByRepoURL(repoURL); err != nil {
		return nil, fmt.Errorf("store lookup failed: %w", err)
	} else if record != nil {
		return record, nil
	}

	start := p.now()

	facts, err := p.provider.Facts(ctx, owner, repo)
	if err != nil {
		p.recordAttempt(repoURL, outcomeFetchFailed, err.Error(), "", start)
		return nil, fmt.Errorf("failed to fetch repository facts: %w", err)
	}

	classification := classify(facts)
	signals := extractor.BuildSignals(facts, classification.Type)
	instruction := prompt.Compose(signals)

	p.logger.Info("generating description",
		"repo_url", repoURL,
		"repo_type", classification.Type,
		"classifier_confidence", classification.Confidence,
	)

	text, model, err := p.gen.Generate(ctx, instruction)
	if err != nil {
		p.recordAttempt(repoURL, outcomeGenerationFailed, err.Error(), model, start)
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	if result := validate.Check(text, signals.TechStack); !result.Valid {
		p.recordAttempt(repoURL, outcomeValidationFailed, result.Reason, model, start)
		p.logger.Warn("generated description rejected", "repo_url", repoURL, "reason", result.Reason)
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, result.Reason)
	}

	record := &models.DescriptionRecord{
		RepoURL:        repoURL,
		DescriptionMDX: text,
		RepoType:       classification.Type,
		Signals:        signals,
		Model:          model,
		Confidence:     ScoreConfidence(signals),
		GeneratedAt:    p.now().UTC(),
	}
	if err := p.store.SaveDescription(record); err != nil {
		return nil, fmt.Errorf("failed to persist description: %w", err)
	}

	p.recordAttempt(repoURL, outcomeOK, "", model, start)
	return record, nil
}

// classify adapts provider facts into the detector's input.
func classify(facts models.RepoFacts) models.ClassificationResult {
	return detector.Classify(detector.Input{
		Name:        facts.Name,
		Description: facts.Description,
		Topics:      facts.Topics,
		Readme:      facts.Readme,
		Files:       facts.Files,
	})
}

// ScoreConfidence derives the stored record's confidence from its
// signals: one point each for a real goal, a non-empty stack, and active
// maintenance. It is always recomputed, never trusted from elsewhere.
func ScoreConfidence(signals models.RepoSignals) models.Confidence {
	score := 0
	if signals.ProjectGoal != extractor.GoalPlaceholder {
		score++
	}
	if len(signals.TechStack) > 0 {
		score++
	}
	if signals.Maintenance == models.MaintenanceActive {
		score++
	}

	switch score {
	case 3:
		return models.ConfidenceHigh
	case 2:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func (p *Pipeline) recordAttempt(repoURL, outcome, reason, model string, start time.Time) {
	recorder, ok := p.store.(attemptRecorder)
	if !ok {
		return
	}
	if err := recorder.RecordAttempt(repoURL, outcome, reason, model, p.now().Sub(start)); err != nil {
		p.logger.Warn("failed to record attempt", "repo_url", repoURL, "error", err)
	}
}
