package db

import (
	"fmt"
	"time"
)

// Attempt outcomes.
const (
	OutcomeOK               = "ok"
	OutcomeFetchFailed      = "fetch_failed"
	OutcomeGenerationFailed = "generation_failed"
	OutcomeValidationFailed = "validation_failed"
)

// Attempt is one row of the generation audit log.
type Attempt struct {
	ID        int64
	RepoURL   string
	Outcome   string
	Reason    string
	Model     string
	Duration  time.Duration
	CreatedAt time.Time
}

// RecordAttempt appends one generation attempt to the audit log.
func (db *DB) RecordAttempt(repoURL, outcome, reason, model string, duration time.Duration) error {
	_, err := db.Exec(`
		INSERT INTO generation_attempts (repo_url, outcome, reason, model, duration_ms)
		VALUES (?, ?, ?, ?, ?)
	`, repoURL, outcome, reason, model, duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

// ListAttempts returns attempts newest first, optionally filtered by
// repository URL (empty matches all), up to limit.
func (db *DB) ListAttempts(repoURL string, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT attempt_id, repo_url, outcome, COALESCE(reason, ''), COALESCE(model, ''),
		       COALESCE(duration_ms, 0), created_at
		FROM generation_attempts
	`
	args := []any{}
	if repoURL != "" {
		query += " WHERE repo_url = ?"
		args = append(args, repoURL)
	}
	query += " ORDER BY attempt_id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var (
			a          Attempt
			durationMs int64
			createdAt  string
		)
		if err := rows.Scan(&a.ID, &a.RepoURL, &a.Outcome, &a.Reason, &a.Model, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan attempt row: %w", err)
		}
		a.Duration = time.Duration(durationMs) * time.Millisecond
		if t, err := time.Parse("2006-01-02 15:04:05", createdAt); err == nil {
			a.CreatedAt = t
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
