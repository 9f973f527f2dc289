package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/repolens/repolens/models"
)

// SaveDescription upserts a record wholesale, keyed by repository URL.
// There is no partial update; a changed record is re-saved in full.
func (db *DB) SaveDescription(record *models.DescriptionRecord) error {
	stack, err := json.Marshal(record.Signals.TechStack)
	if err != nil {
		return fmt.Errorf("failed to encode tech stack: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO descriptions (
			repo_url, description_mdx, repo_type, project_goal, tech_stack,
			maintenance, maturity, model, confidence, generated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(repo_url) DO UPDATE SET
			description_mdx = excluded.description_mdx,
			repo_type = excluded.repo_type,
			project_goal = excluded.project_goal,
			tech_stack = excluded.tech_stack,
			maintenance = excluded.maintenance,
			maturity = excluded.maturity,
			model = excluded.model,
			confidence = excluded.confidence,
			generated_at = excluded.generated_at
	`, record.RepoURL, record.DescriptionMDX, string(record.RepoType),
		record.Signals.ProjectGoal, string(stack), string(record.Signals.Maintenance),
		string(record.Signals.Maturity), record.Model, string(record.Confidence),
		record.GeneratedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save description: %w", err)
	}
	return nil
}

// FindByRepoURL looks up the stored record for a repository URL. A miss
// returns (nil, nil).
func (db *DB) FindByRepoURL(repoURL string) (*models.DescriptionRecord, error) {
	var (
		record      models.DescriptionRecord
		stackJSON   string
		generatedAt string
	)
	err := db.QueryRow(`
		SELECT repo_url, description_mdx, repo_type, project_goal, tech_stack,
		       maintenance, maturity, model, confidence, generated_at
		FROM descriptions WHERE repo_url = ?
	`, repoURL).Scan(
		&record.RepoURL, &record.DescriptionMDX, &record.RepoType,
		&record.Signals.ProjectGoal, &stackJSON, &record.Signals.Maintenance,
		&record.Signals.Maturity, &record.Model, &record.Confidence, &generatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find description: %w", err)
	}

	record.Signals.RepoType = record.RepoType
	if err := json.Unmarshal([]byte(stackJSON), &record.Signals.TechStack); err != nil {
		return nil, fmt.Errorf("failed to decode tech stack: %w", err)
	}
	record.GeneratedAt, err = time.Parse(time.RFC3339, generatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated_at: %w", err)
	}
	return &record, nil
}

// ListDescriptions returns stored records newest first, up to limit.
func (db *DB) ListDescriptions(limit int) ([]*models.DescriptionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT repo_url FROM descriptions ORDER BY generated_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list descriptions: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan description row: %w", err)
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make([]*models.DescriptionRecord, 0, len(urls))
	for _, u := range urls {
		record, err := db.FindByRepoURL(u)
		if err != nil {
			return nil, err
		}
		if record != nil {
			records = append(records, record)
		}
	}
	return records, nil
}

// DeleteDescription removes the record for a repository URL. Deleting a
// missing key is not an error.
func (db *DB) DeleteDescription(repoURL string) error {
	if _, err := db.Exec("DELETE FROM descriptions WHERE repo_url = ?", repoURL); err != nil {
		return fmt.Errorf("failed to delete description: %w", err)
	}
	return nil
}
