// Package db holds the CLI actions for inspecting the description store.
package db

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	dbpkg "github.com/repolens/repolens/pkg/db"
)

func open(c *cli.Context) (*dbpkg.DB, error) {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// ListAction prints stored descriptions as a table.
func ListAction(c *cli.Context) error {
	database, err := open(c)
	if err != nil {
		return err
	}
	defer database.Close()

	records, err := database.ListDescriptions(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list descriptions: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No descriptions found")
		return nil
	}

	fmt.Printf("%-50s %-12s %-10s %-20s %-20s\n",
		"Repo URL", "Type", "Confidence", "Model", "Generated")
	fmt.Println(strings.Repeat("-", 115))

	for _, r := range records {
		fmt.Printf("%-50s %-12s %-10s %-20s %-20s\n",
			r.RepoURL,
			r.RepoType,
			r.Confidence,
			r.Model,
			r.GeneratedAt.Format("2006-01-02 15:04:05"),
		)
	}

	fmt.Printf("\nTotal: %d descriptions\n", len(records))
	fmt.Printf("\nTip: Use 'repolens db show <repo-url>' to see one record\n")

	return nil
}

// ShowAction prints one stored record as JSON.
func ShowAction(c *cli.Context) error {
	repoURL := c.Args().First()
	if repoURL == "" {
		return fmt.Errorf("usage: repolens db show <repo-url>")
	}

	database, err := open(c)
	if err != nil {
		return err
	}
	defer database.Close()

	record, err := database.FindByRepoURL(repoURL)
	if err != nil {
		return fmt.Errorf("failed to find description: %w", err)
	}
	if record == nil {
		return fmt.Errorf("no description stored for %s", repoURL)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// AttemptsAction prints the generation audit log.
func AttemptsAction(c *cli.Context) error {
	database, err := open(c)
	if err != nil {
		return err
	}
	defer database.Close()

	attempts, err := database.ListAttempts(c.String("repo-url"), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list attempts: %w", err)
	}

	if len(attempts) == 0 {
		fmt.Println("No attempts found")
		return nil
	}

	fmt.Printf("%-6s %-50s %-18s %-10s %s\n", "ID", "Repo URL", "Outcome", "Duration", "Reason")
	fmt.Println(strings.Repeat("-", 120))

	for _, a := range attempts {
		fmt.Printf("%-6d %-50s %-18s %-10s %s\n",
			a.ID, a.RepoURL, a.Outcome, a.Duration, a.Reason)
	}

	fmt.Printf("\nTotal: %d attempts\n", len(attempts))
	return nil
}

// PurgeAction deletes one stored record so the next describe regenerates.
func PurgeAction(c *cli.Context) error {
	repoURL := c.Args().First()
	if repoURL == "" {
		return fmt.Errorf("usage: repolens db purge <repo-url>")
	}

	database, err := open(c)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.DeleteDescription(repoURL); err != nil {
		return err
	}
	fmt.Printf("Purged %s\n", repoURL)
	return nil
}
