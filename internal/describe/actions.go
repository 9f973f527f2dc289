// Package describe holds the CLI actions that drive the description
// pipeline.
package describe

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/repolens/repolens/models"
	"github.com/repolens/repolens/pkg/caching"
	"github.com/repolens/repolens/pkg/db"
	"github.com/repolens/repolens/pkg/fetcher"
	"github.com/repolens/repolens/pkg/llm"
	"github.com/repolens/repolens/pkg/pipeline"
	"github.com/repolens/repolens/pkg/validate"
)

// NewLogger builds the CLI logger, dropped to errors-only under --quiet.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// SplitRepo parses an owner/name flag value.
func SplitRepo(value string) (string, string, error) {
	parts := strings.Split(strings.TrimSpace(strings.TrimSuffix(value, "/")), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid --repo value %q, want owner/name", value)
	}
	return parts[0], parts[1], nil
}

// OpenStore picks the persistence backend: sqlite by default, the
// in-memory store under --no-db. The caller closes the returned DB when
// it is non-nil.
func OpenStore(c *cli.Context, cfg models.Config) (pipeline.Store, *db.DB, error) {
	if c.Bool("no-db") {
		store, err := caching.NewMemoryStore(cfg.CacheSize)
		return store, nil, err
	}
	database, err := db.Open(c.String("db"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, database, nil
}

func newPipeline(c *cli.Context, logger *slog.Logger, withGenerator bool) (*pipeline.Pipeline, *db.DB, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	if c.IsSet("model") {
		cfg.Model = c.String("model")
	}

	store, database, err := OpenStore(c, cfg)
	if err != nil {
		return nil, nil, err
	}

	provider := fetcher.NewGitHub(os.Getenv("GITHUB_TOKEN"), cfg.Timeout())

	var gen llm.Generator
	if withGenerator {
		gemini, err := llm.NewGemini(c.Context, cfg.Model)
		if err != nil {
			if database != nil {
				_ = database.Close()
			}
			return nil, nil, fmt.Errorf("failed to create generator: %w", err)
		}
		gen = gemini
	}

	return pipeline.New(store, provider, gen, logger), database, nil
}

// DescribeAction runs the full pipeline for one repository.
func DescribeAction(c *cli.Context) error {
	logger := NewLogger(c)

	owner, repo, err := SplitRepo(c.String("repo"))
	if err != nil {
		return err
	}

	p, database, err := newPipeline(c, logger, true)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	if c.Bool("force") && database != nil {
		if err := database.DeleteDescription(pipeline.RepoURL(owner, repo)); err != nil {
			return err
		}
	}

	record, err := p.Describe(c.Context, owner, repo)
	if err != nil {
		if errors.Is(err, pipeline.ErrValidationFailed) {
			// Surface the validator's reason verbatim; no retry.
			fmt.Fprintln(os.Stderr, err.Error())
			return cli.Exit("", 3)
		}
		return err
	}

	return printResult(c, record)
}

// ClassifyAction runs the classifier and signal builder only.
func ClassifyAction(c *cli.Context) error {
	logger := NewLogger(c)

	owner, repo, err := SplitRepo(c.String("repo"))
	if err != nil {
		return err
	}

	p, database, err := newPipeline(c, logger, false)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	classification, signals, err := p.Classify(c.Context, owner, repo)
	if err != nil {
		return err
	}

	return printResult(c, map[string]any{
		"classification": classification,
		"signals":        signals,
	})
}

// PromptAction prints the composed generation prompt without generating.
func PromptAction(c *cli.Context) error {
	logger := NewLogger(c)

	owner, repo, err := SplitRepo(c.String("repo"))
	if err != nil {
		return err
	}

	p, database, err := newPipeline(c, logger, false)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	instruction, err := p.ComposePrompt(c.Context, owner, repo)
	if err != nil {
		return err
	}

	fmt.Println(instruction)
	return nil
}

// ValidateAction checks a local file against the output rules.
func ValidateAction(c *cli.Context) error {
	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var stack []string
	if raw := c.String("stack"); raw != "" {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				stack = append(stack, item)
			}
		}
	}

	result := validate.Check(string(data), stack)
	if err := printResult(c, result); err != nil {
		return err
	}
	if !result.Valid {
		return cli.Exit("", 3)
	}
	return nil
}

// printResult renders a value as indented JSON or YAML per --format.
func printResult(c *cli.Context, v any) error {
	switch c.String("format") {
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Print(string(data))
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(data))
	}
	return nil
}
