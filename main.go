package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	describeactions "github.com/repolens/repolens/internal/describe"
	dbactions "github.com/repolens/repolens/internal/db"
	"github.com/repolens/repolens/pkg/help"
)

func main() {
	// Secrets come from the environment; .env is a convenience, not a
	// requirement.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "repolens",
		Usage: "classify repositories and generate grounded descriptions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to the YAML config file",
				Value: "repolens.yaml",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "database path (defaults to next to the binary)",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "log errors only",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "describe",
				Usage:  "run the full pipeline and print the stored description record",
				Action: describeactions.DescribeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "repo", Usage: "repository as owner/name", Required: true},
					&cli.StringFlag{Name: "model", Usage: "generation model name"},
					&cli.StringFlag{Name: "format", Usage: "output format: json or yaml", Value: "json"},
					&cli.BoolFlag{Name: "force", Usage: "drop any stored record first and regenerate"},
					&cli.BoolFlag{Name: "no-db", Usage: "use the in-memory store instead of sqlite"},
				},
			},
			{
				Name:   "classify",
				Usage:  "run the classifier and signal builder only",
				Action: describeactions.ClassifyAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "repo", Usage: "repository as owner/name", Required: true},
					&cli.StringFlag{Name: "format", Usage: "output format: json or yaml", Value: "json"},
					&cli.BoolFlag{Name: "no-db", Usage: "use the in-memory store instead of sqlite"},
				},
			},
			{
				Name:   "prompt",
				Usage:  "print the composed generation prompt without generating",
				Action: describeactions.PromptAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "repo", Usage: "repository as owner/name", Required: true},
					&cli.BoolFlag{Name: "no-db", Usage: "use the in-memory store instead of sqlite"},
				},
			},
			{
				Name:   "validate",
				Usage:  "check a local text file against the output rules",
				Action: describeactions.ValidateAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "path to the text to validate", Required: true},
					&cli.StringFlag{Name: "stack", Usage: "comma-separated tech stack to ground against"},
					&cli.StringFlag{Name: "format", Usage: "output format: json or yaml", Value: "json"},
				},
			},
			{
				Name:  "db",
				Usage: "inspect the description store",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "list stored descriptions",
						Action: dbactions.ListAction,
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "limit", Usage: "max rows", Value: 50},
						},
					},
					{
						Name:      "show",
						Usage:     "print one stored record as JSON",
						ArgsUsage: "<repo-url>",
						Action:    dbactions.ShowAction,
					},
					{
						Name:   "attempts",
						Usage:  "print the generation audit log",
						Action: dbactions.AttemptsAction,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "repo-url", Usage: "filter by repository URL"},
							&cli.IntFlag{Name: "limit", Usage: "max rows", Value: 50},
						},
					},
					{
						Name:      "purge",
						Usage:     "delete one stored record",
						ArgsUsage: "<repo-url>",
						Action:    dbactions.PurgeAction,
					},
				},
			},
			{
				Name:  "coldstart",
				Usage: "print quick-start help as YAML",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
