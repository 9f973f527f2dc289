// Package help carries the quick-start text the CLI prints on demand.
package help

const ColdstartYAML = `# repolens Quick Start

what_it_does: |
  Classifies a GitHub repository, extracts grounding signals, generates a
  short validated description, and caches it by repository URL.
  Generation runs at most once per repository; later calls serve the
  stored record.

environment:
  GITHUB_TOKEN: "optional, raises the GitHub API rate limit"
  GEMINI_API_KEY: "required for the describe command"

commands:
  describe: |
    repolens describe --repo golang/go

  describe_fresh: |
    repolens describe --repo golang/go --force

  classify_only: |
    repolens classify --repo golang/go

  inspect_prompt: |
    repolens prompt --repo golang/go

  validate_text: |
    repolens validate --file draft.mdx --stack "Go,Docker"

  stored_records: |
    repolens db list
    repolens db show https://github.com/golang/go
    repolens db attempts --repo-url https://github.com/golang/go

outcomes:
  exit_0: "description generated or served from the store"
  exit_3: "generated text failed validation; reason printed to stderr"
`
