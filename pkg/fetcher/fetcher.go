// Package fetcher is the repo-data provider: it gathers the raw facts
// about a repository that the classification pipeline runs on. Missing
// data (no README, truncated tree, no releases) degrades to zero values;
// only a failure to reach the repository itself is an error.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/repolens/repolens/models"
)

// ErrNotFound reports that the repository does not exist or is not
// visible with the current credentials.
var ErrNotFound = errors.New("repository not found")

// Provider fetches the raw facts for one repository.
type Provider interface {
	Facts(ctx context.Context, owner, repo string) (models.RepoFacts, error)
}

const defaultBaseURL = "https://api.github.com"

// maxReleasePage bounds the release count; anything at or above one full
// page reads as "has releases", which is all maturity needs.
const maxReleasePage = 100

// GitHub fetches repository facts from the GitHub REST API.
type GitHub struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewGitHub creates a provider. The token may be empty for anonymous,
// rate-limited access.
func NewGitHub(token string, timeout time.Duration) *GitHub {
	return &GitHub{
		client:  &http.Client{Timeout: timeout},
		baseURL: defaultBaseURL,
		token:   token,
	}
}

type repoResponse struct {
	FullName      string     `json:"full_name"`
	HTMLURL       string     `json:"html_url"`
	Description   string     `json:"description"`
	Topics        []string   `json:"topics"`
	DefaultBranch string     `json:"default_branch"`
	PushedAt      *time.Time `json:"pushed_at"`
}

type treeResponse struct {
	Tree []struct {
		Path string `json:"path"`
		Type string `json:"type"`
	} `json:"tree"`
	Truncated bool `json:"truncated"`
}

// Facts gathers metadata, README, file tree, languages, and release
// count. Only the metadata call can fail the fetch; every other field
// falls back to its zero value.
func (g *GitHub) Facts(ctx context.Context, owner, repo string) (models.RepoFacts, error) {
	var meta repoResponse
	if err := g.getJSON(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), &meta); err != nil {
		return models.RepoFacts{}, fmt.Errorf("failed to fetch repository %s/%s: %w", owner, repo, err)
	}

	facts := models.RepoFacts{
		Owner:       owner,
		Name:        repo,
		URL:         meta.HTMLURL,
		Description: meta.Description,
		Topics:      meta.Topics,
		UpdatedAt:   meta.PushedAt,
	}
	if facts.URL == "" {
		facts.URL = fmt.Sprintf("https://github.com/%s/%s", owner, repo)
	}

	if readme, err := g.getRaw(ctx, fmt.Sprintf("/repos/%s/%s/readme", owner, repo)); err == nil {
		facts.Readme = CleanHTML(string(readme))
	}

	branch := meta.DefaultBranch
	if branch == "" {
		branch = "main"
	}
	var tree treeResponse
	if err := g.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/git/trees/%s?recursive=1", owner, repo, branch), &tree); err == nil {
		facts.Files = make([]models.FileEntry, 0, len(tree.Tree))
		for _, entry := range tree.Tree {
			entryType := models.EntryFile
			if entry.Type == "tree" {
				entryType = models.EntryDir
			}
			facts.Files = append(facts.Files, models.FileEntry{Name: entry.Path, Type: entryType})
		}
	}

	var languages map[string]int64
	if err := g.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/languages", owner, repo), &languages); err == nil {
		facts.Languages = languages
	}

	var releases []json.RawMessage
	if err := g.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/releases?per_page=%d", owner, repo, maxReleasePage), &releases); err == nil {
		facts.Releases = len(releases)
	}

	return facts, nil
}

func (g *GitHub) getJSON(ctx context.Context, path string, out any) error {
	body, err := g.get(ctx, path, "application/vnd.github+json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (g *GitHub) getRaw(ctx context.Context, path string) ([]byte, error) {
	return g.get(ctx, path, "application/vnd.github.raw+json")
}

func (g *GitHub) get(ctx context.Context, path, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", accept)
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
