// Package detector classifies a repository into a discrete project type
// from cheap, deterministic evidence: file/directory signatures first,
// then name/topic keywords, then a tech-stack fallback.
package detector

import (
	"strings"

	"github.com/repolens/repolens/models"
)

// Input carries the raw facts one classification runs on. Every field
// except Name is optional; missing inputs degrade confidence, they never
// produce an error.
type Input struct {
	Name        string
	Description string
	Topics      []string
	Readme      string
	Files       []models.FileEntry
}

// MinReadmeLength is the trimmed README length below which a repository
// is flagged experimental.
const MinReadmeLength = 200

// typeSignature lists the file and directory names that positively
// identify one project type.
type typeSignature struct {
	repoType models.RepoType
	files    []string
	dirs     []string
}

// structureSignatures is tested in order; the first type with any match
// wins at high confidence.
var structureSignatures = []typeSignature{
	{
		repoType: models.TypeMonorepo,
		files:    []string{"lerna.json", "pnpm-workspace.yaml", "turbo.json", "nx.json", "rush.json"},
		dirs:     []string{"packages", "apps", "modules"},
	},
	{
		repoType: models.TypeApplication,
		files: []string{
			"next.config.js", "next.config.mjs", "nuxt.config.js", "angular.json",
			"vue.config.js", "dockerfile", "docker-compose.yml", "manage.py",
			"main.go", "vercel.json", "netlify.toml",
		},
		dirs: []string{"public", "pages", "app", "src/app"},
	},
	{
		repoType: models.TypeTool,
		files:    []string{"cli.js", "cli.ts", "bin.js", ".goreleaser.yml", ".goreleaser.yaml"},
		dirs:     []string{"bin", "cmd"},
	},
	{
		repoType: models.TypeTemplate,
		files:    []string{"cookiecutter.json", "copier.yaml", "copier.yml", "template.json"},
		dirs:     []string{"template", "templates"},
	},
}

// stackSignature maps a manifest file name to the technology it implies.
type stackSignature struct {
	file string
	tech string
}

// stackSignatures is scanned in listing order so the resulting stack
// preserves first-seen order.
var stackSignatures = []stackSignature{
	{"package.json", "Node.js"},
	{"tsconfig.json", "TypeScript"},
	{"go.mod", "Go"},
	{"cargo.toml", "Rust"},
	{"requirements.txt", "Python"},
	{"pyproject.toml", "Python"},
	{"setup.py", "Python"},
	{"gemfile", "Ruby"},
	{"pom.xml", "Java"},
	{"build.gradle", "Java"},
	{"composer.json", "PHP"},
	{"dockerfile", "Docker"},
	{"docker-compose.yml", "Docker"},
	{"cmakelists.txt", "C++"},
	{"mix.exs", "Elixir"},
	{"pubspec.yaml", "Dart"},
}

// keywordTypes is scored in this order; on a tie the earliest type keeps
// the win, so results stay reproducible.
var keywordTypes = []struct {
	repoType models.RepoType
	keywords []string
}{
	{models.TypeTemplate, []string{"template", "boilerplate", "starter", "skeleton", "scaffold"}},
	{models.TypeTool, []string{"cli", "tool", "utility", "generator", "command-line"}},
	{models.TypeResource, []string{"awesome", "resources", "curated", "collection", "list"}},
	{models.TypeApplication, []string{"app", "application", "dashboard", "website", "platform", "server"}},
	{models.TypeLibrary, []string{"library", "sdk", "framework", "plugin", "wrapper", "client"}},
}

// minKeywordScore is the lowest total score the keyword stage accepts.
const minKeywordScore = 3

// nonCodeSuffixes marks file names that carry documentation rather than
// code, for the resource ratio check.
var nonCodeSuffixes = []string{".md", ".markdown", ".txt", ".rst", ".gitignore"}

var nonCodeNames = []string{"license", "notice", "authors", "contributors", "citation"}

// Classify maps the input to one project type with a confidence tier.
// Stages run in strict priority order and never blend: structure
// signatures (high), the awesome-list special case (medium), keyword
// scoring (medium), then a stack-based library fallback (low) ending in
// neutral.
func Classify(in Input) models.ClassificationResult {
	stack := DetectStack(in.Files)
	experimental := isExperimental(in.Readme)

	if len(in.Files) > 0 {
		fileSet, dirSet := nameSets(in.Files)
		for _, sig := range structureSignatures {
			if matchesSignature(sig, fileSet, dirSet) {
				return models.ClassificationResult{
					Type:           sig.repoType,
					Stack:          stack,
					IsExperimental: experimental,
					Confidence:     models.ConfidenceHigh,
				}
			}
		}
	}

	if isResourceList(in.Name, in.Files) {
		return models.ClassificationResult{
			Type:           models.TypeResource,
			Stack:          []string{},
			IsExperimental: false,
			Confidence:     models.ConfidenceMedium,
		}
	}

	if repoType, ok := keywordType(in.Name, in.Description, in.Topics); ok {
		return models.ClassificationResult{
			Type:           repoType,
			Stack:          stack,
			IsExperimental: experimental,
			Confidence:     models.ConfidenceMedium,
		}
	}

	if len(stack) > 0 {
		return models.ClassificationResult{
			Type:           models.TypeLibrary,
			Stack:          stack,
			IsExperimental: experimental,
			Confidence:     models.ConfidenceLow,
		}
	}

	return models.ClassificationResult{
		Type:           models.TypeNeutral,
		Stack:          []string{},
		IsExperimental: experimental,
		Confidence:     models.ConfidenceLow,
	}
}

// DetectStack scans a file listing against the manifest signature table,
// collecting matched technologies de-duplicated in first-seen order.
func DetectStack(files []models.FileEntry) []string {
	stack := []string{}
	seen := make(map[string]bool)

	for _, entry := range files {
		if entry.Type != models.EntryFile {
			continue
		}
		name := strings.ToLower(baseName(entry.Name))
		for _, sig := range stackSignatures {
			if name == sig.file && !seen[sig.tech] {
				seen[sig.tech] = true
				stack = append(stack, sig.tech)
			}
		}
	}
	return stack
}

func isExperimental(readme string) bool {
	return len(strings.TrimSpace(readme)) < MinReadmeLength
}

// nameSets splits a listing into case-insensitive file and directory
// name sets. Directory entries contribute both their full path and base
// name so nested signatures like "src/app" still match.
func nameSets(files []models.FileEntry) (map[string]bool, map[string]bool) {
	fileSet := make(map[string]bool)
	dirSet := make(map[string]bool)
	for _, entry := range files {
		name := strings.ToLower(entry.Name)
		switch entry.Type {
		case models.EntryFile:
			fileSet[baseName(name)] = true
		case models.EntryDir:
			dirSet[name] = true
			dirSet[baseName(name)] = true
		}
	}
	return fileSet, dirSet
}

func matchesSignature(sig typeSignature, fileSet, dirSet map[string]bool) bool {
	for _, f := range sig.files {
		if fileSet[f] {
			return true
		}
	}
	for _, d := range sig.dirs {
		if dirSet[d] {
			return true
		}
	}
	return false
}

// isResourceList detects curated-list repositories: either the canonical
// awesome- name prefix, or a listing where more than 80% of all entries
// are non-code files. Directories count toward the total and never as
// non-code, so a docs-heavy source tree stays out of this bucket.
func isResourceList(name string, files []models.FileEntry) bool {
	if strings.HasPrefix(strings.ToLower(name), "awesome-") {
		return true
	}
	if len(files) == 0 {
		return false
	}

	nonCode := 0
	for _, entry := range files {
		if entry.Type == models.EntryFile && isNonCodeFile(entry.Name) {
			nonCode++
		}
	}
	return float64(nonCode)/float64(len(files)) > 0.8
}

func isNonCodeFile(name string) bool {
	lower := strings.ToLower(baseName(name))
	for _, suffix := range nonCodeSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	for _, known := range nonCodeNames {
		if lower == known || strings.HasPrefix(lower, known+".") {
			return true
		}
	}
	return false
}

// keywordType scores each candidate type from name, description, and
// topics. A later type must strictly beat the running maximum, so ties
// resolve to the earliest type in keywordTypes order.
func keywordType(name, description string, topics []string) (models.RepoType, bool) {
	lowerName := strings.ToLower(name)
	lowerDesc := strings.ToLower(description)

	var best models.RepoType
	bestScore := 0

	for _, candidate := range keywordTypes {
		score := 0
		for _, kw := range candidate.keywords {
			if strings.Contains(lowerName, kw) {
				score += 3
				if strings.HasPrefix(lowerName, kw+"-") || strings.HasSuffix(lowerName, "-"+kw) {
					score += 2
				}
			}
			if lowerDesc != "" && strings.Contains(lowerDesc, kw) {
				score++
			}
			for _, topic := range topics {
				if strings.Contains(strings.ToLower(topic), kw) {
					score += 2
					break
				}
			}
		}
		if score > bestScore {
			bestScore = score
			best = candidate.repoType
		}
	}

	if bestScore < minKeywordScore {
		return "", false
	}
	return best, true
}

func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
