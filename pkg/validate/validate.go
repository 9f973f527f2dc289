// Package validate is the sole gate between generated text and
// persistence. Checks run in a fixed order and the first failure
// short-circuits; nothing downstream re-validates.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/repolens/repolens/models"
)

// Sentence bounds are defined for diagnostics but deliberately not wired
// into the reject path; long-form descriptions are currently tolerated.
const (
	MinSentences = 3
	MaxSentences = 6
)

var (
	htmlTagPattern   = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	codeFencePattern = regexp.MustCompile("```|~~~")
	emojiPattern     = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{FE0F}]`)
	sentenceEnd      = regexp.MustCompile(`[.!?]+(\s|$)`)
)

// hypeWords are rejected case-insensitively with hyphen/space tolerance.
var hypeWords = []string{
	"best",
	"revolutionary",
	"cutting-edge",
	"blazing fast",
	"blazingly fast",
	"game-changing",
	"world-class",
	"next-generation",
	"state-of-the-art",
	"ultimate",
	"powerful",
	"amazing",
	"incredible",
	"seamless",
	"effortless",
	"game changer",
}

// techPattern pairs a canonical technology name with the regexp that
// finds mentions of it in generated text.
type techPattern struct {
	name    string
	pattern *regexp.Regexp
}

// techCatalog lists well-known languages, frameworks, and tools whose
// mention must be grounded in the signal tech stack. "Go" is matched
// case-sensitively; the lowercase verb is too common in prose.
var techCatalog = []techPattern{
	{"JavaScript", regexp.MustCompile(`(?i)\bjavascript\b`)},
	{"TypeScript", regexp.MustCompile(`(?i)\btypescript\b`)},
	{"Python", regexp.MustCompile(`(?i)\bpython\b`)},
	{"Rust", regexp.MustCompile(`(?i)\brust\b`)},
	{"Go", regexp.MustCompile(`\bGo(?:lang)?\b`)},
	{"Java", regexp.MustCompile(`(?i)\bjava\b`)},
	{"Ruby", regexp.MustCompile(`(?i)\bruby\b`)},
	{"PHP", regexp.MustCompile(`(?i)\bphp\b`)},
	{"C++", regexp.MustCompile(`(?i)c\+\+`)},
	{"C#", regexp.MustCompile(`(?i)c#`)},
	{"Swift", regexp.MustCompile(`(?i)\bswift\b`)},
	{"Kotlin", regexp.MustCompile(`(?i)\bkotlin\b`)},
	{"Elixir", regexp.MustCompile(`(?i)\belixir\b`)},
	{"Dart", regexp.MustCompile(`(?i)\bdart\b`)},
	{"React", regexp.MustCompile(`(?i)\breact\b`)},
	{"Vue", regexp.MustCompile(`(?i)\bvue(?:\.js)?\b`)},
	{"Angular", regexp.MustCompile(`(?i)\bangular\b`)},
	{"Svelte", regexp.MustCompile(`(?i)\bsvelte\b`)},
	{"Next.js", regexp.MustCompile(`(?i)\bnext\.js\b`)},
	{"Django", regexp.MustCompile(`(?i)\bdjango\b`)},
	{"Flask", regexp.MustCompile(`(?i)\bflask\b`)},
	{"Rails", regexp.MustCompile(`(?i)\brails\b`)},
	{"Laravel", regexp.MustCompile(`(?i)\blaravel\b`)},
	{"Node.js", regexp.MustCompile(`(?i)\bnode(?:\.js)?\b`)},
	{"Docker", regexp.MustCompile(`(?i)\bdocker\b`)},
	{"Kubernetes", regexp.MustCompile(`(?i)\bkubernetes\b`)},
	{"GraphQL", regexp.MustCompile(`(?i)\bgraphql\b`)},
	{"PostgreSQL", regexp.MustCompile(`(?i)\bpostgres(?:ql)?\b`)},
	{"MySQL", regexp.MustCompile(`(?i)\bmysql\b`)},
	{"MongoDB", regexp.MustCompile(`(?i)\bmongodb\b`)},
	{"Redis", regexp.MustCompile(`(?i)\bredis\b`)},
	{"SQLite", regexp.MustCompile(`(?i)\bsqlite\b`)},
}

// Check validates generated text against the structural rules and grounds
// every technology mention in the provided tech stack.
func Check(text string, techStack []string) models.ValidationResult {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return reject("Description cannot be empty")
	}

	if htmlTagPattern.MatchString(text) {
		return reject("Description must not contain HTML tags")
	}

	if codeFencePattern.MatchString(text) {
		return reject("Description must not contain code blocks")
	}

	if emojiPattern.MatchString(text) {
		return reject("Description must not contain emoji")
	}

	if word, found := findHypeWord(text); found {
		return reject(fmt.Sprintf("Description contains marketing language: %q", word))
	}

	if tech, found := findUngroundedTech(text, techStack); found {
		return reject(fmt.Sprintf("%q mentioned but not found in project tech stack", tech))
	}

	return models.ValidationResult{Valid: true}
}

func reject(reason string) models.ValidationResult {
	return models.ValidationResult{Valid: false, Reason: reason}
}

// hypePatterns is built once from hypeWords: whole words, case
// insensitive, hyphen and space interchangeable.
var hypePatterns = func() []*regexp.Regexp {
	separator := strings.NewReplacer("-", `[-\s]+`, " ", `[-\s]+`)
	patterns := make([]*regexp.Regexp, len(hypeWords))
	for i, word := range hypeWords {
		patterns[i] = regexp.MustCompile(`(?i)\b` + separator.Replace(regexp.QuoteMeta(word)) + `\b`)
	}
	return patterns
}()

// findHypeWord scans for the first marketing word, tolerant of hyphen vs
// space spelling in both the catalog and the text.
func findHypeWord(text string) (string, bool) {
	for i, pattern := range hypePatterns {
		if pattern.MatchString(text) {
			return hypeWords[i], true
		}
	}
	return "", false
}

// findUngroundedTech returns the first catalog technology mentioned in
// the text that has no counterpart in the tech stack. Names match on
// whole punctuation-separated tokens, so "Node" grounds "Node.js" while
// "Go" never grounds "Django".
func findUngroundedTech(text string, techStack []string) (string, bool) {
	for _, tech := range techCatalog {
		if !tech.pattern.MatchString(text) {
			continue
		}
		if !stackContains(techStack, tech.name) {
			return strings.ToLower(tech.name), true
		}
	}
	return "", false
}

func stackContains(techStack []string, name string) bool {
	nameFlat := normalizeTechName(name)
	nameTokens := techTokens(name)
	for _, item := range techStack {
		itemFlat := normalizeTechName(item)
		if itemFlat == "" {
			continue
		}
		if containsTokenRun(nameTokens, itemFlat) || containsTokenRun(techTokens(item), nameFlat) {
			return true
		}
	}
	return false
}

// techTokens splits a technology name on the punctuation its catalog
// spellings vary by.
func techTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '.' || r == '-' || r == ' ' || r == '_'
	})
}

// containsTokenRun reports whether some run of consecutive tokens,
// joined, equals the flattened name. Matching whole tokens only keeps a
// short name from matching inside a longer unrelated one.
func containsTokenRun(tokens []string, flat string) bool {
	for i := range tokens {
		joined := ""
		for j := i; j < len(tokens); j++ {
			joined += tokens[j]
			if joined == flat {
				return true
			}
			if len(joined) >= len(flat) {
				break
			}
		}
	}
	return false
}

func normalizeTechName(s string) string {
	s = strings.ToLower(s)
	for _, r := range []string{".", "-", " ", "_"} {
		s = strings.ReplaceAll(s, r, "")
	}
	return s
}

// CountSentences reports how many sentence terminators the text carries.
// Kept available for the MinSentences/MaxSentences bounds, which are not
// enforced by Check.
func CountSentences(text string) int {
	return len(sentenceEnd.FindAllString(text, -1))
}
