package fetcher

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Markdown READMEs routinely carry fragment-level HTML (badge rows,
// centered headers). The goal-resolution line scan wants plain text, so
// tagged content is flattened before it leaves the provider.
var htmlFragment = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

// CleanHTML strips HTML tags from README text, keeping the text content.
// Text without tag-like content passes through untouched.
func CleanHTML(text string) string {
	if !htmlFragment.MatchString(text) {
		return text
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}

	// Images and scripts contribute no readable text.
	doc.Find("script, style").Remove()
	return strings.TrimSpace(doc.Text())
}
