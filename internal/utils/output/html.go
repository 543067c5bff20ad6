package output

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = newSanitizer()

func newSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// Keep code language hints for fenced blocks
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+#.-]+$`)).OnElements("code", "pre")
	return p
}

// CleanHTML strips page chrome and unsafe markup, leaving content HTML
// suitable for Markdown conversion
func CleanHTML(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	// Remove unwanted tags
	doc.Find("script, style, link, meta, noscript, iframe, svg, form, input, button, select, textarea, canvas, nav, header, footer").Remove()

	htmlStr, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sanitizer.Sanitize(htmlStr)), nil
}
