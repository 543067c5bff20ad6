package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractText returns the visible text of html scoped to selector.
//
// Script and style elements are dropped. The text is split into lines, each
// line is trimmed and further split on double spaces (column breaks in
// flattened layouts), empty pieces are dropped and the rest joined with "\n".
func ExtractText(html, selector string) string {
	doc := parse(html)
	sel := scope(doc, selector)
	sel.Find("script, style").Remove()

	return normalizeText(sel.Text())
}

func normalizeText(text string) string {
	var chunks []string
	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		for _, phrase := range strings.Split(line, "  ") {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				chunks = append(chunks, phrase)
			}
		}
	}
	return strings.Join(chunks, "\n")
}

// splitLines splits on every Unicode line boundary
func splitLines(s string) []string {
	return strings.FieldsFunc(s, isLineBreak)
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// Heading is one entry of a page outline
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// ExtractHeadings returns h1-h6 headings in document order
func ExtractHeadings(html string) []Heading {
	doc := parse(html)

	var headings []Heading
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		level := int(goquery.NodeName(s)[1] - '0')
		headings = append(headings, Heading{Level: level, Text: text})
	})
	return headings
}

// ExtractTitle returns the document title, falling back to the first h1
func ExtractTitle(html string) string {
	doc := parse(html)

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.Join(strings.Fields(doc.Find("h1").First().Text()), " ")
}
