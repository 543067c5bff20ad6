// Package extract turns raw documentation HTML into plain text, code samples
// and tables. Every function tolerates malformed markup and non-UTF-8 input.
package extract

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/rs/zerolog/log"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// parse builds a document from raw, never failing: on error an empty
// document is returned.
func parse(raw string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(toUTF8(raw)))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to parse HTML, using empty document")
		return goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return doc
}

// toUTF8 re-decodes input that is not valid UTF-8 using a detected charset,
// falling back to replacing invalid sequences.
func toUTF8(raw string) string {
	if utf8.ValidString(raw) {
		return raw
	}

	if result, err := chardet.NewHtmlDetector().DetectBest([]byte(raw)); err == nil {
		if r, err := charset.NewReaderLabel(result.Charset, strings.NewReader(raw)); err == nil {
			if decoded, err := io.ReadAll(r); err == nil && utf8.Valid(decoded) {
				log.Debug().
					Str("charset", result.Charset).
					Int("confidence", result.Confidence).
					Msg("Decoded non-UTF-8 HTML")
				return string(decoded)
			}
		}
	}

	return strings.ToValidUTF8(raw, "\uFFFD")
}

// isXPath reports whether selector should be evaluated as XPath rather than CSS
func isXPath(selector string) bool {
	return strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(")
}

// scope returns the subtree matched by selector, or the whole document when
// the selector is empty, invalid or matches nothing.
func scope(doc *goquery.Document, selector string) *goquery.Selection {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return doc.Selection
	}

	if isXPath(selector) {
		node, err := htmlquery.Query(doc.Nodes[0], selector)
		if err != nil {
			log.Warn().Err(err).Str("selector", selector).Msg("Invalid XPath selector, using whole document")
			return doc.Selection
		}
		if node != nil {
			return goquery.NewDocumentFromNode(node).Selection
		}
	} else if sel := doc.Find(selector).First(); sel.Length() > 0 {
		return sel
	}

	log.Warn().
		Str("selector", selector).
		Msg("Selector not found in document, using whole document")
	return doc.Selection
}
