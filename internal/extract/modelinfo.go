package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/modeldocs/pkg/models"
)

// maxModelIDs caps how many model identifiers are kept per page
const maxModelIDs = 15

// Capabilities are the feature keywords looked for in page text, in report order
var Capabilities = []string{
	"streaming", "function calling", "vision", "audio", "json",
	"tool use", "reasoning", "search", "embeddings", "moderation",
}

var (
	endpointPattern = regexp.MustCompile(`https://api\.[a-z0-9.\-]+/v[0-9]+/[a-z0-9/_\-]+`)
	modelIDPattern  = regexp.MustCompile(`(?i)\bmodel["']?\s*[:=]\s*["']?([a-z0-9][a-z0-9.\-]*)`)

	paramPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:parameter|param|field)s?["']?\s*[:=]\s*["']?([a-z_][a-z0-9_]*)`),
		regexp.MustCompile("`([a-z_][a-z0-9_]*)`\\s*[|:\\-]"),
	}
	identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	paramTypes        = []string{"string", "integer", "number", "boolean", "array", "object"}

	capabilityPatterns = compileKeywords(Capabilities)
)

func compileKeywords(keywords []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(keywords))
	for i, k := range keywords {
		out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(k) + `\b`)
	}
	return out
}

// ExtractModelInfo collects the model overview of a page scoped to selector:
// the first paragraph as description, capability keywords, API endpoint URLs,
// model identifiers and request parameter names.
func ExtractModelInfo(html, selector string) *models.ModelInfo {
	doc := parse(html)
	sel := scope(doc, selector)
	sel.Find("script, style").Remove()
	text := sel.Text()

	info := &models.ModelInfo{
		Endpoints:  unique(endpointPattern.FindAllString(text, -1), 0),
		Parameters: extractParameters(sel, text),
	}

	sel.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		info.Description = strings.Join(strings.Fields(p.Text()), " ")
		return info.Description == ""
	})

	for i, re := range capabilityPatterns {
		if re.MatchString(text) {
			info.Capabilities = append(info.Capabilities, Capabilities[i])
		}
	}

	var ids []string
	for _, m := range modelIDPattern.FindAllStringSubmatch(text, -1) {
		ids = append(ids, strings.TrimRight(m[1], ".-"))
	}
	info.ModelIDs = unique(ids, maxModelIDs)

	return info
}

// extractParameters finds parameter names and marks those mentioned near the
// word "required" as required.
func extractParameters(sel *goquery.Selection, text string) models.APIParameters {
	var names []string
	for _, re := range paramPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			names = append(names, strings.ToLower(m[1]))
		}
	}

	// <strong>name</strong> or <code>name</code> directly followed by a type
	sel.Find("strong, code").Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Text())
		if !identifierPattern.MatchString(name) {
			return
		}
		parent := s.Parent().Text()
		idx := strings.Index(parent, name)
		if idx < 0 {
			return
		}
		rest := strings.ToLower(strings.TrimLeft(parent[idx+len(name):], " \t\n:(-|"))
		for _, typ := range paramTypes {
			if strings.HasPrefix(rest, typ) {
				names = append(names, name)
				return
			}
		}
	})

	params := models.APIParameters{}
	lower := strings.ToLower(text)
	for _, name := range unique(names, 0) {
		if len(name) < 2 {
			continue
		}
		if nearRequired(lower, name) {
			params.Required = append(params.Required, name)
		} else {
			params.Optional = append(params.Optional, name)
		}
	}
	return params
}

// nearRequired reports whether "required" appears within 100 bytes of the
// first mention of name
func nearRequired(lower, name string) bool {
	idx := strings.Index(lower, name)
	if idx < 0 {
		return false
	}
	start := max(0, idx-100)
	end := min(len(lower), idx+len(name)+100)
	return strings.Contains(lower[start:end], "required")
}

// unique drops duplicates keeping first-seen order; limit 0 means no limit
func unique(items []string, limit int) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
