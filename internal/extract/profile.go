package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// mountSelectors match the empty root elements client-side frameworks render into
var mountSelectors = []struct {
	selector  string
	framework string
}{
	{"#__next", "Next.js"},
	{"#__nuxt", "Nuxt"},
	{"[data-reactroot], #root", "React"},
	{"[ng-app], [ng-version]", "Angular"},
	{"#app", "Vue"},
	{"#svelte, [data-sveltekit-hydrate]", "Svelte"},
}

// PageProfile summarizes a page's metadata and how much of it is script driven
type PageProfile struct {
	Title       string
	Description string
	Meta        map[string]string
	LinkCount   int
	ScriptCount int
	Framework   string
	TextLength  int
}

// ScriptRendered reports whether the page probably builds its content in
// the browser, which static extraction cannot see.
func (p PageProfile) ScriptRendered() bool {
	if p.Framework != "" && p.TextLength < 200 {
		return true
	}
	return p.ScriptCount > 5 && p.TextLength < 100
}

// Profile collects title, meta tags, link and script counts and any client-side
// framework mount point found in html.
func Profile(html string) PageProfile {
	doc := parse(html)

	p := PageProfile{
		Title: ExtractTitle(html),
		Meta:  make(map[string]string),
	}

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		content := strings.TrimSpace(sel.AttrOr("content", ""))
		if name, ok := sel.Attr("name"); ok && name != "" {
			p.Meta[strings.ToLower(name)] = content
		}
		if property, ok := sel.Attr("property"); ok && property != "" {
			p.Meta[strings.ToLower(property)] = content
		}
	})
	p.Description = p.Meta["description"]
	if p.Description == "" {
		p.Description = p.Meta["og:description"]
	}

	p.LinkCount = doc.Find("a[href]").Length()
	p.ScriptCount = doc.Find("script").Length()

	for _, m := range mountSelectors {
		if doc.Find(m.selector).Length() > 0 {
			p.Framework = m.framework
			break
		}
	}

	body := doc.Find("body").Clone()
	body.Find("script, style, noscript, template").Remove()
	p.TextLength = len([]rune(strings.Join(strings.Fields(body.Text()), " ")))

	return p
}
