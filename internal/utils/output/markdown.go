package output

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	urlutil "github.com/law-makers/modeldocs/internal/utils/url"
)

// ConvertHTML converts a page to GitHub-flavored Markdown, resolving
// relative links against pageURL
func ConvertHTML(pageURL, htmlContent string) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	converter.AddRules(md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			href := strings.TrimSpace(selec.AttrOr("href", ""))
			text := strings.TrimSpace(content)
			// Script and empty links carry nothing worth keeping
			if href == "" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
				return &text
			}

			link := fmt.Sprintf("[%s](%s", text, urlutil.ResolveURL(pageURL, href))
			if title := selec.AttrOr("title", ""); title != "" {
				link += fmt.Sprintf(" %q", title)
			}
			link += ")"
			return &link
		},
	})

	cleaned, err := CleanHTML(htmlContent)
	if err != nil {
		return "", err
	}

	return converter.ConvertString(cleaned)
}
