package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/modeldocs/pkg/models"
)

// DefaultLanguage is used for code blocks without a language hint
const DefaultLanguage = "text"

const languageClassPrefix = "language-"

// ExtractCodeBlocks returns every non-empty <code> and <pre> element in
// document order. Nested pre/code pairs yield one block each.
func ExtractCodeBlocks(html string) []models.CodeBlock {
	doc := parse(html)

	blocks := []models.CodeBlock{}
	doc.Find("code, pre").Each(func(_ int, s *goquery.Selection) {
		code := strings.TrimSpace(s.Text())
		if code == "" {
			return
		}
		blocks = append(blocks, models.CodeBlock{
			Language: codeLanguage(s),
			Code:     code,
		})
	})
	return blocks
}

func codeLanguage(s *goquery.Selection) string {
	if class, ok := s.Attr("class"); ok {
		for _, token := range strings.Fields(class) {
			if lang := strings.TrimPrefix(token, languageClassPrefix); lang != token && lang != "" {
				return lang
			}
		}
	}
	if lang, ok := s.Attr("data-language"); ok {
		if lang = strings.TrimSpace(lang); lang != "" {
			return lang
		}
	}
	return DefaultLanguage
}

// ExtractTables returns every table with at least one non-empty row.
// The first row becomes the headers, the rest the rows.
func ExtractTables(html string) []models.TableBlock {
	doc := parse(html)

	tables := []models.TableBlock{}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		var rows [][]string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td, th")
			if cells.Length() == 0 {
				return
			}
			row := make([]string, 0, cells.Length())
			cells.Each(func(_ int, cell *goquery.Selection) {
				row = append(row, strings.TrimSpace(cell.Text()))
			})
			rows = append(rows, row)
		})

		if len(rows) == 0 {
			return
		}
		tables = append(tables, models.TableBlock{
			Headers: rows[0],
			Rows:    append([][]string{}, rows[1:]...),
		})
	})
	return tables
}
