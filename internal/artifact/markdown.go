package artifact

import (
	"fmt"
	"strings"
	"time"

	"github.com/law-makers/modeldocs/pkg/models"
)

// RenderMarkdown renders record as a human-readable document.
// The Content, Code Examples and Tables sections are always present, even
// when empty, so every artifact has the same outline. An Overview section
// precedes them when the record carries model info.
func RenderMarkdown(record *models.ScrapedRecord, title string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "**Source**: [%s](%s)\n", record.SourceURL, record.SourceURL)
	fmt.Fprintf(&sb, "**Scraped**: %s\n\n", record.ScrapedAt.UTC().Format(time.RFC3339))

	if !record.Info.IsEmpty() {
		writeOverview(&sb, record.Info)
	}

	sb.WriteString("## Content\n\n")
	sb.WriteString(record.Content)
	sb.WriteString("\n\n## Code Examples\n\n")

	for i, block := range record.CodeExamples {
		fmt.Fprintf(&sb, "\n### Example %d (%s)\n\n", i+1, block.Language)
		fmt.Fprintf(&sb, "%s%s\n%s\n%s\n", fence(block.Code), block.Language, block.Code, fence(block.Code))
	}

	sb.WriteString("\n## Tables\n")

	for i, table := range record.Tables {
		fmt.Fprintf(&sb, "\n### Table %d\n\n", i+1)
		writeTable(&sb, table)
	}

	return sb.String()
}

func writeOverview(sb *strings.Builder, info *models.ModelInfo) {
	sb.WriteString("## Overview\n\n")
	if info.Description != "" {
		sb.WriteString(info.Description + "\n\n")
	}
	writeList(sb, "Capabilities", info.Capabilities)
	writeList(sb, "Endpoints", info.Endpoints)
	writeList(sb, "Model IDs", info.ModelIDs)
	writeList(sb, "Required Parameters", info.Parameters.Required)
	writeList(sb, "Optional Parameters", info.Parameters.Optional)
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "### %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
	sb.WriteString("\n")
}

// fence returns a backtick fence longer than any backtick run inside code
func fence(code string) string {
	longest, run := 0, 0
	for _, r := range code {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

func writeTable(sb *strings.Builder, table models.TableBlock) {
	if len(table.Headers) == 0 {
		return
	}
	writeRow(sb, table.Headers)

	sb.WriteString("|")
	for range table.Headers {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	for _, row := range table.Rows {
		writeRow(sb, row)
	}
}

func writeRow(sb *strings.Builder, cells []string) {
	escaped := make([]string, len(cells))
	for i, cell := range cells {
		escaped[i] = escapeCell(cell)
	}
	sb.WriteString("| " + strings.Join(escaped, " | ") + " |\n")
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

func escapeCell(cell string) string {
	return cellReplacer.Replace(cell)
}
