// internal/cli/get.go
package cli

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/modeldocs/internal/extract"
	"github.com/law-makers/modeldocs/internal/ui"
	"github.com/law-makers/modeldocs/internal/utils/output"
)

func newGetCmd() *cobra.Command {
	var selector string
	var markdown bool

	cmd := &cobra.Command{
		Use:   "get <url>",
		Short: "Fetch a single page and print its text or Markdown",
		Long: `Fetch any page through the same rate-limited, retrying fetcher used for
scrapes and print the extracted text with a heading outline. Nothing is saved.

Selectors starting with "/" or "(" are evaluated as XPath, anything else as CSS.`,
		Example: `  # Extracted text of the main element
  modeldocs get https://docs.aimlapi.com/ --selector main

  # XPath selector
  modeldocs get https://example.com --selector "//article"

  # Cleaned page as Markdown
  modeldocs get https://example.com --markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := GetAppFromCmd(cmd)
			if a == nil {
				return fmt.Errorf("application not initialized")
			}
			url := args[0]

			log.Info().Str("url", url).Msg("Fetching URL")
			page, err := a.Fetcher.Fetch(cmd.Context(), url)
			if err != nil {
				return fmt.Errorf("failed to fetch URL: %w", err)
			}

			out := cmd.OutOrStdout()
			if markdown {
				md, err := output.ConvertHTML(page.URL, page.HTML)
				if err != nil {
					return fmt.Errorf("convert to markdown: %w", err)
				}
				fmt.Fprintln(out, md)
				return nil
			}

			if title := extract.ExtractTitle(page.HTML); title != "" {
				fmt.Fprintf(out, "\n%s\n", ui.Bold(title))
			}
			fmt.Fprintf(out, "%s %d  %s %d\n", ui.Dim("Status:"), page.StatusCode, ui.Dim("Attempts:"), page.Attempts)

			if headings := extract.ExtractHeadings(page.HTML); len(headings) > 0 {
				fmt.Fprintf(out, "\n%s\n", ui.Bold("Outline"))
				for _, h := range headings {
					fmt.Fprintf(out, "%s- %s\n", strings.Repeat("  ", h.Level-1), h.Text)
				}
			}

			fmt.Fprintf(out, "\n%s\n%s\n", ui.Bold("Content"), extract.ExtractText(page.HTML, selector))
			return nil
		},
	}

	cmd.Flags().StringVarP(&selector, "selector", "s", "", "CSS or XPath selector to extract (default: whole page)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print the cleaned page as Markdown instead of text")
	return cmd
}
