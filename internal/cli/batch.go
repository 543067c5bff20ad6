package cli

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/law-makers/modeldocs/internal/ui"
)

func newBatchCmd() *cobra.Command {
	var providerName string

	cmd := &cobra.Command{
		Use:   "batch MODEL...",
		Short: "Scrape several models one after another",
		Long: `Scrape each model in turn. A failed model is reported and skipped; the batch
only fails when every model failed.`,
		Example: `  # Catalogue pages resolved by prefix
  modeldocs batch gpt-4o claude-3-5-sonnet gemini-1.5-pro

  # Provider model pages
  modeldocs batch --provider google gemini-1.5-pro gemini-1.5-flash`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := GetAppFromCmd(cmd)
			if a == nil {
				return fmt.Errorf("application not initialized")
			}

			models := dedupe(args)
			if len(models) == 0 {
				return fmt.Errorf("no models given")
			}
			bar := progressbar.NewOptions(len(models),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("scraping"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			var failed []string
			for _, model := range models {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				bar.Describe(model)
				if _, err := a.Orchestrator.ScrapeModel(cmd.Context(), providerName, model); err != nil {
					log.Debug().Err(err).Str("model", model).Msg("Batch item failed")
					failed = append(failed, model)
				}
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			out := cmd.OutOrStdout()
			printSummary(out, a.Orchestrator.Summary())
			fmt.Fprintf(out, "%s %d/%d models scraped\n", ui.Dim("Batch:"), len(models)-len(failed), len(models))
			if len(failed) > 0 {
				fmt.Fprintf(out, "%s %s\n", ui.Error("Failed:"), strings.Join(failed, ", "))
			}
			if len(failed) == len(models) {
				return fmt.Errorf("all %d models failed", len(models))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&providerName, "provider", "p", "", "Provider whose model pages to scrape (default: resolve by prefix)")
	return cmd
}

// dedupe drops blank and repeated entries, keeping first-seen order
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
