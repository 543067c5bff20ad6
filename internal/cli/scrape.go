package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/law-makers/modeldocs/internal/engine"
	"github.com/law-makers/modeldocs/internal/ui"
	"github.com/law-makers/modeldocs/pkg/models"
)

func newScrapeCmd() *cobra.Command {
	var providerName, model, source string

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape one model page or a provider's model listing",
		Long: `Fetch a documentation page, extract its content, code examples and tables,
and save {provider}_{model}_context.md plus {provider}_{model}_data.json.

Without --model the provider's model listing page is scraped. Models given
without a provider (or with --provider aimlapi) are resolved by name prefix to
the AIML API catalogue.`,
		Example: `  # Resolve a model by its name prefix
  modeldocs scrape --model gpt-4o

  # Scrape a provider's own model page
  modeldocs scrape --provider mistral --model mistral-large-latest

  # Scrape a provider's model listing
  modeldocs scrape --provider anthropic

  # Pick the catalogue vendor explicitly
  modeldocs scrape --source openai --model gpt-4o-mini`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := GetAppFromCmd(cmd)
			if a == nil {
				return fmt.Errorf("application not initialized")
			}
			if providerName == "" && model == "" {
				return fmt.Errorf("at least one of --provider or --model is required")
			}
			if source != "" && model == "" {
				return fmt.Errorf("--source requires --model")
			}

			var err error
			if source != "" {
				_, err = a.Orchestrator.ScrapeCatalog(cmd.Context(), source, model)
			} else {
				_, err = a.Orchestrator.Scrape(cmd.Context(), models.ScrapeRequest{Provider: providerName, Model: model})
			}

			out := cmd.OutOrStdout()
			if err != nil {
				printFailure(out, err)
				return &reportedError{err: err}
			}
			printSummary(out, a.Orchestrator.Summary())
			return nil
		},
	}

	cmd.Flags().StringVarP(&providerName, "provider", "p", "", "Provider to scrape (see 'modeldocs providers')")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model identifier, e.g. gpt-4o")
	cmd.Flags().StringVar(&source, "source", "", "AIML API catalogue vendor path, overriding prefix resolution")
	return cmd
}

// printFailure names the stage that failed
func printFailure(w io.Writer, err error) {
	stage := "scrape"
	var ee *engine.EngineError
	if errors.As(err, &ee) {
		stage = ee.Stage()
	}
	fmt.Fprintf(w, "%s %s failed: %v\n", ui.Error("✗"), stage, err)
}

func printSummary(w io.Writer, s engine.Summary) {
	if len(s.Files) == 0 {
		fmt.Fprintf(w, "%s\n", ui.Warn("No files written"))
		return
	}

	fmt.Fprintf(w, "\n%s\n", ui.Bold("Files written"))
	for _, f := range s.Files {
		fmt.Fprintf(w, "  %s %-50s %s\n", ui.Success("✓"), f.Name, ui.Dim(ui.FormatBytes(f.Size)))
	}
	fmt.Fprintf(w, "\n%s %s\n", ui.Dim("Output dir:"), filepath.Clean(s.OutputDir))
	fmt.Fprintf(w, "%s %d files, %s\n", ui.Dim("Total:"), len(s.Files), ui.FormatBytes(s.TotalBytes))
}
