// internal/cli/root.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/law-makers/modeldocs/internal/app"
	"github.com/law-makers/modeldocs/internal/config"
	"github.com/law-makers/modeldocs/internal/ui"
)

// Version is the CLI version reported by --version
const Version = "0.2.0"

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "modeldocs",
		Short: "Scrape AI model API documentation into Markdown and JSON",
		Long: `modeldocs fetches documentation pages for AI-model API providers, extracts
text, code samples and tables, and saves each page as a Markdown file plus a
JSON record in the output directory.

Pages are fetched one at a time with a fixed delay between requests and a
bounded number of retries.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Lazily initialize the application before running commands (avoid starting app for -h/help)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetAppFromCmd(cmd) != nil {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		SetApp(cmd, a)
		return nil
	}

	// Ensure app is closed after command runs
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		a := GetAppFromCmd(cmd)
		if a == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), a.Config.HTTPTimeout)
		defer cancel()
		_ = a.Close(ctx)
		SetApp(cmd, nil)
	}

	config.RegisterFlags(rootCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd.OutOrStdout(), cmd, true)
	})
	rootCmd.SetUsageFunc(func(cmd *cobra.Command) error {
		renderHelp(cmd.ErrOrStderr(), cmd, false)
		return nil
	})

	rootCmd.AddCommand(
		newScrapeCmd(),
		newBatchCmd(),
		newListCmd(),
		newProvidersCmd(),
		newGetCmd(),
	)

	return rootCmd
}

// Execute runs the CLI with ctx as the root context.
// This is called by main.main().
func Execute(ctx context.Context, args []string) error {
	return execute(ctx, NewRootCmd(), args)
}

func execute(ctx context.Context, rootCmd *cobra.Command, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	var shown *reportedError
	if err != nil && !errors.As(err, &shown) {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "%s %v\n", ui.Error("Error:"), err)
	}
	return err
}

// reportedError marks an error a command has already printed to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// renderHelp writes colorized help. full adds the long description and examples.
func renderHelp(w io.Writer, cmd *cobra.Command, full bool) {
	if full {
		fmt.Fprintf(w, "\n%s%s%s\n", ui.ColorBold+ui.ColorCyan, strings.ToUpper(cmd.Name()), ui.ColorReset)
		if cmd.Short != "" {
			fmt.Fprintf(w, "%s\n", cmd.Short)
		}
		if cmd.Long != "" && cmd.Long != cmd.Short {
			fmt.Fprintf(w, "\n%s\n", wrapText(cmd.Long, 80))
		}
	}

	section(w, "Usage")
	if cmd.Runnable() {
		fmt.Fprintf(w, "  %s%s%s\n", ui.ColorCyan, cmd.UseLine(), ui.ColorReset)
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "  %s%s%s %s<command>%s %s[flags]%s\n",
			ui.ColorCyan, cmd.CommandPath(), ui.ColorReset,
			ui.ColorYellow, ui.ColorReset,
			ui.ColorDim, ui.ColorReset)
	}

	if full && cmd.HasExample() {
		section(w, "Examples")
		lastWasCommand := false
		for _, example := range strings.Split(cmd.Example, "\n") {
			trimmed := strings.TrimSpace(example)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, "#") {
				if lastWasCommand {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "  %s%s%s\n", ui.ColorDim, trimmed, ui.ColorReset)
				lastWasCommand = false
			} else {
				fmt.Fprintf(w, "  %s$ %s%s\n", ui.ColorGreen, trimmed, ui.ColorReset)
				lastWasCommand = true
			}
		}
	}

	if cmd.HasAvailableSubCommands() {
		section(w, "Commands")
		var available []*cobra.Command
		maxLen := 0
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() && c.Name() != "help" {
				available = append(available, c)
				maxLen = max(maxLen, len(c.Name()))
			}
		}
		for _, c := range available {
			padding := strings.Repeat(" ", maxLen-len(c.Name())+2)
			fmt.Fprintf(w, "  %s%s%s%s%s%s%s\n",
				ui.ColorCyan, c.Name(), ui.ColorReset,
				padding,
				ui.ColorDim, c.Short, ui.ColorReset)
		}
	}

	if cmd.HasAvailableLocalFlags() {
		section(w, "Flags")
		printFlagsTo(w, cmd.LocalFlags().FlagUsages())
	}
	if full && cmd.HasAvailableInheritedFlags() {
		section(w, "Global Flags")
		printFlagsTo(w, cmd.InheritedFlags().FlagUsages())
	}

	fmt.Fprintf(w, "\n%sUse \"%s%s%s %s--help%s\" for more information.%s\n",
		ui.ColorDim,
		ui.ColorCyan, cmd.CommandPath(), ui.ColorReset+ui.ColorDim,
		ui.ColorGreen, ui.ColorReset+ui.ColorDim,
		ui.ColorReset)
	if full {
		fmt.Fprintln(w)
	}
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s%s%s\n", ui.ColorBold+ui.ColorWhite, title, ui.ColorReset)
}

// printFlagsTo prints flag usages aligned in two colored columns
func printFlagsTo(w io.Writer, flagUsages string) {
	lines := strings.Split(flagUsages, "\n")

	maxFlagLen := 28
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, "-") {
			flagPart := strings.TrimSpace(strings.SplitN(trimmed, "  ", 2)[0])
			maxFlagLen = max(maxFlagLen, len(flagPart))
		}
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		trimmed := strings.TrimLeft(line, " ")

		if !strings.HasPrefix(trimmed, "-") {
			// Continuation line
			fmt.Fprintf(w, "%s%s%s%s\n", strings.Repeat(" ", maxFlagLen+4), ui.ColorDim, trimmed, ui.ColorReset)
			continue
		}

		parts := strings.SplitN(trimmed, "  ", 2)
		if len(parts) != 2 {
			fmt.Fprintf(w, "  %s%s%s\n", ui.ColorGreen, trimmed, ui.ColorReset)
			continue
		}
		flagPart := strings.TrimSpace(parts[0])
		padding := strings.Repeat(" ", maxFlagLen-len(flagPart)+2)
		fmt.Fprintf(w, "  %s%s%s%s%s%s%s\n",
			ui.ColorGreen, flagPart, ui.ColorReset,
			padding,
			ui.ColorDim, strings.TrimSpace(parts[1]), ui.ColorReset)
	}
}

// wrapText wraps text at the specified width while preserving paragraphs
func wrapText(text string, width int) string {
	var paragraphs []string
	for _, para := range strings.Split(text, "\n\n") {
		var lines []string
		var current strings.Builder
		for _, word := range strings.Fields(para) {
			switch {
			case current.Len() == 0:
				current.WriteString(word)
			case current.Len()+1+len(word) <= width:
				current.WriteByte(' ')
				current.WriteString(word)
			default:
				lines = append(lines, current.String())
				current.Reset()
				current.WriteString(word)
			}
		}
		if current.Len() > 0 {
			lines = append(lines, current.String())
		}
		if len(lines) > 0 {
			paragraphs = append(paragraphs, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
