package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/law-makers/modeldocs/internal/ui"
)

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "Show known providers and model prefix rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := GetAppFromCmd(cmd)
			if a == nil {
				return fmt.Errorf("application not initialized")
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "\n%s\n", ui.Bold("Providers"))
			for _, r := range a.Resolver.Routes() {
				fmt.Fprintf(out, "  %s%-10s%s %s\n", ui.ColorCyan, r.Name, ui.ColorReset, r.DisplayName)
				if r.SupportsListing() {
					fmt.Fprintf(out, "    %s %s\n", ui.Dim("listing:"), r.ListingURL)
				}
				if r.SupportsModels() {
					fmt.Fprintf(out, "    %s %s\n", ui.Dim("models: "), r.ModelTemplate)
				}
			}

			fmt.Fprintf(out, "\n%s\n", ui.Bold("Model prefixes"))
			for _, rule := range a.Resolver.Rules() {
				fmt.Fprintf(out, "  %s%-10s%s → %s\n", ui.ColorGreen, rule.Prefix, ui.ColorReset, rule.Vendor)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}
