package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/law-makers/modeldocs/internal/ui"
	"github.com/law-makers/modeldocs/internal/utils/output"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List artifacts in the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := GetAppFromCmd(cmd)
			if a == nil {
				return fmt.Errorf("application not initialized")
			}

			artifacts, err := output.ListArtifacts(a.Config.OutputDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(artifacts) == 0 {
				fmt.Fprintf(out, "%s %s\n", ui.Warn("No artifacts in"), a.Config.OutputDir)
				return nil
			}

			var total int64
			for _, art := range artifacts {
				total += art.Size
				fmt.Fprintf(out, "  %-55s %10s  %s\n",
					art.Name,
					ui.FormatBytes(art.Size),
					ui.Dim(art.ModTime.Format("2006-01-02 15:04")))
			}
			fmt.Fprintf(out, "\n%s %d files, %s in %s\n", ui.Dim("Total:"), len(artifacts), ui.FormatBytes(total), a.Config.OutputDir)
			return nil
		},
	}
}
