package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"college-finder/internal/tabular"
	datasetanalysis "college-finder/internal/workers/dataset-analysis"
)

func newAnalyzeCmd(flags *rootFlags, opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze FILE",
		Short: "Write an executive briefing for a .xlsx or .csv dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, flags, opts, true)
			if err != nil {
				return err
			}
			defer a.close()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return a.fail("analyze", fmt.Errorf("read %s: %w", args[0], err))
			}
			table, err := tabular.ReadTable(filepath.Base(args[0]), data)
			if err != nil {
				return a.fail("analyze", err)
			}

			h := datasetanalysis.NewHandler(datasetanalysis.LoadConfig(a.cfg.Cache.Namespace), a.gen, a.cache, a.obs, a.log)
			out, err := h.Analyze(ctx, table)
			if err != nil {
				return a.fail("analyze", err)
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}
