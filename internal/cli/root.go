// Package cli implements the collegefinder commands.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"college-finder/internal/common/gemini"
)

// Options overrides the process defaults. Zero values are replaced by the
// real stdout, stderr, clock and Gemini client.
type Options struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Now       func() time.Time
	Generator gemini.Generator
}

type rootFlags struct {
	configPath string
	logLevel   string
}

// NewRootCmd builds the command tree.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "collegefinder",
		Short:         "Find and enrich Indian higher-education institution records",
		Long:          "Grounded model lookups for colleges, HR leads and campus events, spreadsheet batch enrichment and dataset briefings. Results are cached locally.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (default: ./configs/config.yaml or ~/.collegefinder/config.yaml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override logging.level: debug, info, warn, error")

	root.AddCommand(
		newSearchCmd(flags, opts),
		newBatchCmd(flags, opts),
		newCompaniesCmd(flags, opts),
		newEventsCmd(flags, opts),
		newAnalyzeCmd(flags, opts),
		newCacheCmd(flags, opts),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd(Options{}).ExecuteContext(ctx)
}
