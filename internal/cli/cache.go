package cli

import (
	"github.com/spf13/cobra"

	campusevents "college-finder/internal/workers/campus-events"
	companyleads "college-finder/internal/workers/company-leads"
	datasetanalysis "college-finder/internal/workers/dataset-analysis"
	institutionsearch "college-finder/internal/workers/institution-search"
)

// liveNamespaces lists the namespaces the current build reads from.
func liveNamespaces(base string) []string {
	return []string{
		institutionsearch.Namespace(base),
		companyleads.Namespace(base),
		campusevents.Namespace(base),
		datasetanalysis.Namespace(base),
	}
}

func newCacheCmd(flags *rootFlags, opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), flags, opts, false)
			if err != nil {
				return err
			}
			defer a.close()

			removed, err := a.cache.Clear(cmd.Context())
			if err != nil {
				return a.fail("cache clear", err)
			}
			return printJSON(cmd.OutOrStdout(), map[string]int{"removed": removed})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Remove results cached under namespaces this build no longer reads",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), flags, opts, false)
			if err != nil {
				return err
			}
			defer a.close()

			keep := liveNamespaces(a.cfg.Cache.Namespace)
			removed, err := a.cache.Purge(cmd.Context(), keep...)
			if err != nil {
				return a.fail("cache purge", err)
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{"removed": removed, "kept": keep})
		},
	})

	return cmd
}
