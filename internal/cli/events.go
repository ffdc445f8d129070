package cli

import (
	"github.com/spf13/cobra"

	"college-finder/internal/models"
	campusevents "college-finder/internal/workers/campus-events"
)

func newEventsCmd(flags *rootFlags, opts Options) *cobra.Command {
	var (
		q      models.EventQuery
		export bool
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List campus events in a district",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, flags, opts, true)
			if err != nil {
				return err
			}
			defer a.close()

			cfg := campusevents.LoadConfig(a.cfg.Cache.Namespace)
			cfg.Now = opts.Now
			h := campusevents.NewHandler(cfg, a.gen, a.cache, a.obs, a.log)

			stop := startSteps(cmd.ErrOrStderr(), eventSteps, stepInterval)
			out, err := h.Search(ctx, q)
			stop()
			if err != nil {
				return a.fail("events", err)
			}

			if export {
				path, err := exportSheet(a.cfg.Export.Dir, campusevents.ExportLabel, campusevents.ToSheet(out.Events), opts.Now())
				if err != nil {
					return a.fail("export", err)
				}
				a.log.Info("export written", map[string]interface{}{"path": path})
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&q.State, "state", "s", "", "State (required)")
	cmd.Flags().StringVarP(&q.District, "district", "d", "", "District (required)")
	cmd.Flags().StringVar(&q.Year, "year", "", "Four-digit year (default: current year)")
	cmd.Flags().BoolVar(&export, "export", false, "Also write the events to an .xlsx file in export.dir")
	_ = cmd.MarkFlagRequired("state")
	_ = cmd.MarkFlagRequired("district")

	return cmd
}
