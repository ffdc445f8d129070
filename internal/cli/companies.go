package cli

import (
	"github.com/spf13/cobra"

	"college-finder/internal/models"
	companyleads "college-finder/internal/workers/company-leads"
)

func newCompaniesCmd(flags *rootFlags, opts Options) *cobra.Command {
	var (
		q      models.CompanyQuery
		all    bool
		export bool
	)

	cmd := &cobra.Command{
		Use:   "companies",
		Short: "Find HR contacts at a company's regional offices",
		Long:  "Find HR leads for a company in a state. Only leads with a confidence of at least 0.75 are shown unless --all is given.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, flags, opts, true)
			if err != nil {
				return err
			}
			defer a.close()

			h := companyleads.NewHandler(companyleads.LoadConfig(a.cfg.Cache.Namespace), a.gen, a.cache, a.obs, a.log)

			stop := startSteps(cmd.ErrOrStderr(), companySteps, stepInterval)
			out, err := h.Search(ctx, q, !all)
			stop()
			if err != nil {
				return a.fail("companies", err)
			}

			if export {
				path, err := exportSheet(a.cfg.Export.Dir, companyleads.ExportLabel, companyleads.ToSheet(out.Leads), opts.Now())
				if err != nil {
					return a.fail("export", err)
				}
				a.log.Info("export written", map[string]interface{}{"path": path})
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&q.CompanyName, "company", "", "Company name (required)")
	cmd.Flags().StringVarP(&q.State, "state", "s", "", "State (required)")
	cmd.Flags().StringVar(&q.City, "city", "", "City")
	cmd.Flags().BoolVar(&all, "all", false, "Include low-confidence leads")
	cmd.Flags().BoolVar(&export, "export", false, "Also write the leads to an .xlsx file in export.dir")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("state")

	return cmd
}
