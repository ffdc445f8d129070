package cli

import (
	"github.com/spf13/cobra"

	"college-finder/internal/models"
	institutionsearch "college-finder/internal/workers/institution-search"
)

func newSearchCmd(flags *rootFlags, opts Options) *cobra.Command {
	var (
		names         []string
		state         string
		district      string
		collegeType   string
		accreditation string
		courses       []string
		export        bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search institutions by name or district",
		Long:  "Search institutions in a state. Each --name is a separate query; queries run concurrently and their results are merged in order.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, flags, opts, true)
			if err != nil {
				return err
			}
			defer a.close()

			if len(names) == 0 {
				names = []string{""}
			}
			queries := make([]models.InstitutionQuery, 0, len(names))
			for _, n := range names {
				queries = append(queries, models.InstitutionQuery{
					CollegeName:   n,
					State:         state,
					District:      district,
					CollegeType:   collegeType,
					Accreditation: accreditation,
					Courses:       courses,
				})
			}

			h := institutionsearch.NewHandler(institutionsearch.LoadConfig(a.cfg.Cache.Namespace), a.gen, a.cache, a.obs, a.log)

			stop := startSteps(cmd.ErrOrStderr(), institutionSteps, stepInterval)
			out, err := h.SearchMany(ctx, queries)
			stop()
			if err != nil {
				return a.fail("search", err)
			}

			if export {
				path, err := exportSheet(a.cfg.Export.Dir, institutionsearch.ExportLabel, institutionsearch.ToSheet(out.Institutions), opts.Now())
				if err != nil {
					return a.fail("export", err)
				}
				a.log.Info("export written", map[string]interface{}{"path": path})
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringArrayVarP(&names, "name", "n", nil, "College name; repeat for several colleges")
	cmd.Flags().StringVarP(&state, "state", "s", "", "State (required)")
	cmd.Flags().StringVarP(&district, "district", "d", "", "District; lists colleges there when no name is given")
	cmd.Flags().StringVar(&collegeType, "type", "", "College type filter, e.g. Private or Government")
	cmd.Flags().StringVar(&accreditation, "accreditation", "", "Accreditation filter, e.g. NAAC A++")
	cmd.Flags().StringSliceVar(&courses, "course", nil, "Course filter; repeat or comma-separate")
	cmd.Flags().BoolVar(&export, "export", false, "Also write the results to an .xlsx file in export.dir")
	_ = cmd.MarkFlagRequired("state")

	return cmd
}
