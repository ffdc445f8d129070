package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"college-finder/internal/batch"
	"college-finder/internal/common/config"
	"college-finder/internal/common/logger"
	"college-finder/internal/models"
	"college-finder/internal/tabular"
	institutionsearch "college-finder/internal/workers/institution-search"
)

// batchSummary is printed when a run ends, including a cancelled one.
type batchSummary struct {
	File     string                          `json:"file"`
	Progress batch.Progress                  `json:"progress"`
	Export   string                          `json:"export,omitempty"`
	Rows     []*batch.Row[models.Institution] `json:"rows"`
}

func newBatchCmd(flags *rootFlags, opts Options) *cobra.Command {
	var (
		outDir      string
		metricsAddr string
		delay       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Enrich every row of a .xlsx or .csv file",
		Long:  "Read college names, states and optional districts from FILE, look each row up in turn and export the matches to an .xlsx workbook.",
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
				return a.fail("batch", fmt.Errorf("read %s: %w", args[0], err))
			}
			queries, err := tabular.Decode(filepath.Base(args[0]), data)
			if err != nil {
				return a.fail("batch", err)
			}

			if metricsAddr == "" {
				metricsAddr = a.cfg.Metrics.Address
			}
			if metricsAddr != "" {
				srv := startMetricsServer(metricsAddr, a.log)
				defer shutdownServer(srv, a.log)
			}

			policy := batch.Policy{Delay: config.GetDuration(a.cfg.Batch.Delay)}
			if cmd.Flags().Changed("delay") {
				policy.Delay = delay
			}

			h := institutionsearch.NewHandler(institutionsearch.LoadConfig(a.cfg.Cache.Namespace), a.gen, a.cache, a.obs, a.log)
			runner := batch.NewRunner[models.Institution](h.FetchRow, policy, nil, a.log)
			rows := batch.NewRows[models.Institution](queries)

			stderr := cmd.ErrOrStderr()
			summary := batchSummary{File: args[0], Progress: batch.Progress{Total: len(rows)}, Rows: rows}
			results, runErr := runner.Run(ctx, rows, func(p batch.Progress) {
				summary.Progress = p
				fmt.Fprintf(stderr, "[%d/%d] %d%% completed=%d failed=%d\n", p.Processed, p.Total, p.Percent, p.Completed, p.Failed)
			})

			if len(results) > 0 {
				dir := outDir
				if dir == "" {
					dir = a.cfg.Export.Dir
				}
				path, err := exportSheet(dir, institutionsearch.ExportLabel, institutionsearch.ToSheet(results), opts.Now())
				if err != nil {
					return a.fail("export", err)
				}
				summary.Export = path
			}

			if err := printJSON(cmd.OutOrStdout(), summary); err != nil {
				return err
			}
			if runErr != nil {
				a.log.Warn("batch run interrupted", map[string]interface{}{"error": runErr, "processed": summary.Progress.Processed})
				return &userError{msg: "Batch cancelled. Rows finished so far were exported.", cause: runErr}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Export directory (default: export.dir)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve /metrics and /health on this address while the run lasts (default: metrics.address)")
	cmd.Flags().DurationVar(&delay, "delay", 0, "Pause between rows (default: batch.delay)")

	return cmd
}

func startMetricsServer(addr string, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("metrics server listening", map[string]interface{}{"address": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", map[string]interface{}{"error": err})
		}
	}()
	return srv
}

func shutdownServer(srv *http.Server, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("metrics server shutdown failed", map[string]interface{}{"error": err})
	}
}
