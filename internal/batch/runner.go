package batch

import (
	"context"
	"math"
	"time"

	apperrors "college-finder/internal/common/errors"
	"college-finder/internal/common/logger"
	"college-finder/internal/common/metrics"
	"college-finder/internal/models"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Row is one spreadsheet row moving through a run. Rows are owned by the
// Runner while Run is executing.
type Row[R any] struct {
	Index  int             `json:"index"`
	Query  models.RowQuery `json:"query"`
	Status Status          `json:"status"`
	Error  string          `json:"error,omitempty"`
	Result *R              `json:"result,omitempty"`
}

func NewRows[R any](queries []models.RowQuery) []*Row[R] {
	rows := make([]*Row[R], len(queries))
	for i, q := range queries {
		rows[i] = &Row[R]{Index: i, Query: q, Status: StatusPending}
	}
	return rows
}

// Progress is reported after every processed row.
type Progress struct {
	Processed int `json:"processed"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// FetchFunc enriches one row and returns its single best record.
type FetchFunc[R any] func(ctx context.Context, q models.RowQuery) (R, error)

// Policy throttles a run. Rows are always processed one at a time; Delay
// is the pause between two rows.
type Policy struct {
	Delay time.Duration
}

// Sleeper pauses for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type Runner[R any] struct {
	fetch   FetchFunc[R]
	policy  Policy
	sleeper Sleeper
	failMsg string
	logger  logger.Logger
}

// NewRunner builds a Runner. A nil sleeper uses real timers.
func NewRunner[R any](fetch FetchFunc[R], policy Policy, sleeper Sleeper, log logger.Logger) *Runner[R] {
	if sleeper == nil {
		sleeper = timerSleeper{}
	}
	return &Runner[R]{
		fetch:   fetch,
		policy:  policy,
		sleeper: sleeper,
		failMsg: "Search failed",
		logger:  log.WithFields(map[string]interface{}{"component": "batch"}),
	}
}

// Run processes rows in order. A failing row is marked failed and the run
// continues. Rows already completed by an earlier run are skipped and their
// results kept. The only error returned is the context's, when the run is
// cancelled between rows; the records gathered so far are returned with it.
func (r *Runner[R]) Run(ctx context.Context, rows []*Row[R], onProgress func(Progress)) ([]R, error) {
	progress := Progress{Total: len(rows)}
	for _, row := range rows {
		if row.Status == StatusCompleted {
			progress.Completed++
		}
	}

	var runErr error
	processed := 0
	for i, row := range rows {
		if row.Status == StatusCompleted {
			continue
		}
		if processed > 0 {
			if err := r.sleeper.Sleep(ctx, r.policy.Delay); err != nil {
				runErr = err
				break
			}
		}
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		r.process(ctx, row)
		processed++

		switch row.Status {
		case StatusCompleted:
			progress.Completed++
		case StatusFailed:
			progress.Failed++
		}
		progress.Processed = i + 1
		progress.Percent = int(math.Round(float64(i+1) / float64(len(rows)) * 100))
		if onProgress != nil {
			onProgress(progress)
		}
	}

	if runErr != nil {
		r.logger.Warn("batch cancelled", map[string]interface{}{
			"completed": progress.Completed,
			"failed":    progress.Failed,
			"total":     progress.Total,
		})
	}
	return collect(rows), runErr
}

func (r *Runner[R]) process(ctx context.Context, row *Row[R]) {
	row.Status = StatusProcessing
	row.Error = ""
	log := r.logger.WithFields(map[string]interface{}{"row": row.Index, "name": row.Query.Name})
	log.Debug("row processing", nil)

	metrics.BatchRowsActive.Inc()
	result, err := r.fetch(ctx, row.Query)
	metrics.BatchRowsActive.Dec()

	if err != nil {
		row.Status = StatusFailed
		row.Error = r.failMsg
		if apperrors.CodeOf(err) == apperrors.ErrCodeNoResults {
			row.Error = "No match found"
		}
		metrics.BatchRows.WithLabelValues(string(StatusFailed)).Inc()
		log.Warn("row failed", map[string]interface{}{"error": err, "errorCode": string(apperrors.CodeOf(err))})
		return
	}

	row.Status = StatusCompleted
	row.Result = &result
	metrics.BatchRows.WithLabelValues(string(StatusCompleted)).Inc()
	log.Debug("row completed", nil)
}

// collect returns results of completed rows in row order.
func collect[R any](rows []*Row[R]) []R {
	out := make([]R, 0, len(rows))
	for _, row := range rows {
		if row.Status == StatusCompleted && row.Result != nil {
			out = append(out, *row.Result)
		}
	}
	return out
}
