package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apperrors "college-finder/internal/common/errors"
	"college-finder/internal/common/logger"
	"college-finder/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type record struct {
	Name            string
	ConfidenceScore float64
}

type fakeSleeper struct {
	calls  []time.Duration
	onCall func(n int)
}

func (f *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	f.calls = append(f.calls, d)
	if f.onCall != nil {
		f.onCall(len(f.calls))
	}
	return ctx.Err()
}

func queries(names ...string) []models.RowQuery {
	out := make([]models.RowQuery, len(names))
	for i, n := range names {
		out[i] = models.RowQuery{Name: n, State: "Kerala"}
	}
	return out
}

func statuses[R any](rows []*Row[R]) []Status {
	out := make([]Status, len(rows))
	for i, r := range rows {
		out[i] = r.Status
	}
	return out
}

func TestRun_PartialFailure(t *testing.T) {
	fetch := func(_ context.Context, q models.RowQuery) (record, error) {
		if q.Name == "Bad" {
			return record{}, apperrors.NewProviderError("The search failed.", errors.New("503"))
		}
		return record{Name: q.Name, ConfidenceScore: 0.9}, nil
	}
	sleeper := &fakeSleeper{}
	runner := NewRunner[record](fetch, Policy{Delay: 800 * time.Millisecond}, sleeper, logger.NewTestLogger(t))
	rows := NewRows[record](queries("Good", "Bad"))

	var reports []Progress
	out, err := runner.Run(context.Background(), rows, func(p Progress) { reports = append(reports, p) })
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "Good", out[0].Name)
	assert.Equal(t, []Status{StatusCompleted, StatusFailed}, statuses(rows))
	assert.Equal(t, "Search failed", rows[1].Error)
	assert.Nil(t, rows[1].Result)

	require.Len(t, reports, 2)
	assert.Equal(t, Progress{Processed: 1, Completed: 1, Total: 2, Percent: 50}, reports[0])
	assert.Equal(t, Progress{Processed: 2, Completed: 1, Failed: 1, Total: 2, Percent: 100}, reports[1])
	assert.Equal(t, []time.Duration{800 * time.Millisecond}, sleeper.calls)
}

func TestRun_IsolatesEveryFailure(t *testing.T) {
	fetch := func(_ context.Context, q models.RowQuery) (record, error) {
		switch q.Name {
		case "B":
			return record{}, errors.New("boom")
		case "D":
			return record{}, apperrors.NewNoResultsError("nothing")
		}
		return record{Name: q.Name}, nil
	}
	runner := NewRunner[record](fetch, Policy{}, &fakeSleeper{}, logger.NewTestLogger(t))
	rows := NewRows[record](queries("A", "B", "C", "D"))

	out, err := runner.Run(context.Background(), rows, nil)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, []Status{StatusCompleted, StatusFailed, StatusCompleted, StatusFailed}, statuses(rows))
	assert.Equal(t, "No match found", rows[3].Error)
}

func TestRun_ResumeSkipsCompleted(t *testing.T) {
	calls := map[string]int{}
	failOnce := true
	fetch := func(_ context.Context, q models.RowQuery) (record, error) {
		calls[q.Name]++
		if q.Name == "B" && failOnce {
			failOnce = false
			return record{}, errors.New("transient")
		}
		return record{Name: q.Name}, nil
	}
	runner := NewRunner[record](fetch, Policy{}, &fakeSleeper{}, logger.NewTestLogger(t))
	rows := NewRows[record](queries("A", "B", "C"))

	_, err := runner.Run(context.Background(), rows, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, rows[1].Status)

	out, err := runner.Run(context.Background(), rows, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"A": 1, "B": 2, "C": 1}, calls)
	assert.Equal(t, []Status{StatusCompleted, StatusCompleted, StatusCompleted}, statuses(rows))
	names := []string{out[0].Name, out[1].Name, out[2].Name}
	assert.Equal(t, []string{"A", "B", "C"}, names)
}

func TestRun_CancelBetweenRows(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetched := 0
	fetch := func(_ context.Context, q models.RowQuery) (record, error) {
		fetched++
		return record{Name: q.Name}, nil
	}
	sleeper := &fakeSleeper{onCall: func(n int) {
		if n == 2 {
			cancel()
		}
	}}
	runner := NewRunner[record](fetch, Policy{Delay: time.Second}, sleeper, logger.NewTestLogger(t))
	rows := NewRows[record](queries("A", "B", "C", "D"))

	out, err := runner.Run(ctx, rows, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, fetched)
	assert.Len(t, out, 2)
	assert.Equal(t, []Status{StatusCompleted, StatusCompleted, StatusPending, StatusPending}, statuses(rows))
}

func TestRun_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetch := func(context.Context, models.RowQuery) (record, error) {
		t.Fatal("fetch must not run")
		return record{}, nil
	}
	runner := NewRunner[record](fetch, Policy{}, &fakeSleeper{}, logger.NewTestLogger(t))

	out, err := runner.Run(ctx, NewRows[record](queries("A")), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out)
}

func TestTimerSleeper(t *testing.T) {
	s := timerSleeper{}
	assert.NoError(t, s.Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Sleep(ctx, time.Hour), context.Canceled)
}
