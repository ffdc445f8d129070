package enrichment

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"college-finder/internal/cache"
	apperrors "college-finder/internal/common/errors"
	"college-finder/internal/common/gemini"
	"college-finder/internal/common/logger"
	"college-finder/internal/models"
)

type testQuery struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

type testRecord struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	District        string   `json:"district"`
	ConfidenceScore float64  `json:"confidenceScore"`
	IsVerified      bool     `json:"isVerified"`
	Sources         []string `json:"sources"`
}

type testVariant struct{}

func (testVariant) Name() string       { return "test" }
func (testVariant) Namespace() string  { return "test_v1" }
func (testVariant) Grounded() bool     { return true }
func (testVariant) ListKeys() []string { return []string{"results"} }
func (testVariant) Prompt(q testQuery) string {
	return "find " + q.Name + " in " + q.State
}
func (testVariant) FailureMessage() string { return "The search failed." }
func (testVariant) EmptyMessage() string   { return "Nothing found." }
func (testVariant) Validate(q testQuery) error {
	if q.State == "" {
		return apperrors.NewInvalidQueryError("state is required")
	}
	return nil
}
func (testVariant) Normalize(_ testQuery, raw Raw, sources []models.GroundingSource) testRecord {
	score := raw.Score("confidenceScore")
	uris := make([]string, 0, len(sources))
	for _, s := range sources {
		uris = append(uris, s.URI)
	}
	return testRecord{
		ID:              uuid.NewString(),
		Name:            raw.String("name"),
		District:        raw.String("district"),
		ConfidenceScore: score,
		IsVerified:      models.IsVerified(score),
		Sources:         uris,
	}
}

type fakeGenerator struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	respond func(prompt string) (*gemini.Response, error)
}

func (f *fakeGenerator) Generate(_ context.Context, req gemini.Request) (*gemini.Response, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, req.Prompt)
	f.mu.Unlock()
	return f.respond(req.Prompt)
}

func (f *fakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func textResponse(text string) func(string) (*gemini.Response, error) {
	return func(string) (*gemini.Response, error) {
		return &gemini.Response{Text: text}, nil
	}
}

func newTestEnricher(t *testing.T, gen gemini.Generator) (*Enricher[testQuery, testRecord], *cache.MemoryStore) {
	t.Helper()
	store := cache.NewMemoryStore()
	log := logger.NewTestLogger(t)
	return New[testQuery, testRecord](testVariant{}, gen, cache.New(store, log), nil, log), store
}

func TestFetch_CoercesMissingFields(t *testing.T) {
	gen := &fakeGenerator{respond: textResponse(`[{"name":"X"}]`)}
	e, _ := newTestEnricher(t, gen)

	p, err := e.Fetch(context.Background(), testQuery{Name: "X", State: "Y"})
	require.NoError(t, err)

	require.Len(t, p.Records, 1)
	rec := p.Records[0]
	assert.Equal(t, "X", rec.Name)
	assert.Equal(t, models.NotAvailable, rec.District)
	assert.Equal(t, 0.0, rec.ConfidenceScore)
	assert.False(t, rec.IsVerified)
	assert.NotEmpty(t, rec.ID)
	assert.False(t, p.Cached)
}

func TestFetch_CacheIdempotence(t *testing.T) {
	gen := &fakeGenerator{respond: func(string) (*gemini.Response, error) {
		return &gemini.Response{
			Text:    `{"name":"X","confidenceScore":0.9}`,
			Sources: []models.GroundingSource{{Title: "Example", URI: "https://example.edu"}},
		}, nil
	}}
	e, _ := newTestEnricher(t, gen)
	ctx := context.Background()
	q := testQuery{Name: "X", State: "Y"}

	first, err := e.Fetch(ctx, q)
	require.NoError(t, err)
	second, err := e.Fetch(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, 1, gen.Calls())
	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t, first.Sources, second.Sources)
	assert.True(t, second.Cached)
	assert.True(t, second.Records[0].IsVerified)
	assert.Equal(t, []string{"https://example.edu"}, second.Records[0].Sources)

	_, err = e.Fetch(ctx, testQuery{Name: "X", State: "Z"})
	require.NoError(t, err)
	assert.Equal(t, 2, gen.Calls())
}

func TestFetch_FreshIDsPerEnrichment(t *testing.T) {
	gen := &fakeGenerator{respond: textResponse(`{"name":"X"}`)}
	e := New[testQuery, testRecord](testVariant{}, gen, nil, nil, logger.NewTestLogger(t))

	a, err := e.Fetch(context.Background(), testQuery{Name: "X", State: "Y"})
	require.NoError(t, err)
	b, err := e.Fetch(context.Background(), testQuery{Name: "X", State: "Y"})
	require.NoError(t, err)

	assert.Equal(t, 2, gen.Calls())
	assert.NotEqual(t, a.Records[0].ID, b.Records[0].ID)
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name     string
		respond  func(string) (*gemini.Response, error)
		wantCode apperrors.ErrorCode
		wantMsg  string
	}{
		{
			name:     "provider error",
			respond:  func(string) (*gemini.Response, error) { return nil, errors.New("429 RESOURCE_EXHAUSTED") },
			wantCode: apperrors.ErrCodeProviderError,
			wantMsg:  "The search failed.",
		},
		{
			name:     "empty text",
			respond:  textResponse(""),
			wantCode: apperrors.ErrCodeEmptyResponse,
			wantMsg:  "The search failed.",
		},
		{
			name:     "nil response",
			respond:  func(string) (*gemini.Response, error) { return nil, nil },
			wantCode: apperrors.ErrCodeEmptyResponse,
			wantMsg:  "The search failed.",
		},
		{
			name:     "malformed json",
			respond:  textResponse(`{"name": "X"`),
			wantCode: apperrors.ErrCodeMalformedResponse,
			wantMsg:  "The search failed.",
		},
		{
			name:     "scalar json",
			respond:  textResponse(`"just a sentence"`),
			wantCode: apperrors.ErrCodeMalformedResponse,
			wantMsg:  "The search failed.",
		},
		{
			name:     "array of strings",
			respond:  textResponse(`["Foo College"]`),
			wantCode: apperrors.ErrCodeMalformedResponse,
			wantMsg:  "The search failed.",
		},
		{
			name:     "array of numbers",
			respond:  textResponse(`[1, 2]`),
			wantCode: apperrors.ErrCodeMalformedResponse,
			wantMsg:  "The search failed.",
		},
		{
			name:     "list key holds a string",
			respond:  textResponse(`{"results": "oops"}`),
			wantCode: apperrors.ErrCodeMalformedResponse,
			wantMsg:  "The search failed.",
		},
		{
			name:     "list key holds null",
			respond:  textResponse(`{"results": null}`),
			wantCode: apperrors.ErrCodeMalformedResponse,
			wantMsg:  "The search failed.",
		},
		{
			name:     "empty list",
			respond:  textResponse(`[]`),
			wantCode: apperrors.ErrCodeNoResults,
			wantMsg:  "Nothing found.",
		},
		{
			name:     "wrapped empty list",
			respond:  textResponse(`{"results": []}`),
			wantCode: apperrors.ErrCodeNoResults,
			wantMsg:  "Nothing found.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{respond: tt.respond}
			e, store := newTestEnricher(t, gen)

			_, err := e.Fetch(context.Background(), testQuery{Name: "X", State: "Y"})
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))

			var stdErr *apperrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			assert.Equal(t, tt.wantMsg, stdErr.UserMessage())
			assert.NotContains(t, stdErr.UserMessage(), "RESOURCE_EXHAUSTED")

			keys, err := store.Keys(context.Background(), cache.RootPrefix)
			require.NoError(t, err)
			assert.Empty(t, keys, "failures must not be cached")
		})
	}
}

func TestFetch_RetryAfterFailureHitsProvider(t *testing.T) {
	fail := true
	gen := &fakeGenerator{respond: func(string) (*gemini.Response, error) {
		if fail {
			return nil, errors.New("timeout")
		}
		return &gemini.Response{Text: `{"name":"X"}`}, nil
	}}
	e, _ := newTestEnricher(t, gen)
	q := testQuery{Name: "X", State: "Y"}

	_, err := e.Fetch(context.Background(), q)
	require.Error(t, err)

	fail = false
	p, err := e.Fetch(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, p.Records, 1)
	assert.Equal(t, 2, gen.Calls())
}

func TestFetch_InvalidQuerySkipsProvider(t *testing.T) {
	gen := &fakeGenerator{respond: textResponse(`{"name":"X"}`)}
	e, _ := newTestEnricher(t, gen)

	_, err := e.Fetch(context.Background(), testQuery{Name: "X"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuery)
	assert.Equal(t, 0, gen.Calls())
}

func TestFetch_ParsesFencedAndWrappedAnswers(t *testing.T) {
	gen := &fakeGenerator{respond: textResponse("```json\n{\"results\":[{\"name\":\"A\"},{\"name\":\"B\"},\"noise\"]}\n```")}
	e, _ := newTestEnricher(t, gen)

	p, err := e.Fetch(context.Background(), testQuery{Name: "X", State: "Y"})
	require.NoError(t, err)
	require.Len(t, p.Records, 2)
	assert.Equal(t, "A", p.Records[0].Name)
	assert.Equal(t, "B", p.Records[1].Name)
}

func TestFetch_SelfHealsCorruptEntry(t *testing.T) {
	gen := &fakeGenerator{respond: textResponse(`{"name":"X"}`)}
	e, store := newTestEnricher(t, gen)
	q := testQuery{Name: "X", State: "Y"}

	key, err := cache.KeyFor(q, "test_v1")
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), key, "garbage"))

	p, err := e.Fetch(context.Background(), q)
	require.NoError(t, err)
	assert.False(t, p.Cached)
	assert.Equal(t, 1, gen.Calls())

	p, err = e.Fetch(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, p.Cached)
}

func TestFetchMany_PreservesOrder(t *testing.T) {
	gen := &fakeGenerator{respond: func(prompt string) (*gemini.Response, error) {
		name := strings.TrimPrefix(strings.Split(prompt, " in ")[0], "find ")
		return &gemini.Response{
			Text:    `{"name":"` + name + `"}`,
			Sources: []models.GroundingSource{{Title: "shared", URI: "https://shared.example"}},
		}, nil
	}}
	e, _ := newTestEnricher(t, gen)

	p, err := e.FetchMany(context.Background(), []testQuery{
		{Name: "A", State: "S"}, {Name: "B", State: "S"}, {Name: "C", State: "S"},
	})
	require.NoError(t, err)

	names := []string{}
	for _, r := range p.Records {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
	assert.Len(t, p.Sources, 1)
	assert.Equal(t, 3, gen.Calls())
}

func TestFetchMany_FailsJointly(t *testing.T) {
	gen := &fakeGenerator{respond: func(prompt string) (*gemini.Response, error) {
		if strings.HasPrefix(prompt, "find B") {
			return nil, errors.New("boom")
		}
		return &gemini.Response{Text: `{"name":"ok"}`}, nil
	}}
	e, _ := newTestEnricher(t, gen)

	_, err := e.FetchMany(context.Background(), []testQuery{{Name: "A", State: "S"}, {Name: "B", State: "S"}})
	assert.ErrorIs(t, err, apperrors.ErrProviderError)
}
