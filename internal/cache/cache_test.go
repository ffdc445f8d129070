package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "college-finder/internal/common/errors"
	"college-finder/internal/common/logger"
	"college-finder/internal/models"
)

type testQuery struct {
	CollegeName string   `json:"collegeName"`
	State       string   `json:"state"`
	District    string   `json:"district,omitempty"`
	Courses     []string `json:"courses,omitempty"`
}

func newTestCache(t *testing.T) (*Cache, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return New(store, logger.NewTestLogger(t)), store
}

func sampleEntry(t *testing.T) *Entry {
	t.Helper()
	records, err := json.Marshal([]map[string]interface{}{{"name": "Govt College", "state": "Kerala"}})
	require.NoError(t, err)
	return &Entry{
		Records: records,
		Sources: []models.GroundingSource{{Title: "Example", URI: "https://example.edu"}},
	}
}

func TestKeyFor_Sensitivity(t *testing.T) {
	base := testQuery{CollegeName: "X", State: "Y"}
	baseKey, err := KeyFor(base, "clg_fnd_v4")
	require.NoError(t, err)

	again, err := KeyFor(testQuery{CollegeName: "X", State: "Y"}, "clg_fnd_v4")
	require.NoError(t, err)
	assert.Equal(t, baseKey, again)
	assert.Contains(t, baseKey, "cf:clg_fnd_v4:")

	variants := []struct {
		name      string
		query     testQuery
		namespace string
	}{
		{"different name", testQuery{CollegeName: "Z", State: "Y"}, "clg_fnd_v4"},
		{"added district", testQuery{CollegeName: "X", State: "Y", District: "D"}, "clg_fnd_v4"},
		{"added filter", testQuery{CollegeName: "X", State: "Y", Courses: []string{"B.Tech"}}, "clg_fnd_v4"},
		{"non-ascii", testQuery{CollegeName: "कॉलेज", State: "Y"}, "clg_fnd_v4"},
		{"bumped namespace", base, "clg_fnd_v5"},
	}
	for _, tt := range variants {
		t.Run(tt.name, func(t *testing.T) {
			k, err := KeyFor(tt.query, tt.namespace)
			require.NoError(t, err)
			assert.NotEqual(t, baseKey, k)
		})
	}
}

func TestKeyFor_LongQueriesStayDistinct(t *testing.T) {
	long := "Government Engineering College of Advanced Technical Studies"
	k1, err := KeyFor(testQuery{CollegeName: long, State: "Kerala"}, "ns")
	require.NoError(t, err)
	k2, err := KeyFor(testQuery{CollegeName: long, State: "Karnataka"}, "ns")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestCache_PutGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "cf:ns:missing")
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "cf:ns:a", sampleEntry(t)))
	got, ok := c.Get(ctx, "cf:ns:a")
	require.True(t, ok)
	assert.JSONEq(t, `[{"name":"Govt College","state":"Kerala"}]`, string(got.Records))
	assert.Len(t, got.Sources, 1)
	assert.False(t, got.StoredAt.IsZero())
}

func TestCache_SelfHeals(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unparsable", "{not json"},
		{"empty records", `{"records":[]}`},
		{"missing records", `{"college":{"name":"X"}}`},
		{"records not objects", `{"records":["X"]}`},
		{"empty string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, store := newTestCache(t)
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, "cf:ns:k", tt.raw))

			_, ok := c.Get(ctx, "cf:ns:k")
			assert.False(t, ok)

			_, err := store.Get(ctx, "cf:ns:k")
			assert.ErrorIs(t, err, ErrNotFound)

			_, ok = c.Get(ctx, "cf:ns:k")
			assert.False(t, ok)

			require.NoError(t, c.Put(ctx, "cf:ns:k", sampleEntry(t)))
			_, ok = c.Get(ctx, "cf:ns:k")
			assert.True(t, ok)
		})
	}
}

func TestCache_ClearAndPurge(t *testing.T) {
	c, store := newTestCache(t)
	ctx := context.Background()

	for _, k := range []string{"cf:clg_fnd_v3:a", "cf:clg_fnd_v4:a", "cf:clg_fnd_v4:b", "cf:hr_v1:a"} {
		require.NoError(t, c.Put(ctx, k, sampleEntry(t)))
	}
	require.NoError(t, store.Set(ctx, "other:key", "kept"))

	removed, err := c.Purge(ctx, "clg_fnd_v4", "hr_v1")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	keys, err := store.Keys(ctx, RootPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{"cf:clg_fnd_v4:a", "cf:clg_fnd_v4:b", "cf:hr_v1:a"}, keys)

	removed, err = c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	_, err = store.Get(ctx, "other:key")
	assert.NoError(t, err)
	require.NoError(t, c.Init(ctx))
}

type failingStore struct{ *MemoryStore }

func (f *failingStore) Keys(context.Context, string) ([]string, error) {
	return nil, assert.AnError
}

func TestCache_InitReportsBackendFailure(t *testing.T) {
	c := New(&failingStore{MemoryStore: NewMemoryStore()}, logger.NewTestLogger(t))
	err := c.Init(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, apperrors.ErrCodeCache, apperrors.CodeOf(err))
}
