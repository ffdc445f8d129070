package cache

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "college-finder/internal/common/errors"
	"college-finder/internal/common/logger"
	"college-finder/internal/common/validation"
	"college-finder/internal/models"
)

// RootPrefix is shared by every key this application writes.
const RootPrefix = "cf:"

// Entry is the stored payload for one query: the normalized records plus
// the grounding citations that came with them.
type Entry struct {
	Records  json.RawMessage          `json:"records"`
	Sources  []models.GroundingSource `json:"sources"`
	StoredAt time.Time                `json:"storedAt"`
}

var entrySchema = validation.MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"records"},
	"properties": map[string]interface{}{
		"records": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items":    map[string]interface{}{"type": "object"},
		},
		"sources": map[string]interface{}{
			"type": []interface{}{"array", "null"},
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"uri"},
			},
		},
	},
})

type Cache struct {
	store  Store
	logger logger.Logger
}

func New(store Store, log logger.Logger) *Cache {
	return &Cache{
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "cache"}),
	}
}

// KeyFor derives the key for query under namespace. json.Marshal emits
// struct fields in declaration order and map keys sorted, so the encoding is
// canonical for a given query type. Any differing field yields a different key.
func KeyFor(query interface{}, namespace string) (string, error) {
	canonical, err := json.Marshal(query)
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	return RootPrefix + namespace + ":" + base64.RawURLEncoding.EncodeToString(canonical), nil
}

// Init checks that the backend is reachable.
func (c *Cache) Init(ctx context.Context) error {
	keys, err := c.store.Keys(ctx, RootPrefix)
	if err != nil {
		return apperrors.NewCacheError(err)
	}
	c.logger.Debug("cache ready", map[string]interface{}{"entries": len(keys)})
	return nil
}

// Get returns the entry at key. Unreadable or malformed entries are deleted
// and reported as a miss, as are backend failures.
func (c *Cache) Get(ctx context.Context, key string) (*Entry, bool) {
	raw, err := c.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err})
		return nil, false
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		c.evict(ctx, key, err.Error())
		return nil, false
	}
	if res := entrySchema.Validate(doc); !res.Valid {
		c.evict(ctx, key, res.Summary())
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		c.evict(ctx, key, err.Error())
		return nil, false
	}
	return &entry, true
}

func (c *Cache) evict(ctx context.Context, key, reason string) {
	c.logger.Warn("discarding corrupt cache entry", map[string]interface{}{"key": key, "reason": reason})
	if err := c.store.Delete(ctx, key); err != nil {
		c.logger.Warn("cache delete failed", map[string]interface{}{"key": key, "error": err})
	}
}

// Put overwrites the entry at key.
func (c *Cache) Put(ctx context.Context, key string, entry *Entry) error {
	if entry.StoredAt.IsZero() {
		entry.StoredAt = time.Now().UTC()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return apperrors.NewCacheError(err)
	}
	if err := c.store.Set(ctx, key, string(data)); err != nil {
		return apperrors.NewCacheError(err)
	}
	return nil
}

// Clear removes every entry written by this application and returns how
// many were removed.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	keys, err := c.store.Keys(ctx, RootPrefix)
	if err != nil {
		return 0, apperrors.NewCacheError(err)
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		return 0, apperrors.NewCacheError(err)
	}
	c.logger.Info("cache cleared", map[string]interface{}{"removed": len(keys)})
	return len(keys), nil
}

// Purge removes entries whose namespace is not listed in keep. It is only
// run on request; stale namespaces are otherwise left untouched.
func (c *Cache) Purge(ctx context.Context, keep ...string) (int, error) {
	live := make(map[string]bool, len(keep))
	for _, ns := range keep {
		live[ns] = true
	}

	keys, err := c.store.Keys(ctx, RootPrefix)
	if err != nil {
		return 0, apperrors.NewCacheError(err)
	}

	var orphaned []string
	for _, k := range keys {
		if !live[namespaceOf(k)] {
			orphaned = append(orphaned, k)
		}
	}
	if err := c.store.Delete(ctx, orphaned...); err != nil {
		return 0, apperrors.NewCacheError(err)
	}

	c.logger.Info("cache purged", map[string]interface{}{"removed": len(orphaned), "kept": keep})
	return len(orphaned), nil
}

func namespaceOf(key string) string {
	rest := strings.TrimPrefix(key, RootPrefix)
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		return rest[:i]
	}
	return ""
}

func (c *Cache) Close() error {
	return c.store.Close()
}
