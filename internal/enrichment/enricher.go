package enrichment

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"college-finder/internal/cache"
	apperrors "college-finder/internal/common/errors"
	"college-finder/internal/common/gemini"
	"college-finder/internal/common/logger"
	"college-finder/internal/common/metrics"
	"college-finder/internal/common/observability"
	"college-finder/internal/models"
)

// Variant describes one record type: how to ask for it and how to coerce
// the answer into it.
type Variant[Q any, R any] interface {
	Name() string
	// Namespace versions the cache keys. Change it whenever the prompt or
	// record shape changes.
	Namespace() string
	Validate(q Q) error
	Prompt(q Q) string
	Grounded() bool
	ListKeys() []string
	Normalize(q Q, raw Raw, sources []models.GroundingSource) R
	FailureMessage() string
	EmptyMessage() string
}

// Payload is the result of one fetch. Cached reports whether it was served
// from the cache.
type Payload[R any] struct {
	Records []R                      `json:"records"`
	Sources []models.GroundingSource `json:"sources"`
	Cached  bool                     `json:"cached"`
}

type Enricher[Q any, R any] struct {
	variant   Variant[Q, R]
	generator gemini.Generator
	cache     *cache.Cache
	obs       *observability.Observability
	logger    logger.Logger
}

// New builds an Enricher. A nil cache disables caching; obs may be nil.
func New[Q any, R any](variant Variant[Q, R], gen gemini.Generator, c *cache.Cache, obs *observability.Observability, log logger.Logger) *Enricher[Q, R] {
	return &Enricher[Q, R]{
		variant:   variant,
		generator: gen,
		cache:     c,
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"variant": variant.Name()}),
	}
}

// Fetch returns the records for q, from the cache when possible. Only
// successful non-empty results are cached.
func (e *Enricher[Q, R]) Fetch(ctx context.Context, q Q) (*Payload[R], error) {
	if err := e.variant.Validate(q); err != nil {
		return nil, err
	}

	key, err := cache.KeyFor(q, e.variant.Namespace())
	if err != nil {
		return nil, apperrors.NewInvalidQueryError(err.Error())
	}

	if payload, ok := e.lookup(ctx, key); ok {
		return payload, nil
	}

	start := time.Now()
	payload, err := e.generate(ctx, q)
	outcome := "success"
	if err != nil {
		outcome = outcomeOf(err)
	}
	e.record(ctx, outcome, time.Since(start))
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.store(ctx, key, payload); err != nil {
			e.logger.Warn("failed to cache result", map[string]interface{}{"key": key, "error": err})
		}
	}
	return payload, nil
}

func (e *Enricher[Q, R]) lookup(ctx context.Context, key string) (*Payload[R], bool) {
	if e.cache == nil {
		return nil, false
	}

	entry, ok := e.cache.Get(ctx, key)
	if ok {
		var records []R
		if err := json.Unmarshal(entry.Records, &records); err == nil && len(records) > 0 {
			metrics.CacheLookups.WithLabelValues(e.variant.Name(), "hit").Inc()
			e.logger.Debug("cache hit", map[string]interface{}{"key": key})
			return &Payload[R]{Records: records, Sources: nonNil(entry.Sources), Cached: true}, true
		}
		e.logger.Warn("cached records do not match the record shape", map[string]interface{}{"key": key})
	}

	metrics.CacheLookups.WithLabelValues(e.variant.Name(), "miss").Inc()
	e.logger.Debug("cache miss", map[string]interface{}{"key": key})
	return nil, false
}

func (e *Enricher[Q, R]) generate(ctx context.Context, q Q) (*Payload[R], error) {
	resp, err := e.generator.Generate(ctx, gemini.Request{
		Prompt:    e.variant.Prompt(q),
		JSON:      true,
		Grounding: e.variant.Grounded(),
	})
	if err != nil {
		e.logger.Error("generation failed", map[string]interface{}{"error": err})
		return nil, apperrors.NewProviderError(e.variant.FailureMessage(), err)
	}
	if resp == nil || resp.Text == "" {
		e.logger.Error("empty response from model", nil)
		return nil, apperrors.NewEmptyResponseError(e.variant.FailureMessage())
	}

	items, err := parseItems(resp.Text, e.variant.ListKeys())
	if err != nil {
		e.logger.Error("unparsable response from model", map[string]interface{}{
			"error":  err,
			"length": len(resp.Text),
		})
		return nil, apperrors.NewMalformedResponseError(e.variant.FailureMessage(), err)
	}

	sources := nonNil(resp.Sources)
	records := make([]R, 0, len(items))
	for _, item := range items {
		records = append(records, e.variant.Normalize(q, item, sources))
	}
	if len(records) == 0 {
		return nil, apperrors.NewNoResultsError(e.variant.EmptyMessage())
	}

	e.logger.Debug("enrichment complete", map[string]interface{}{
		"records": len(records),
		"sources": len(sources),
	})
	return &Payload[R]{Records: records, Sources: sources}, nil
}

func (e *Enricher[Q, R]) store(ctx context.Context, key string, payload *Payload[R]) error {
	data, err := json.Marshal(payload.Records)
	if err != nil {
		return err
	}
	return e.cache.Put(ctx, key, &cache.Entry{Records: data, Sources: payload.Sources})
}

func (e *Enricher[Q, R]) record(ctx context.Context, outcome string, d time.Duration) {
	name := e.variant.Name()
	metrics.EnrichmentRequests.WithLabelValues(name, outcome).Inc()
	metrics.EnrichmentDuration.WithLabelValues(name).Observe(d.Seconds())
	e.obs.RecordFetch(ctx, name, outcome, d)
}

// FetchMany runs independent queries concurrently and concatenates their
// records in input order. Any failure fails the whole call.
func (e *Enricher[Q, R]) FetchMany(ctx context.Context, queries []Q) (*Payload[R], error) {
	results := make([]*Payload[R], len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			p, err := e.Fetch(gctx, q)
			if err != nil {
				return err
			}
			results[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Payload[R]{Records: []R{}, Sources: []models.GroundingSource{}, Cached: len(results) > 0}
	seen := make(map[string]bool)
	for _, p := range results {
		out.Records = append(out.Records, p.Records...)
		out.Cached = out.Cached && p.Cached
		for _, s := range p.Sources {
			if !seen[s.URI] {
				seen[s.URI] = true
				out.Sources = append(out.Sources, s)
			}
		}
	}
	return out, nil
}

func (e *Enricher[Q, R]) Variant() Variant[Q, R] {
	return e.variant
}

func outcomeOf(err error) string {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeEmptyResponse:
		return "empty_response"
	case apperrors.ErrCodeMalformedResponse:
		return "malformed_response"
	case apperrors.ErrCodeProviderError:
		return "provider_error"
	case apperrors.ErrCodeNoResults:
		return "no_results"
	default:
		return "error"
	}
}

func nonNil(s []models.GroundingSource) []models.GroundingSource {
	if s == nil {
		return []models.GroundingSource{}
	}
	return s
}
