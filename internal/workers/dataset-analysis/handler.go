package datasetanalysis

import (
	"context"

	"college-finder/internal/cache"
	"college-finder/internal/common/gemini"
	"college-finder/internal/common/logger"
	"college-finder/internal/common/observability"
	"college-finder/internal/enrichment"
	"college-finder/internal/models"
	"college-finder/internal/tabular"
)

// distribution keywords matched against column headers
var distributionKeywords = map[string][]string{
	"region":        {"state", "region", "location", "district"},
	"type":          {"type", "ownership", "category", "affiliation"},
	"accreditation": {"accreditation", "naac", "grade", "rating"},
}

var distributionLimits = map[string]int{
	"region":        6,
	"type":          6,
	"accreditation": 4,
}

type Handler struct {
	config   *Config
	enricher *enrichment.Enricher[models.DatasetQuery, models.DatasetAnalysis]
	logger   logger.Logger
}

func NewHandler(config *Config, gen gemini.Generator, c *cache.Cache, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"worker": VariantName})
	return &Handler{
		config:   config,
		enricher: enrichment.New[models.DatasetQuery, models.DatasetAnalysis](NewVariant(config.Namespace), gen, c, obs, log),
		logger:   log,
	}
}

// Analyze sends the headers and a row sample to the model and adds local
// value distributions computed over the whole table.
func (h *Handler) Analyze(ctx context.Context, table *tabular.Table) (*Output, error) {
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	p, err := h.enricher.Fetch(ctx, models.DatasetQuery{
		Headers:    table.Headers,
		SampleRows: table.Sample(h.config.SampleRows),
	})
	if err != nil {
		return nil, err
	}

	out := &Output{
		Analysis:      p.Records[0],
		RowCount:      len(table.Rows),
		Distributions: make(map[string]Distribution),
		Cached:        p.Cached,
	}
	for name, keywords := range distributionKeywords {
		column, buckets := tabular.Distribution(table, keywords, distributionLimits[name])
		if column != "" {
			out.Distributions[name] = Distribution{Column: column, Buckets: buckets}
		}
	}

	h.logger.Info("dataset analyzed", map[string]interface{}{
		"rows":          out.RowCount,
		"distributions": len(out.Distributions),
	})
	return out, nil
}
