package campusevents

import (
	"context"
	"strconv"
	"time"

	"college-finder/internal/cache"
	"college-finder/internal/common/gemini"
	"college-finder/internal/common/logger"
	"college-finder/internal/common/observability"
	"college-finder/internal/enrichment"
	"college-finder/internal/models"
	"college-finder/internal/tabular"
)

const (
	SheetName   = "Campus Events"
	ExportLabel = "Campus_Events_Export"
)

type Handler struct {
	config   *Config
	enricher *enrichment.Enricher[models.EventQuery, models.CampusEvent]
	logger   logger.Logger
}

func NewHandler(config *Config, gen gemini.Generator, c *cache.Cache, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"worker": VariantName})
	return &Handler{
		config:   config,
		enricher: enrichment.New[models.EventQuery, models.CampusEvent](NewVariant(config.Namespace, config.Now), gen, c, obs, log),
		logger:   log,
	}
}

// Search lists events for the area. A blank year means the current one.
func (h *Handler) Search(ctx context.Context, q models.EventQuery) (*Output, error) {
	if q.Year == "" {
		q.Year = strconv.Itoa(h.now().Year())
	}
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	p, err := h.enricher.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	return &Output{Events: p.Records, Sources: p.Sources, Cached: p.Cached}, nil
}

func (h *Handler) now() time.Time {
	if h.config.Now == nil {
		return time.Now()
	}
	return h.config.Now()
}

var sheetHeaders = []string{
	"Event", "College", "Type", "Date", "Venue", "Status",
	"Coordinator", "Coordinator Phone", "Coordinator Email",
	"Description", "Confidence Score",
}

func ToSheet(events []models.CampusEvent) tabular.Sheet {
	rows := make([][]interface{}, 0, len(events))
	for _, e := range events {
		rows = append(rows, []interface{}{
			e.EventName, e.CollegeName, e.Type, e.Date, e.Venue, string(e.Status),
			e.CoordinatorName, e.CoordinatorContact, e.CoordinatorEmail,
			e.Description, e.ConfidenceScore,
		})
	}
	return tabular.Sheet{Name: SheetName, Headers: sheetHeaders, Rows: rows}
}
