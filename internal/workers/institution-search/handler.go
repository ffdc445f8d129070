package institutionsearch

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

const (
	SheetName   = "College Data"
	ExportLabel = "College_Search_Export"
)

type Handler struct {
	config   *Config
	enricher *enrichment.Enricher[models.InstitutionQuery, models.Institution]
	logger   logger.Logger
}

func NewHandler(config *Config, gen gemini.Generator, c *cache.Cache, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"worker": VariantName})
	return &Handler{
		config:   config,
		enricher: enrichment.New[models.InstitutionQuery, models.Institution](NewVariant(config.Namespace), gen, c, obs, log),
		logger:   log,
	}
}

func (h *Handler) Search(ctx context.Context, q models.InstitutionQuery) (*Output, error) {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	p, err := h.enricher.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	return toOutput(p), nil
}

// SearchMany looks up several institutions at once; any failure fails the
// whole search.
func (h *Handler) SearchMany(ctx context.Context, queries []models.InstitutionQuery) (*Output, error) {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	h.logger.Info("searching institutions", map[string]interface{}{"queries": len(queries)})
	p, err := h.enricher.FetchMany(ctx, queries)
	if err != nil {
		return nil, err
	}
	return toOutput(p), nil
}

// FetchRow resolves one spreadsheet row to its best matching institution.
func (h *Handler) FetchRow(ctx context.Context, row models.RowQuery) (models.Institution, error) {
	out, err := h.Search(ctx, models.InstitutionQuery{
		CollegeName: row.Name,
		State:       row.State,
		District:    row.District,
	})
	if err != nil {
		return models.Institution{}, err
	}
	return out.Institutions[0], nil
}

func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.config.Timeout)
}

func toOutput(p *enrichment.Payload[models.Institution]) *Output {
	return &Output{Institutions: p.Records, Sources: p.Sources, Cached: p.Cached}
}

var sheetHeaders = []string{
	"College Name", "State", "District", "Affiliation", "Type", "Courses",
	"Principal Name", "Principal Phone", "Principal Email",
	"TPO Name", "TPO Phone", "TPO Email",
	"Website", "AISHE", "Established", "Accreditation",
	"Student Strength", "Faculty", "Address", "Pin Code", "Confidence Score",
}

// ToSheet flattens institutions into the export layout.
func ToSheet(records []models.Institution) tabular.Sheet {
	rows := make([][]interface{}, 0, len(records))
	for _, c := range records {
		rows = append(rows, []interface{}{
			c.Name, c.State, c.District, c.UniversityAffiliation, c.CollegeType,
			tabular.JoinList(c.CoursesOffered),
			c.PrincipalName, c.PrincipalContact, c.PrincipalEmail,
			c.TPOName, c.TPOContact, c.TPOEmail,
			c.Website, c.AISHECode, c.EstablishedYear, c.Accreditation,
			c.TotalStudentStrength, c.FacultyStrength, c.Address, c.PinCode,
			c.ConfidenceScore,
		})
	}
	return tabular.Sheet{Name: SheetName, Headers: sheetHeaders, Rows: rows}
}
