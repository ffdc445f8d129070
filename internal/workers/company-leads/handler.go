package companyleads

import (
	"context"

	"college-finder/internal/cache"
	apperrors "college-finder/internal/common/errors"
	"college-finder/internal/common/gemini"
	"college-finder/internal/common/logger"
	"college-finder/internal/common/observability"
	"college-finder/internal/enrichment"
	"college-finder/internal/models"
	"college-finder/internal/tabular"
)

const (
	SheetName   = "HR Leads"
	ExportLabel = "HR_Leads_Export"
)

type Handler struct {
	config   *Config
	enricher *enrichment.Enricher[models.CompanyQuery, models.CompanyLead]
	logger   logger.Logger
}

func NewHandler(config *Config, gen gemini.Generator, c *cache.Cache, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"worker": VariantName})
	return &Handler{
		config:   config,
		enricher: enrichment.New[models.CompanyQuery, models.CompanyLead](NewVariant(config.Namespace), gen, c, obs, log),
		logger:   log,
	}
}

// Search returns HR leads for q. With highConfidenceOnly, leads scoring
// below the high-confidence threshold are dropped; if none remain the
// result is a no-results error.
func (h *Handler) Search(ctx context.Context, q models.CompanyQuery, highConfidenceOnly bool) (*Output, error) {
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	p, err := h.enricher.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	out := &Output{Leads: p.Records, Sources: p.Sources, Cached: p.Cached}
	if highConfidenceOnly {
		out.Leads = FilterHighConfidence(p.Records)
		out.Hidden = len(p.Records) - len(out.Leads)
		if len(out.Leads) == 0 {
			return nil, apperrors.NewNoResultsError(emptyMessage)
		}
	}
	return out, nil
}

// FilterHighConfidence keeps leads at or above the high-confidence threshold.
func FilterHighConfidence(leads []models.CompanyLead) []models.CompanyLead {
	out := make([]models.CompanyLead, 0, len(leads))
	for _, l := range leads {
		if l.ConfidenceScore >= models.HighConfidenceThreshold {
			out = append(out, l)
		}
	}
	return out
}

var sheetHeaders = []string{
	"Company", "Industry", "City", "State", "Location",
	"HR Name", "HR Role", "HR Phone", "HR Email", "LinkedIn",
	"Email Verified", "Phone Verified", "LinkedIn Verified",
	"Verification Proof", "Confidence Score",
}

func ToSheet(leads []models.CompanyLead) tabular.Sheet {
	rows := make([][]interface{}, 0, len(leads))
	for _, l := range leads {
		rows = append(rows, []interface{}{
			l.Name, l.Industry, l.City, l.State, l.Location,
			l.HRName, l.HRRole, l.HRContact, l.HREmail, l.LinkedInURL(),
			yesNo(l.EmailVerified), yesNo(l.PhoneVerified), yesNo(l.LinkedInVerified),
			l.VerificationProof, l.ConfidenceScore,
		})
	}
	return tabular.Sheet{Name: SheetName, Headers: sheetHeaders, Rows: rows}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
