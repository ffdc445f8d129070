package companyleads

import "college-finder/internal/models"

type Output struct {
	Leads   []models.CompanyLead     `json:"leads"`
	Sources []models.GroundingSource `json:"sources"`
	Cached  bool                     `json:"cached"`
	// Hidden counts leads dropped by the high-confidence filter.
	Hidden int `json:"hidden,omitempty"`
}
