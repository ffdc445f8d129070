package institutionsearch

import "college-finder/internal/models"

type Output struct {
	Institutions []models.Institution     `json:"institutions"`
	Sources      []models.GroundingSource `json:"sources"`
	Cached       bool                     `json:"cached"`
}
