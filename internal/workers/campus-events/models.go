package campusevents

import "college-finder/internal/models"

type Output struct {
	Events  []models.CampusEvent     `json:"events"`
	Sources []models.GroundingSource `json:"sources"`
	Cached  bool                     `json:"cached"`
}
