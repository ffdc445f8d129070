package models

// NotAvailable is the single placeholder for any unknown string field, in
// every record variant.
const NotAvailable = "Not Available"

const (
	// VerifiedThreshold: a record is verified when its score is strictly above it.
	VerifiedThreshold = 0.7
	// HighConfidenceThreshold gates the "high-confidence only" lead filter.
	HighConfidenceThreshold = 0.75
)

// GroundingSource is a web citation returned alongside a grounded answer.
type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

func IsVerified(score float64) bool {
	return score > VerifiedThreshold
}

// RowQuery identifies one institution row of an uploaded spreadsheet.
type RowQuery struct {
	Name     string `json:"name"`
	State    string `json:"state"`
	District string `json:"district,omitempty"`
}

// OrNotAvailable returns s, or NotAvailable when s is blank.
func OrNotAvailable(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
