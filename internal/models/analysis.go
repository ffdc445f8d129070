package models

// DatasetQuery carries the header row and a sample of an uploaded sheet.
type DatasetQuery struct {
	Headers    []string            `json:"headers"`
	SampleRows []map[string]string `json:"sampleRows"`
}

type DatasetAnalysis struct {
	ID                string   `json:"id"`
	ExecutiveBriefing string   `json:"executiveBriefing"`
	KeyTakeaways      []string `json:"keyTakeaways"`
	SuggestedActions  []string `json:"suggestedActions"`
	SWOT              SWOT     `json:"swotAnalysis"`
	DataQualityScore  float64  `json:"dataQualityScore"`
}

type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}
