package datasetanalysis

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	apperrors "college-finder/internal/common/errors"
	"college-finder/internal/enrichment"
	"college-finder/internal/models"
	"college-finder/internal/prompt"
)

const (
	VariantName    = "analysis"
	failureMessage = "The dataset analysis failed. Please try again."
	emptyMessage   = "The analysis came back empty. Please try again."
)

var recordSchema = []prompt.SchemaField{
	{Name: "executiveBriefing", Type: prompt.String},
	{Name: "keyTakeaways", Type: prompt.StringList},
	{Name: "suggestedActions", Type: prompt.StringList},
	{Name: "swotAnalysis", Type: prompt.Object, Nested: []prompt.SchemaField{
		{Name: "strengths", Type: prompt.StringList},
		{Name: "weaknesses", Type: prompt.StringList},
		{Name: "opportunities", Type: prompt.StringList},
		{Name: "threats", Type: prompt.StringList},
	}},
	{Name: "dataQualityScore", Type: "number (0-100)"},
}

type Variant struct {
	namespace string
}

func NewVariant(namespace string) Variant {
	return Variant{namespace: namespace}
}

func (v Variant) Name() string       { return VariantName }
func (v Variant) Namespace() string  { return v.namespace }
func (v Variant) Grounded() bool     { return false }
func (v Variant) ListKeys() []string { return nil }

func (v Variant) FailureMessage() string { return failureMessage }
func (v Variant) EmptyMessage() string   { return emptyMessage }

func (v Variant) Validate(q models.DatasetQuery) error {
	for _, h := range q.Headers {
		if strings.TrimSpace(h) != "" {
			return nil
		}
	}
	return apperrors.NewInvalidQueryError("dataset has no header row")
}

func (v Variant) Prompt(q models.DatasetQuery) string {
	sample, _ := json.MarshalIndent(q.SampleRows, "", "  ")

	return prompt.Template{
		Intro: "Analyze this institutional dataset for a presentation to decision makers.\n" +
			"Sample rows:\n" + string(sample) + "\n",
		Inputs: []prompt.Field{
			prompt.Required("Columns", strings.Join(q.Headers, ", ")),
		},
		Schema: recordSchema,
		Rules: []string{
			"Base every statement on the columns and sample rows above.",
			"Give three to five key takeaways and suggested actions.",
			"dataQualityScore rates completeness and consistency of the sample, from 0 to 100.",
		},
	}.Build()
}

func (v Variant) Normalize(_ models.DatasetQuery, raw enrichment.Raw, _ []models.GroundingSource) models.DatasetAnalysis {
	swot := enrichment.Raw{}
	if m, ok := raw["swotAnalysis"].(map[string]interface{}); ok {
		swot = enrichment.Raw(m)
	}

	return models.DatasetAnalysis{
		ID:                uuid.NewString(),
		ExecutiveBriefing: raw.String("executiveBriefing", "summary"),
		KeyTakeaways:      raw.Strings("keyTakeaways"),
		SuggestedActions:  raw.Strings("suggestedActions"),
		SWOT: models.SWOT{
			Strengths:     swot.Strings("strengths"),
			Weaknesses:    swot.Strings("weaknesses"),
			Opportunities: swot.Strings("opportunities"),
			Threats:       swot.Strings("threats"),
		},
		DataQualityScore: qualityScore(raw.Number("dataQualityScore")),
	}
}

// qualityScore maps the score onto 0-100; fractions are read as ratios.
func qualityScore(v float64) float64 {
	if v > 0 && v <= 1 {
		v *= 100
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
