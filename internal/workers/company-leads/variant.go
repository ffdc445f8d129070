package companyleads

import (
	"github.com/google/uuid"

	apperrors "college-finder/internal/common/errors"
	"college-finder/internal/common/validation"
	"college-finder/internal/enrichment"
	"college-finder/internal/models"
	"college-finder/internal/prompt"
)

const (
	VariantName    = "company"
	failureMessage = "The lead search failed. Please try a more specific company or city."
	emptyMessage   = "No highly-verified 2025 HR leads found for this company and location."
)

var querySchema = validation.MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"companyName", "state"},
	"properties": map[string]interface{}{
		"companyName": validation.NonBlankString(),
		"state":       validation.NonBlankString(),
	},
})

var recordSchema = []prompt.SchemaField{
	{Name: "name", Type: prompt.String},
	{Name: "industry", Type: prompt.String},
	{Name: "city", Type: prompt.String},
	{Name: "state", Type: prompt.String},
	{Name: "location", Type: prompt.String},
	{Name: "hrName", Type: prompt.String},
	{Name: "hrRole", Type: prompt.String},
	{Name: "hrContact", Type: prompt.String},
	{Name: "hrEmail", Type: prompt.String},
	{Name: "hrLinkedIn", Type: prompt.String},
	{Name: "emailVerified", Type: prompt.Boolean},
	{Name: "phoneVerified", Type: prompt.Boolean},
	{Name: "linkedInVerified", Type: prompt.Boolean},
	{Name: "verificationProof", Type: prompt.String},
	{Name: "confidenceScore", Type: prompt.Score},
}

type Variant struct {
	namespace string
}

func NewVariant(namespace string) Variant {
	return Variant{namespace: namespace}
}

func (v Variant) Name() string       { return VariantName }
func (v Variant) Namespace() string  { return v.namespace }
func (v Variant) Grounded() bool     { return true }
func (v Variant) ListKeys() []string { return []string{"leads", "companies", "results"} }

func (v Variant) FailureMessage() string { return failureMessage }
func (v Variant) EmptyMessage() string   { return emptyMessage }

func (v Variant) Validate(q models.CompanyQuery) error {
	if res := querySchema.Validate(q); !res.Valid {
		return apperrors.NewInvalidQueryError(res.Summary())
	}
	return nil
}

func (v Variant) Prompt(q models.CompanyQuery) string {
	return prompt.Template{
		Intro: "Find current HR and talent acquisition contacts for this company branch in India:",
		Inputs: []prompt.Field{
			prompt.Required("Company", q.CompanyName),
			prompt.Required("City", q.City),
			prompt.Required("State", q.State),
		},
		Schema: recordSchema,
		List:   true,
		Rules: []string{
			"Only include people confirmed in an HR or recruiting role during 2025.",
			"Every lead must cite in verificationProof the exact public page or profile that lists the contact.",
			"Never guess an email from a naming pattern. Set emailVerified, phoneVerified and linkedInVerified to true only for details published by the company or the person.",
			"hrLinkedIn must be a linkedin.com/in/ profile URL when one exists.",
			"confidenceScore is how strongly the cited sources confirm the contact, from 0 to 1.",
		},
	}.Build()
}

func (v Variant) Normalize(q models.CompanyQuery, raw enrichment.Raw, _ []models.GroundingSource) models.CompanyLead {
	score := raw.Score("confidenceScore", "confidence")
	city := raw.StringOr(models.OrNotAvailable(q.City), "city")
	state := raw.StringOr(q.State, "state")

	return models.CompanyLead{
		ID:                uuid.NewString(),
		Name:              raw.StringOr(q.CompanyName, "name", "companyName"),
		Industry:          raw.String("industry"),
		City:              city,
		State:             state,
		Location:          raw.String("location", "address"),
		HRName:            raw.String("hrName"),
		HRRole:            raw.String("hrRole", "designation"),
		HRContact:         raw.String("hrContact", "hrPhone"),
		HREmail:           raw.String("hrEmail"),
		HRLinkedIn:        raw.String("hrLinkedIn", "linkedIn"),
		EmailVerified:     raw.Bool("emailVerified"),
		PhoneVerified:     raw.Bool("phoneVerified"),
		LinkedInVerified:  raw.Bool("linkedInVerified"),
		VerificationProof: raw.String("verificationProof"),
		ConfidenceScore:   score,
		IsVerified:        models.IsVerified(score),
	}
}
