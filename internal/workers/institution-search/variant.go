package institutionsearch

import (
	"github.com/google/uuid"

	apperrors "college-finder/internal/common/errors"
	"college-finder/internal/common/validation"
	"college-finder/internal/enrichment"
	"college-finder/internal/models"
	"college-finder/internal/prompt"
)

const (
	VariantName    = "institution"
	failureMessage = "The search took too long or failed. Please try a more specific name."
	emptyMessage   = "No institutions found matching your specific criteria. Please check the spelling or location."
)

// A query needs a state and either a college name or a district.
var querySchema = validation.MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"state"},
	"properties": map[string]interface{}{
		"state": validation.NonBlankString(),
	},
	"anyOf": []interface{}{
		map[string]interface{}{
			"required":   []interface{}{"collegeName"},
			"properties": map[string]interface{}{"collegeName": validation.NonBlankString()},
		},
		map[string]interface{}{
			"required":   []interface{}{"district"},
			"properties": map[string]interface{}{"district": validation.NonBlankString()},
		},
	},
})

var recordSchema = []prompt.SchemaField{
	{Name: "name", Type: prompt.String},
	{Name: "state", Type: prompt.String},
	{Name: "district", Type: prompt.String},
	{Name: "universityAffiliation", Type: prompt.String},
	{Name: "collegeType", Type: prompt.String},
	{Name: "coursesOffered", Type: prompt.StringList},
	{Name: "principalName", Type: prompt.String},
	{Name: "principalContact", Type: prompt.String},
	{Name: "principalEmail", Type: prompt.String},
	{Name: "tpoName", Type: prompt.String},
	{Name: "tpoContact", Type: prompt.String},
	{Name: "tpoEmail", Type: prompt.String},
	{Name: "website", Type: prompt.String},
	{Name: "aisheCode", Type: prompt.String},
	{Name: "establishedYear", Type: prompt.String},
	{Name: "accreditation", Type: prompt.String},
	{Name: "totalStudentStrength", Type: prompt.String},
	{Name: "facultyStrength", Type: prompt.String},
	{Name: "address", Type: prompt.String},
	{Name: "pinCode", Type: prompt.String},
	{Name: "departments", Nested: []prompt.SchemaField{
		{Name: "name", Type: prompt.String},
		{Name: "head", Type: prompt.String},
		{Name: "contact", Type: prompt.String},
		{Name: "email", Type: prompt.String},
		{Name: "courses", Type: prompt.StringList},
	}},
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
func (v Variant) ListKeys() []string { return []string{"colleges", "institutions", "results"} }

func (v Variant) FailureMessage() string { return failureMessage }
func (v Variant) EmptyMessage() string   { return emptyMessage }

func (v Variant) Validate(q models.InstitutionQuery) error {
	if res := querySchema.Validate(q); !res.Valid {
		return apperrors.NewInvalidQueryError("state and either collegeName or district are required: " + res.Summary())
	}
	return nil
}

func (v Variant) Prompt(q models.InstitutionQuery) string {
	intro := "Search for Indian college details:"
	if q.CollegeName == "" {
		intro = "List the Indian colleges located in this district:"
	}

	return prompt.Template{
		Intro: intro,
		Inputs: []prompt.Field{
			prompt.Required("Name", q.CollegeName),
			prompt.Required("State", q.State),
			prompt.Required("District", q.District),
			prompt.Filter("Type", q.CollegeType),
			prompt.Filter("Accreditation", q.Accreditation),
			prompt.List("Courses", q.Courses, prompt.Any),
		},
		Schema: recordSchema,
		List:   true,
		Rules: []string{
			"Use the district to tell apart colleges that share a name.",
			"Prefer the official college website, the affiliating university and AISHE listings.",
			"verificationProof names the source that confirms the record.",
			"confidenceScore is how strongly the sources confirm the record, from 0 to 1.",
		},
	}.Build()
}

func (v Variant) Normalize(q models.InstitutionQuery, raw enrichment.Raw, sources []models.GroundingSource) models.Institution {
	score := raw.Score("confidenceScore", "confidence")

	uris := make([]string, 0, len(sources))
	for _, s := range sources {
		uris = append(uris, s.URI)
	}

	deps := raw.Objects("departments")
	departments := make([]models.Department, 0, len(deps))
	for _, d := range deps {
		departments = append(departments, models.Department{
			Name:    d.String("name", "department"),
			Head:    d.String("head", "hod"),
			Contact: d.String("contact", "phone"),
			Email:   d.String("email"),
			Courses: d.Strings("courses"),
		})
	}

	return models.Institution{
		ID:                    uuid.NewString(),
		Name:                  raw.StringOr(models.OrNotAvailable(q.CollegeName), "name", "collegeName"),
		State:                 raw.StringOr(q.State, "state"),
		District:              raw.StringOr(models.OrNotAvailable(q.District), "district"),
		UniversityAffiliation: raw.String("universityAffiliation", "affiliation"),
		CollegeType:           raw.String("collegeType", "type"),
		CoursesOffered:        raw.Strings("coursesOffered", "courses"),
		PrincipalName:         raw.String("principalName"),
		PrincipalContact:      raw.String("principalContact", "principalPhone"),
		PrincipalEmail:        raw.String("principalEmail"),
		TPOName:               raw.String("tpoName"),
		TPOContact:            raw.String("tpoContact", "tpoPhone"),
		TPOEmail:              raw.String("tpoEmail"),
		Website:               raw.String("website"),
		AISHECode:             raw.String("aisheCode"),
		EstablishedYear:       raw.String("establishedYear"),
		Accreditation:         raw.String("accreditation"),
		TotalStudentStrength:  raw.String("totalStudentStrength"),
		FacultyStrength:       raw.String("facultyStrength"),
		Address:               raw.String("address"),
		PinCode:               raw.String("pinCode"),
		Departments:           departments,
		IsVerified:            models.IsVerified(score),
		ConfidenceScore:       score,
		VerificationProof:     raw.String("verificationProof"),
		Sources:               uris,
	}
}
