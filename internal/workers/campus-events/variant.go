package campusevents

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "college-finder/internal/common/errors"
	"college-finder/internal/common/validation"
	"college-finder/internal/enrichment"
	"college-finder/internal/models"
	"college-finder/internal/prompt"
)

const (
	VariantName    = "event"
	failureMessage = "The event search failed. Please try again in a moment."
	emptyMessage   = "No campus events found for this district and year."
)

var querySchema = validation.MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"state", "district", "year"},
	"properties": map[string]interface{}{
		"state":    validation.NonBlankString(),
		"district": validation.NonBlankString(),
		"year":     map[string]interface{}{"type": "string", "pattern": `^\d{4}$`},
	},
})

var recordSchema = []prompt.SchemaField{
	{Name: "eventName", Type: prompt.String},
	{Name: "collegeName", Type: prompt.String},
	{Name: "type", Type: prompt.String},
	{Name: "date", Type: "string (YYYY-MM-DD)"},
	{Name: "venue", Type: prompt.String},
	{Name: "description", Type: prompt.String},
	{Name: "status", Type: `"Upcoming" | "Ongoing" | "Past"`},
	{Name: "coordinatorName", Type: prompt.String},
	{Name: "coordinatorContact", Type: prompt.String},
	{Name: "coordinatorEmail", Type: prompt.String},
	{Name: "verificationProof", Type: prompt.String},
	{Name: "confidenceScore", Type: prompt.Score},
}

type Variant struct {
	namespace string
	now       func() time.Time
}

func NewVariant(namespace string, now func() time.Time) Variant {
	if now == nil {
		now = time.Now
	}
	return Variant{namespace: namespace, now: now}
}

func (v Variant) Name() string       { return VariantName }
func (v Variant) Namespace() string  { return v.namespace }
func (v Variant) Grounded() bool     { return true }
func (v Variant) ListKeys() []string { return []string{"events", "results"} }

func (v Variant) FailureMessage() string { return failureMessage }
func (v Variant) EmptyMessage() string   { return emptyMessage }

func (v Variant) Validate(q models.EventQuery) error {
	if res := querySchema.Validate(q); !res.Valid {
		return apperrors.NewInvalidQueryError(res.Summary())
	}
	return nil
}

func (v Variant) Prompt(q models.EventQuery) string {
	return prompt.Template{
		Intro: "Find fests, hackathons, placement drives, seminars and other public events hosted by colleges in this area:",
		Inputs: []prompt.Field{
			prompt.Required("State", q.State),
			prompt.Required("District", q.District),
			prompt.Required("Year", q.Year),
		},
		Schema: recordSchema,
		List:   true,
		Rules: []string{
			"Only list events announced on a college website, an official social account or a news source.",
			"verificationProof names that announcement.",
			"confidenceScore is how strongly the announcement confirms the event, from 0 to 1.",
		},
	}.Build()
}

func (v Variant) Normalize(_ models.EventQuery, raw enrichment.Raw, _ []models.GroundingSource) models.CampusEvent {
	score := raw.Score("confidenceScore", "confidence")
	date := raw.String("date", "eventDate")

	return models.CampusEvent{
		ID:                 uuid.NewString(),
		EventName:          raw.String("eventName", "name", "title"),
		CollegeName:        raw.String("collegeName", "college", "host"),
		Type:               raw.String("type", "category"),
		Date:               date,
		Venue:              raw.String("venue", "location"),
		Description:        raw.String("description"),
		Status:             normalizeStatus(raw.StringOr("", "status"), date, v.now()),
		CoordinatorName:    raw.String("coordinatorName"),
		CoordinatorContact: raw.String("coordinatorContact", "coordinatorPhone"),
		CoordinatorEmail:   raw.String("coordinatorEmail"),
		ConfidenceScore:    score,
		IsVerified:         models.IsVerified(score),
		VerificationProof:  raw.String("verificationProof"),
	}
}

// normalizeStatus accepts the model's status in any case. Otherwise it is
// derived from an ISO date relative to now, falling back to Upcoming.
func normalizeStatus(status, date string, now time.Time) models.EventStatus {
	for _, s := range []models.EventStatus{models.EventUpcoming, models.EventOngoing, models.EventPast} {
		if strings.EqualFold(strings.TrimSpace(status), string(s)) {
			return s
		}
	}

	if len(date) >= 10 {
		if d, err := time.Parse("2006-01-02", date[:10]); err == nil {
			today := now.Format("2006-01-02")
			switch day := d.Format("2006-01-02"); {
			case day < today:
				return models.EventPast
			case day == today:
				return models.EventOngoing
			}
		}
	}
	return models.EventUpcoming
}
