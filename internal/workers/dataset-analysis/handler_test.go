package datasetanalysis

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"college-finder/internal/cache"
	apperrors "college-finder/internal/common/errors"
	"college-finder/internal/common/gemini"
	"college-finder/internal/common/logger"
	"college-finder/internal/models"
	"college-finder/internal/tabular"
)

type fakeGenerator struct {
	requests []gemini.Request
	text     string
}

func (f *fakeGenerator) Generate(_ context.Context, req gemini.Request) (*gemini.Response, error) {
	f.requests = append(f.requests, req)
	return &gemini.Response{Text: f.text}, nil
}

func createTestHandler(t *testing.T, gen gemini.Generator) *Handler {
	t.Helper()
	log := logger.NewTestLogger(t)
	return NewHandler(LoadConfig("clg_fnd_v4"), gen, cache.New(cache.NewMemoryStore(), log), nil, log)
}

func sampleTable(t *testing.T, rows int) *tabular.Table {
	t.Helper()
	var b strings.Builder
	b.WriteString("College Name,State,Type,NAAC Grade\n")
	for i := 0; i < rows; i++ {
		state := "Kerala"
		if i%3 == 0 {
			state = "Goa"
		}
		b.WriteString("College " + string(rune('A'+i)) + "," + state + ",Private,A+\n")
	}
	table, err := tabular.ReadTable("data.csv", []byte(b.String()))
	require.NoError(t, err)
	return table
}

func TestHandler_Analyze(t *testing.T) {
	gen := &fakeGenerator{text: "```json\n" + `{
		"executiveBriefing":"Most colleges are private.",
		"keyTakeaways":["Kerala dominates"],
		"suggestedActions":"Expand to Goa, Audit grades",
		"swotAnalysis":{"strengths":["Dense coverage"],"threats":"N/A"},
		"dataQualityScore":0.9
	}` + "\n```"}
	h := createTestHandler(t, gen)

	out, err := h.Analyze(context.Background(), sampleTable(t, 12))
	require.NoError(t, err)

	a := out.Analysis
	assert.Equal(t, "Most colleges are private.", a.ExecutiveBriefing)
	assert.Equal(t, []string{"Expand to Goa", "Audit grades"}, a.SuggestedActions)
	assert.Equal(t, []string{"Dense coverage"}, a.SWOT.Strengths)
	assert.Equal(t, []string{}, a.SWOT.Threats)
	assert.Equal(t, []string{}, a.SWOT.Weaknesses)
	assert.InDelta(t, 90, a.DataQualityScore, 1e-9)

	assert.Equal(t, 12, out.RowCount)
	require.Contains(t, out.Distributions, "region")
	assert.Equal(t, "State", out.Distributions["region"].Column)
	assert.Equal(t, tabular.Bucket{Value: "Kerala", Count: 8}, out.Distributions["region"].Buckets[0])
	assert.Equal(t, "NAAC Grade", out.Distributions["accreditation"].Column)

	require.Len(t, gen.requests, 1)
	req := gen.requests[0]
	assert.False(t, req.Grounding)
	assert.True(t, req.JSON)
	assert.Contains(t, req.Prompt, "Columns: College Name, State, Type, NAAC Grade")
	assert.Contains(t, req.Prompt, "College J")
	assert.NotContains(t, req.Prompt, "College K", "only the first ten rows are sent")
}

func TestHandler_Analyze_NoHeaders(t *testing.T) {
	h := createTestHandler(t, &fakeGenerator{text: `{}`})
	_, err := h.Analyze(context.Background(), &tabular.Table{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuery)
}

func TestQualityScore(t *testing.T) {
	assert.Equal(t, 85.0, qualityScore(85))
	assert.Equal(t, 50.0, qualityScore(0.5))
	assert.Equal(t, 100.0, qualityScore(140))
	assert.Equal(t, 0.0, qualityScore(-3))
	assert.Equal(t, 0.0, qualityScore(0))
}

func TestVariant_NotGrounded(t *testing.T) {
	v := NewVariant("ns")
	assert.False(t, v.Grounded())
	assert.Equal(t, models.NotAvailable, v.Normalize(models.DatasetQuery{}, nil, nil).ExecutiveBriefing)
}
