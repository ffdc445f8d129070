package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"college-finder/internal/common/config"
	"college-finder/internal/models"
)

// Request is one prompt sent to the model.
type Request struct {
	Prompt    string
	JSON      bool // ask for application/json output
	Grounding bool // enable Google Search grounding
}

// Response carries the raw text and any grounding citations.
type Response struct {
	Text    string
	Sources []models.GroundingSource
}

// Generator is the single seam between the enrichment pipeline and the model.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

type Client struct {
	client         *genai.Client
	model          string
	timeout        time.Duration
	thinkingBudget int32
}

func NewClient(ctx context.Context, cfg config.GenAIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = config.DefaultModel
	}

	return &Client{
		client:         client,
		model:          model,
		timeout:        config.GetDuration(cfg.Timeout),
		thinkingBudget: int32(cfg.ThinkingBudget),
	}, nil
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	gc := &genai.GenerateContentConfig{
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(c.thinkingBudget)},
	}
	if req.JSON {
		gc.ResponseMIMEType = "application/json"
	}
	if req.Grounding {
		gc.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), gc)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}

	return &Response{
		Text:    strings.TrimSpace(resp.Text()),
		Sources: groundingSources(resp),
	}, nil
}

// groundingSources collects web citations from the first candidate,
// skipping chunks without a URI and duplicate URIs.
func groundingSources(resp *genai.GenerateContentResponse) []models.GroundingSource {
	sources := []models.GroundingSource{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return sources
	}

	seen := make(map[string]bool)
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		title := chunk.Web.Title
		if title == "" {
			title = chunk.Web.URI
		}
		sources = append(sources, models.GroundingSource{Title: title, URI: chunk.Web.URI})
	}
	return sources
}
