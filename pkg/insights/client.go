// Package insights generates narrative strategic reports from an aggregated
// business profile via the Anthropic API. The pipeline treats the analysis
// step as optional: any failure here is "analysis missing," never fatal.
package insights

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

const defaultModel = "claude-haiku-4-5-20251001"

// ReportRequest carries the serialized profile and prompt framing.
type ReportRequest struct {
	System  string
	Profile string // JSON-serialized business profile
}

// Report is the generated narrative with cost attribution.
type Report struct {
	Narrative    string
	Model        string
	InputTokens  int64
	OutputTokens int64
}

// modelPricing maps model IDs to {input, output} USD per million tokens.
var modelPricing = map[string][2]float64{
	"claude-haiku-4-5-20251001":  {0.80, 4.00},
	"claude-sonnet-4-5-20250929": {3.00, 15.00},
}

// EstimateCost returns the estimated USD cost of the generation, 0 for
// unknown models.
func (r *Report) EstimateCost() float64 {
	pricing, ok := modelPricing[r.Model]
	if !ok {
		return 0
	}
	return (float64(r.InputTokens)/1e6)*pricing[0] + (float64(r.OutputTokens)/1e6)*pricing[1]
}

// Client generates strategic reports.
type Client interface {
	GenerateReport(ctx context.Context, req ReportRequest) (*Report, error)
}

// Option configures the client.
type Option func(*sdkClient)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *sdkClient) {
		c.model = model
	}
}

// WithBaseURL points the SDK at a different endpoint (tests).
func WithBaseURL(u string) Option {
	return func(c *sdkClient) {
		c.opts = append(c.opts, option.WithBaseURL(u))
	}
}

type sdkClient struct {
	model  string
	opts   []option.RequestOption
	client sdk.Client
}

// NewClient creates an Anthropic-backed insights client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &sdkClient{
		model: defaultModel,
		opts:  []option.RequestOption{option.WithAPIKey(apiKey)},
	}
	for _, o := range opts {
		o(c)
	}
	c.client = sdk.NewClient(c.opts...)
	return c
}

func (c *sdkClient) GenerateReport(ctx context.Context, req ReportRequest) (*Report, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: 2048,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Profile)),
		},
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, eris.Wrap(err, "insights: create message")
	}

	var narrative strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			narrative.WriteString(block.Text)
		}
	}

	return &Report{
		Narrative:    narrative.String(),
		Model:        string(msg.Model),
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}, nil
}
