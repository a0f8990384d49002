// Package aibatch fills missing company fields by sending record batches to
// the Anthropic API and parsing the structured response.
package aibatch

import (
	"context"
	"encoding/json"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// RecordInput is one company row sent to the model. Fields already known
// are included so the model only fills gaps.
type RecordInput struct {
	ID             string `json:"id"`
	CompanyName    string `json:"company_name"`
	CompanyWebsite string `json:"company_website"`
	Industry       string `json:"industry,omitempty"`
	CompanySize    string `json:"company_size,omitempty"`
	Description    string `json:"company_description,omitempty"`
	FoundedYear    string `json:"founded_year,omitempty"`
	Headquarters   string `json:"headquarters,omitempty"`
}

// RecordOutput is the model's completion for one record.
type RecordOutput struct {
	ID             string `json:"id"`
	CompanyName    string `json:"company_name"`
	CompanyWebsite string `json:"company_website"`
	Industry       string `json:"industry"`
	CompanySize    string `json:"company_size"`
	Description    string `json:"company_description"`
	FoundedYear    string `json:"founded_year"`
	Headquarters   string `json:"headquarters"`
}

// Client defines the batch AI enrichment operation.
type Client interface {
	// EnrichBatch sends one batch of records and returns per-record
	// completions keyed by the input IDs.
	EnrichBatch(ctx context.Context, records []RecordInput) ([]RecordOutput, error)
}

const systemPrompt = `You are a B2B data research assistant. You receive a JSON
array of company records with some fields missing. Fill in every field you can
determine with high confidence from your knowledge of the company; leave a field
as an empty string when you are not confident. Respond with ONLY a JSON array of
the same records, same ids, all fields present.`

// Option configures the aibatch client.
type Option func(*sdkClient)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *sdkClient) {
		c.model = model
	}
}

// WithRequestOptions appends SDK request options (for testing).
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *sdkClient) {
		c.reqOpts = append(c.reqOpts, opts...)
	}
}

type sdkClient struct {
	client  sdk.Client
	model   string
	reqOpts []option.RequestOption
}

// NewClient creates an aibatch client backed by the Anthropic SDK.
func NewClient(apiKey string, opts ...Option) Client {
	c := &sdkClient{
		model: "claude-sonnet-4-5-20250929",
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = sdk.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, c.reqOpts...)...)
	return c
}

func (c *sdkClient) EnrichBatch(ctx context.Context, records []RecordInput) ([]RecordOutput, error) {
	if len(records) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return nil, eris.Wrap(err, "aibatch: marshal records")
	}

	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: 4096,
		System:    []sdk.TextBlockParam{{Text: systemPrompt}},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(string(payload))),
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "aibatch: create message")
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	outputs, err := parseResponse(text.String())
	if err != nil {
		return nil, err
	}

	zap.L().Debug("aibatch: batch complete",
		zap.Int("records", len(records)),
		zap.Int("returned", len(outputs)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	return outputs, nil
}

// parseResponse extracts the JSON array from the model output, tolerating
// code fences and surrounding prose.
func parseResponse(text string) ([]RecordOutput, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, eris.New("aibatch: no JSON array in response")
	}

	var outputs []RecordOutput
	if err := json.Unmarshal([]byte(text[start:end+1]), &outputs); err != nil {
		return nil, eris.Wrap(err, "aibatch: unmarshal response")
	}
	return outputs, nil
}
