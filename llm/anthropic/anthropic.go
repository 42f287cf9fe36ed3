// Package anthropic provides a Reasoner backed by the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/acpkit/netmesh/llm"
)

// Options configures the Anthropic adapter (model id, temperature, max
// tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Reasoner wraps the Anthropic Messages API behind the llm.Reasoner interface.
type Reasoner struct {
	client *anthropic.Client
	opts   Options
}

// NewReasoner creates a reasoner using the official client.
func NewReasoner(optFns ...func(o *Options)) *Reasoner {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Reasoner{client: &client, opts: opts}
}

// NewReasonerFromClient creates a reasoner from an existing client.
func NewReasonerFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Reasoner {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Reasoner{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.2,
		MaxTokens:   1024,
	}
}

// Reason implements llm.Reasoner.
func (r *Reasoner) Reason(ctx context.Context, req llm.Request) (llm.Response, error) {
	params := anthropic.MessageNewParams{
		Model: r.opts.Model,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		MaxTokens:   r.maxTokens(req),
		Temperature: anthropic.Float(r.temperature(req)),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := r.client.Messages.New(ctx, params)
	if err != nil {
		return llm.Response{}, fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return llm.Response{Text: sb.String(), Model: string(r.opts.Model)}, nil
}

func (r *Reasoner) maxTokens(req llm.Request) int64 {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return r.opts.MaxTokens
}

func (r *Reasoner) temperature(req llm.Request) float64 {
	if req.Temperature > 0 {
		return req.Temperature
	}
	return r.opts.Temperature
}
