// Package openai provides a Reasoner backed by the OpenAI Chat Completions
// API.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/acpkit/netmesh/llm"
)

// Options configure the OpenAI adapter. Fields mirror a subset of Chat
// Completion parameters intentionally kept minimal.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Reasoner wraps the OpenAI Chat Completions API behind the llm.Reasoner
// interface.
type Reasoner struct {
	client *openai.Client
	opts   Options
}

// NewReasoner creates a reasoner using the official client.
func NewReasoner(optFns ...func(o *Options)) *Reasoner {
	client := openai.NewClient()
	return NewReasonerFromClient(&client, optFns...)
}

// NewReasonerFromClient creates a reasoner from an existing client.
func NewReasonerFromClient(client *openai.Client, optFns ...func(o *Options)) *Reasoner {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.2,
		MaxCompletionTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Reasoner{client: client, opts: opts}
}

// Reason implements llm.Reasoner.
func (r *Reasoner) Reason(ctx context.Context, req llm.Request) (llm.Response, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               r.opts.Model,
		Temperature:         openai.Float(r.temperature(req)),
		MaxCompletionTokens: openai.Int(r.maxTokens(req)),
	}

	resp, err := r.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return llm.Response{}, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return llm.Response{}, fmt.Errorf("no choices returned")
	}
	return llm.Response{Text: resp.Choices[0].Message.Content, Model: r.opts.Model}, nil
}

func (r *Reasoner) maxTokens(req llm.Request) int64 {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return r.opts.MaxCompletionTokens
}

func (r *Reasoner) temperature(req llm.Request) float64 {
	if req.Temperature > 0 {
		return req.Temperature
	}
	return r.opts.Temperature
}
