package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/kb"
	"github.com/acpkit/netmesh/llm"
)

const reasonerSystem = `You are a network control agent in a multi-domain
simulation. Given an observation, answer with a single JSON object:
{"action": {<action field>: {<parameters>}}, "utility": <float>, "rationale": "<short>"}
Answer with JSON only, no prose around it.`

// ReasonerOptions configure a Reasoner agent.
type ReasonerOptions struct {
	// Weight scales the model's utility estimate. Default 1.0.
	Weight float64

	// Knowledge, when set, is queried with the agent id and the top hits
	// are prepended to the prompt as domain notes.
	Knowledge *kb.Store

	// Temperature for the underlying model. Default 0.2.
	Temperature float64
}

// Reasoner delegates proposal synthesis to a language model. The model sees
// the serialized observation plus optional knowledge-base notes and must
// answer with a JSON proposal; answers that do not parse degrade to a
// zero-utility hold so a flaky model never fails the step.
type Reasoner struct {
	id   string
	rs   llm.Reasoner
	opts ReasonerOptions
}

// NewReasoner constructs a model-backed agent.
func NewReasoner(id string, rs llm.Reasoner, optFns ...func(o *ReasonerOptions)) *Reasoner {
	opts := ReasonerOptions{Weight: 1.0, Temperature: 0.2}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Reasoner{id: id, rs: rs, opts: opts}
}

// ID implements core.Agent.
func (a *Reasoner) ID() string { return a.id }

// Propose implements core.Agent.
func (a *Reasoner) Propose(ctx context.Context, obs core.Observation) (core.Proposal, error) {
	prompt, err := a.buildPrompt(obs)
	if err != nil {
		return core.Proposal{}, err
	}

	resp, err := a.rs.Reason(ctx, llm.Request{
		System:      reasonerSystem,
		Prompt:      prompt,
		Temperature: a.opts.Temperature,
	})
	if err != nil {
		return core.Proposal{}, err
	}

	var parsed struct {
		Action    core.Action `json:"action"`
		Utility   float64     `json:"utility"`
		Rationale string      `json:"rationale"`
	}
	if err := json.Unmarshal([]byte(extractJSON(resp.Text)), &parsed); err != nil || parsed.Action == nil {
		// Hold: the run keeps going on a garbled answer.
		return core.Proposal{
			AgentID: a.id,
			Action:  core.Action{},
			Utility: 0,
			Metadata: map[string]any{
				"model":    resp.Model,
				"fallback": true,
			},
		}, nil
	}

	return core.Proposal{
		AgentID: a.id,
		Action:  parsed.Action,
		Utility: a.opts.Weight * parsed.Utility,
		Metadata: map[string]any{
			"model":     resp.Model,
			"rationale": parsed.Rationale,
		},
	}, nil
}

func (a *Reasoner) buildPrompt(obs core.Observation) (string, error) {
	payload, err := json.Marshal(obs)
	if err != nil {
		return "", fmt.Errorf("marshal observation: %w", err)
	}

	var sb strings.Builder
	if a.opts.Knowledge != nil {
		for _, note := range a.opts.Knowledge.Retrieve(a.id, 3) {
			sb.WriteString("Note: ")
			sb.WriteString(note)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("Agent: ")
	sb.WriteString(a.id)
	sb.WriteString("\nObservation: ")
	sb.Write(payload)
	return sb.String(), nil
}

// extractJSON trims prose or code fences around the first top-level JSON
// object in the model's answer.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return text
	}
	return text[start : end+1]
}
