package core

// Observation is the per-agent view of simulator state for one step. Keys and
// value shapes are simulator specific; downstream code treats the payload as
// opaque except for the fields it explicitly understands.
type Observation map[string]any

// Action is a structured control command keyed by action field names
// (e.g. "ris_phase_update", "noma_resource_plan").
type Action map[string]any

// Transition is the per-step result bundle produced by a delegate simulator
// or by the composite environment. It is produced once per step and read-only
// downstream; callers that need to retain one across steps should Clone it.
type Transition struct {
	// Observations maps agent id to that agent's observation slice.
	Observations map[string]Observation `json:"observations"`

	// Rewards maps agent id to the scalar reward for the step.
	Rewards map[string]float64 `json:"rewards"`

	// Done reports episode termination. For a merged composite transition
	// this is true as soon as any delegate finishes (first-done-wins).
	Done bool `json:"done"`

	// Info carries auxiliary diagnostics. The composite environment keys
	// this mapping by delegate name, each entry holding that delegate's own
	// info payload unmodified.
	Info map[string]any `json:"info,omitempty"`
}

// Clone returns a copy of the transition with fresh top-level maps and fresh
// per-agent observation maps, so holders of the clone are isolated from later
// mutation of the source.
func (t Transition) Clone() Transition {
	out := Transition{Done: t.Done}
	if t.Observations != nil {
		out.Observations = make(map[string]Observation, len(t.Observations))
		for id, obs := range t.Observations {
			cp := make(Observation, len(obs))
			for k, v := range obs {
				cp[k] = v
			}
			out.Observations[id] = cp
		}
	}
	if t.Rewards != nil {
		out.Rewards = make(map[string]float64, len(t.Rewards))
		for id, r := range t.Rewards {
			out.Rewards[id] = r
		}
	}
	if t.Info != nil {
		out.Info = make(map[string]any, len(t.Info))
		for k, v := range t.Info {
			out.Info[k] = v
		}
	}
	return out
}

// Proposal is an agent's candidate action for one step together with a scalar
// utility estimate. Proposals are consumed and discarded by the coordinator
// within the step that produced them.
type Proposal struct {
	AgentID  string         `json:"agent_id"`
	Action   Action         `json:"action"`
	Utility  float64        `json:"utility"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Plan is the coordinator's committed per-agent action bundle for one step.
// The agent id set of Actions is always a subset of the agent ids whose
// proposals were solicited that step; agents may abstain.
type Plan struct {
	// Committed lists the agent ids whose proposals won selection. With the
	// default single-winner policy it holds zero or one entry.
	Committed []string `json:"committed"`

	// Actions holds the committed agents' proposed actions plus configured
	// default (hold) actions for non-committed agents.
	Actions map[string]Action `json:"actions"`

	// Telemetry carries ranking diagnostics (utilities, proposal failures,
	// selected agent) for the telemetry sink.
	Telemetry map[string]any `json:"telemetry,omitempty"`
}
