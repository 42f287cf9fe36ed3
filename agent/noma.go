package agent

import (
	"context"

	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/tool"
)

// NOMA proposes power splits for the downlink NOMA delegate. It hands the
// observed channel gains to the power allocator and uses the solver's sum
// rate proxy as its utility estimate.
type NOMA struct {
	id     string
	opts   Options
	solver *tool.PowerAllocator
}

// NewNOMA constructs the NOMA agent.
func NewNOMA(id string, optFns ...func(o *Options)) *NOMA {
	return &NOMA{
		id:     id,
		opts:   applyOptions(optFns),
		solver: tool.NewPowerAllocator(),
	}
}

// ID implements core.Agent.
func (a *NOMA) ID() string { return a.id }

// Propose implements core.Agent.
func (a *NOMA) Propose(ctx context.Context, obs core.Observation) (core.Proposal, error) {
	gains := obsFloats(obs, "channel_gains_db")
	if len(gains) == 0 {
		// Nothing to allocate against; abstain with a zero-utility hold.
		return core.Proposal{AgentID: a.id, Action: core.Action{}, Utility: 0}, nil
	}

	res, err := a.solver.Call(ctx, map[string]any{
		"channel_gains_db": gains,
		"power_budget":     1.0,
	})
	if err != nil {
		return core.Proposal{}, err
	}

	return core.Proposal{
		AgentID: a.id,
		Action: core.Action{
			"noma_resource_plan": map[string]any{"allocation": res["allocation"]},
		},
		Utility: a.opts.Weight * tool.Float(res, "sum_rate_proxy", 0.0),
		Metadata: map[string]any{
			"solver": a.solver.Name(),
		},
	}, nil
}
