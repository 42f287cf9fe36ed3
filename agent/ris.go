package agent

import (
	"context"
	"math"

	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/tool"
)

// RIS proposes phase updates for the reflecting-surface delegate. It feeds
// the observed phase gradient through the phase optimizer and estimates
// utility from how far the commanded phase moves toward the optimum.
type RIS struct {
	id     string
	opts   Options
	solver *tool.PhaseOptimizer

	lastReward float64
}

// NewRIS constructs the RIS agent.
func NewRIS(id string, optFns ...func(o *Options)) *RIS {
	return &RIS{
		id:     id,
		opts:   applyOptions(optFns),
		solver: tool.NewPhaseOptimizer(),
	}
}

// ID implements core.Agent.
func (a *RIS) ID() string { return a.id }

// Propose implements core.Agent.
func (a *RIS) Propose(ctx context.Context, obs core.Observation) (core.Proposal, error) {
	phase := obsFloat(obs, "phase", 0.0)
	grad := obsFloat(obs, "phase_gradient", 0.0)

	res, err := a.solver.Call(ctx, map[string]any{
		"phase":    phase,
		"gradient": grad,
	})
	if err != nil {
		return core.Proposal{}, err
	}
	next := tool.Float(res, "phase", phase)
	delta := tool.Float(res, "delta", 0.0)

	// A big commanded move means the current phase is far off the optimum,
	// so acting now is worth more.
	utility := a.opts.Weight * math.Abs(delta) * 10.0

	return core.Proposal{
		AgentID: a.id,
		Action: core.Action{
			"ris_phase_update": map[string]any{"phase": next},
		},
		Utility: utility,
		Metadata: map[string]any{
			"solver":      a.solver.Name(),
			"mean_snr_db": obsFloat(obs, "mean_snr_db", 0.0),
		},
	}, nil
}

// Feedback implements core.FeedbackReceiver.
func (a *RIS) Feedback(t core.Transition) {
	if r, ok := t.Rewards[a.id]; ok {
		a.lastReward = r
	}
}
