package agent

import (
	"context"
	"math"

	"github.com/acpkit/netmesh/core"
)

// V2I proposes transmit-power adjustments for the highway delegate. The rule
// is proportional control toward a target SNR; utility grows with the SNR
// shortfall so the coordinator prioritizes the link when it degrades.
type V2I struct {
	id          string
	opts        Options
	targetSNRdB float64
}

// NewV2I constructs the V2I agent with a 15 dB target.
func NewV2I(id string, optFns ...func(o *Options)) *V2I {
	return &V2I{id: id, opts: applyOptions(optFns), targetSNRdB: 15.0}
}

// ID implements core.Agent.
func (a *V2I) ID() string { return a.id }

// Propose implements core.Agent.
func (a *V2I) Propose(_ context.Context, obs core.Observation) (core.Proposal, error) {
	snr := obsFloat(obs, "snr_db", a.targetSNRdB)
	power := obsFloat(obs, "tx_power_dbm", 23.0)

	shortfall := a.targetSNRdB - snr
	next := power + 0.5*shortfall
	if next < 0 {
		next = 0
	}
	if next > 33 {
		next = 33
	}

	return core.Proposal{
		AgentID: a.id,
		Action: core.Action{
			"v2i_power_control": map[string]any{"tx_power_dbm": next},
		},
		Utility: a.opts.Weight * math.Abs(shortfall),
		Metadata: map[string]any{
			"target_snr_db": a.targetSNRdB,
		},
	}, nil
}
