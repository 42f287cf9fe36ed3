package coordinator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/registry"
)

// stubAgent answers with a fixed utility, optionally failing.
type stubAgent struct {
	id      string
	utility float64
	err     error
	calls   int32
}

func (a *stubAgent) ID() string { return a.id }

func (a *stubAgent) Propose(_ context.Context, obs core.Observation) (core.Proposal, error) {
	atomic.AddInt32(&a.calls, 1)
	if a.err != nil {
		return core.Proposal{}, a.err
	}
	return core.Proposal{
		AgentID: a.id,
		Action:  core.Action{"cmd": a.id},
		Utility: a.utility,
	}, nil
}

func newCoordinator(agents []*stubAgent, optFns ...func(o *Options)) *Coordinator {
	reg := registry.New()
	for _, a := range agents {
		reg.RegisterAgent(a)
	}
	return New(reg, optFns...)
}

func TestStepCommitsHighestUtility(t *testing.T) {
	c := newCoordinator([]*stubAgent{
		{id: "low", utility: 1},
		{id: "high", utility: 9},
		{id: "mid", utility: 5},
	})

	plan := c.Step(context.Background(), 0, nil)

	assert.Equal(t, []string{"high"}, plan.Committed)
	assert.Equal(t, core.Action{"cmd": "high"}, plan.Actions["high"])

	utilities, ok := plan.Telemetry["utilities"].(map[string]float64)
	require.True(t, ok)
	assert.Len(t, utilities, 3)
}

func TestStepTieBreaksByRegistryOrder(t *testing.T) {
	c := newCoordinator([]*stubAgent{
		{id: "second", utility: 7},
		{id: "first", utility: 7},
	})

	for i := 0; i < 5; i++ {
		plan := c.Step(context.Background(), i, nil)
		assert.Equal(t, []string{"second"}, plan.Committed, "earliest registered agent wins ties")
	}
}

func TestStepProposalFailureIsIsolated(t *testing.T) {
	c := newCoordinator([]*stubAgent{
		{id: "broken", err: errors.New("model offline")},
		{id: "ok", utility: 2},
	})

	plan := c.Step(context.Background(), 3, nil)

	assert.Equal(t, []string{"ok"}, plan.Committed)
	failed, ok := plan.Telemetry["failed"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"broken"}, failed)
}

func TestStepAllFailuresYieldsEmptyPlan(t *testing.T) {
	c := newCoordinator([]*stubAgent{
		{id: "a", err: errors.New("down")},
		{id: "b", err: errors.New("down")},
	})

	plan := c.Step(context.Background(), 0, nil)
	assert.Empty(t, plan.Committed)
	assert.Empty(t, plan.Actions)
}

func TestStepAppliesDefaultActions(t *testing.T) {
	hold := core.Action{"hold": true}
	c := newCoordinator([]*stubAgent{
		{id: "winner", utility: 9},
		{id: "loser", utility: 1},
		{id: "other", utility: 0},
	}, func(o *Options) {
		o.Defaults = map[string]core.Action{"loser": hold}
		o.DefaultAction = core.Action{"noop": true}
	})

	plan := c.Step(context.Background(), 0, nil)

	assert.Equal(t, core.Action{"cmd": "winner"}, plan.Actions["winner"])
	assert.Equal(t, hold, plan.Actions["loser"])
	assert.Equal(t, core.Action{"noop": true}, plan.Actions["other"])
}

func TestStepParallelCollectionMatchesSequential(t *testing.T) {
	agents := []*stubAgent{
		{id: "a", utility: 3},
		{id: "b", utility: 3},
		{id: "c", utility: 1},
		{id: "d", utility: 2},
	}
	seq := newCoordinator(agents)
	par := newCoordinator(agents, func(o *Options) { o.Workers = 4 })

	for i := 0; i < 10; i++ {
		planSeq := seq.Step(context.Background(), i, nil)
		planPar := par.Step(context.Background(), i, nil)
		assert.Equal(t, planSeq.Committed, planPar.Committed,
			"parallel collection must not change ranking")
	}
}

func TestStepSolicitsEveryAgent(t *testing.T) {
	agents := []*stubAgent{
		{id: "a", utility: 1},
		{id: "b", utility: 2},
	}
	c := newCoordinator(agents, func(o *Options) { o.Workers = 2 })
	c.Step(context.Background(), 0, nil)

	for _, a := range agents {
		assert.Equal(t, int32(1), atomic.LoadInt32(&a.calls), a.id)
	}
}

func TestMaxUtilitySkipsFailedResults(t *testing.T) {
	p := MaxUtility{}
	idx := p.Select([]Result{
		{AgentID: "x", Err: errors.New("down")},
		{AgentID: "y", Proposal: core.Proposal{Utility: -5}},
	})
	assert.Equal(t, 1, idx, "a negative utility still beats a failed proposal")

	assert.Equal(t, -1, p.Select([]Result{{AgentID: "x", Err: errors.New("down")}}))
	assert.Equal(t, -1, p.Select(nil))
}
