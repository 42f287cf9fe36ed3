package env

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/registry"
)

func buildComposite(t *testing.T, sims map[string]*fakeSim, optFns ...func(o *CompositeOptions)) *Composite {
	t.Helper()
	reg := registry.New()
	var delegates []*Delegate
	// Deterministic partition order for the tests that care about it.
	for _, name := range []string{"alpha", "beta", "gamma"} {
		sim, ok := sims[name]
		if !ok {
			continue
		}
		reg.Register(name, func(*registry.BuildContext) (any, error) {
			return Constructor(func(map[string]any) (core.Environment, error) { return sim, nil }), nil
		})
		d, err := NewDelegate(Spec{
			Name:      name,
			Reference: name,
			AgentIDs:  []string{sim.agentID},
		}, reg.NewBuildContext())
		require.NoError(t, err)
		delegates = append(delegates, d)
	}
	comp, err := NewComposite(delegates, optFns...)
	require.NoError(t, err)
	return comp
}

func TestCompositeAgentIDCollision(t *testing.T) {
	reg := registry.New()
	sim := newFakeSim("dup", 5)
	reg.Register("fake", func(*registry.BuildContext) (any, error) {
		return Constructor(func(map[string]any) (core.Environment, error) { return sim, nil }), nil
	})
	build := reg.NewBuildContext()

	d1, err := NewDelegate(Spec{Name: "one", Reference: "fake", AgentIDs: []string{"dup"}}, build)
	require.NoError(t, err)
	d2, err := NewDelegate(Spec{Name: "two", Reference: "fake", AgentIDs: []string{"dup"}}, build)
	require.NoError(t, err)

	_, err = NewComposite([]*Delegate{d1, d2})
	var collision *core.AgentIDCollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "dup", collision.AgentID)
	assert.Equal(t, [2]string{"one", "two"}, collision.Delegates)
}

func TestCompositeMergeShape(t *testing.T) {
	comp := buildComposite(t, map[string]*fakeSim{
		"alpha": newFakeSim("a1", 5),
		"beta":  newFakeSim("b1", 5),
	})

	tr, err := comp.Reset()
	require.NoError(t, err)
	assert.Contains(t, tr.Observations, "a1")
	assert.Contains(t, tr.Observations, "b1")

	tr, err = comp.Step(context.Background(), map[string]core.Action{
		"a1": {"x": 1},
		"b1": {"y": 2},
	})
	require.NoError(t, err)

	// Rewards union per-delegate mappings; info nests per delegate name.
	assert.Len(t, tr.Rewards, 2)
	require.Contains(t, tr.Info, "alpha")
	require.Contains(t, tr.Info, "beta")
	alphaInfo, ok := tr.Info["alpha"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, alphaInfo["steps"])
	assert.False(t, tr.Done)
}

func TestCompositeFirstDoneWins(t *testing.T) {
	short := newFakeSim("a1", 2)
	long := newFakeSim("b1", 5)
	comp := buildComposite(t, map[string]*fakeSim{"alpha": short, "beta": long})

	_, err := comp.Reset()
	require.NoError(t, err)

	tr, err := comp.Step(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, tr.Done)

	tr, err = comp.Step(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, tr.Done, "merged done must be true as soon as one delegate finishes")
	assert.Equal(t, 2, long.steps, "the longer delegate still stepped this tick")
}

func TestCompositeHoldsFinishedDelegates(t *testing.T) {
	short := newFakeSim("a1", 1)
	long := newFakeSim("b1", 10)
	comp := buildComposite(t, map[string]*fakeSim{"alpha": short, "beta": long})

	_, err := comp.Reset()
	require.NoError(t, err)
	_, err = comp.Step(context.Background(), nil)
	require.NoError(t, err)

	// Subsequent steps keep merging the short delegate's held transition but
	// never invoke its simulator again.
	tr, err := comp.Step(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, short.steps)
	assert.Equal(t, 2, long.steps)
	assert.Contains(t, tr.Observations, "a1")
	assert.True(t, tr.Done)
}

func TestCompositeDelegateFailureIsFatalByDefault(t *testing.T) {
	bad := newFakeSim("a1", 5)
	bad.failAt = 0
	comp := buildComposite(t, map[string]*fakeSim{"alpha": bad, "beta": newFakeSim("b1", 5)})

	_, err := comp.Reset()
	require.NoError(t, err)

	_, err = comp.Step(context.Background(), nil)
	var stepErr *core.DelegateStepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "alpha", stepErr.Delegate)
}

func TestCompositeSkipFailedDelegates(t *testing.T) {
	bad := newFakeSim("a1", 5)
	bad.failAt = 1
	healthy := newFakeSim("b1", 5)
	comp := buildComposite(t, map[string]*fakeSim{"alpha": bad, "beta": healthy},
		func(o *CompositeOptions) { o.SkipFailedDelegates = true })

	_, err := comp.Reset()
	require.NoError(t, err)
	_, err = comp.Step(context.Background(), nil)
	require.NoError(t, err)

	// The failure parks alpha at its last transition; the run keeps going
	// and the parked delegate must not trip first-done-wins.
	tr, err := comp.Step(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, tr.Done)
	assert.Contains(t, tr.Observations, "a1")
	assert.Equal(t, 1, bad.steps)
	assert.Equal(t, 2, healthy.steps)

	// The healthy delegate still finishes the episode normally.
	for i := 0; i < 3; i++ {
		tr, err = comp.Step(context.Background(), nil)
		require.NoError(t, err)
	}
	assert.True(t, tr.Done)
}
