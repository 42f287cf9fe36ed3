package env

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/model"
	"github.com/acpkit/netmesh/registry"
)

// fakeSim is a scriptable simulator: it terminates after horizon steps,
// optionally fails or stalls at a chosen step, and records what it was given.
type fakeSim struct {
	agentID string
	horizon int
	steps   int
	seed    int64

	failAt  int // step index that errors, -1 disables
	stallAt int // step index that blocks, -1 disables

	gotActions []map[string]core.Action
	fading     map[string]core.FadingModel
	mobility   map[string]core.MobilityModel
}

func newFakeSim(agentID string, horizon int) *fakeSim {
	return &fakeSim{
		agentID:  agentID,
		horizon:  horizon,
		failAt:   -1,
		stallAt:  -1,
		fading:   make(map[string]core.FadingModel),
		mobility: make(map[string]core.MobilityModel),
	}
}

func (s *fakeSim) Reset(seed int64) (core.Transition, error) {
	s.seed = seed
	s.steps = 0
	s.gotActions = nil
	return s.transition(false), nil
}

func (s *fakeSim) Step(_ context.Context, actions map[string]core.Action) (core.Transition, error) {
	if s.steps == s.failAt {
		return core.Transition{}, errors.New("scripted failure")
	}
	if s.steps == s.stallAt {
		time.Sleep(200 * time.Millisecond)
	}
	s.gotActions = append(s.gotActions, actions)
	s.steps++
	return s.transition(s.steps >= s.horizon), nil
}

func (s *fakeSim) transition(done bool) core.Transition {
	return core.Transition{
		Observations: map[string]core.Observation{s.agentID: {"step": s.steps}},
		Rewards:      map[string]float64{s.agentID: float64(s.steps)},
		Done:         done,
		Info:         map[string]any{"steps": s.steps},
	}
}

func (s *fakeSim) SetFadingModel(id string, m core.FadingModel)     { s.fading[id] = m }
func (s *fakeSim) SetMobilityModel(id string, m core.MobilityModel) { s.mobility[id] = m }

// buildDelegate wires a fakeSim through the registry so NewDelegate exercises
// the full resolution path.
func buildDelegate(t *testing.T, sim *fakeSim, mutate func(spec *Spec)) *Delegate {
	t.Helper()
	reg := registry.New()
	reg.Register("fake", func(*registry.BuildContext) (any, error) {
		return Constructor(func(map[string]any) (core.Environment, error) { return sim, nil }), nil
	})
	spec := Spec{
		Name:      "unit",
		Reference: "fake",
		AgentIDs:  []string{sim.agentID},
		Seed:      11,
	}
	if mutate != nil {
		mutate(&spec)
	}
	d, err := NewDelegate(spec, reg.NewBuildContext())
	require.NoError(t, err)
	return d
}

func TestDelegateLifecycle(t *testing.T) {
	sim := newFakeSim("a1", 2)
	d := buildDelegate(t, sim, nil)

	_, err := d.Reset()
	require.NoError(t, err)
	assert.False(t, d.Done())
	assert.Equal(t, int64(11), sim.seed)

	tr, err := d.Step(context.Background(), map[string]core.Action{"a1": {"move": 1}})
	require.NoError(t, err)
	assert.False(t, tr.Done)
	assert.False(t, d.Done())

	tr, err = d.Step(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, tr.Done)
	assert.True(t, d.Done())
	assert.Equal(t, 2, d.Steps())
}

func TestDelegateFiltersForeignActions(t *testing.T) {
	sim := newFakeSim("a1", 10)
	d := buildDelegate(t, sim, nil)
	_, err := d.Reset()
	require.NoError(t, err)

	_, err = d.Step(context.Background(), map[string]core.Action{
		"a1":    {"move": 1},
		"other": {"move": 2},
	})
	require.NoError(t, err)

	require.Len(t, sim.gotActions, 1)
	assert.Contains(t, sim.gotActions[0], "a1")
	assert.NotContains(t, sim.gotActions[0], "other")
}

func TestDelegateStaleHold(t *testing.T) {
	sim := newFakeSim("a1", 1)
	d := buildDelegate(t, sim, nil)
	_, err := d.Reset()
	require.NoError(t, err)

	final, err := d.Step(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, final.Done)

	// Further steps never reach the simulator and return the same payload.
	held1, err := d.Step(context.Background(), map[string]core.Action{"a1": {"move": 9}})
	require.NoError(t, err)
	held2, err := d.Step(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, final, held1)
	assert.Equal(t, held1, held2)
	assert.Equal(t, 1, sim.steps)

	// Holds are clones: mutating one does not leak into the next.
	held1.Observations["a1"]["step"] = 99
	held3, err := d.Step(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, held3.Observations["a1"]["step"])
}

func TestDelegateResetRearmsAfterDone(t *testing.T) {
	sim := newFakeSim("a1", 1)
	d := buildDelegate(t, sim, nil)
	_, err := d.Reset()
	require.NoError(t, err)
	_, err = d.Step(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, d.Done())

	_, err = d.Reset()
	require.NoError(t, err)
	assert.False(t, d.Done())
	assert.Equal(t, 0, d.Steps())
}

func TestDelegateStepErrorWrapped(t *testing.T) {
	sim := newFakeSim("a1", 10)
	sim.failAt = 0
	d := buildDelegate(t, sim, nil)
	_, err := d.Reset()
	require.NoError(t, err)

	_, err = d.Step(context.Background(), nil)
	var stepErr *core.DelegateStepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "unit", stepErr.Delegate)
	assert.Equal(t, 0, stepErr.Step)
}

func TestDelegateStepTimeout(t *testing.T) {
	sim := newFakeSim("a1", 10)
	sim.stallAt = 0
	d := buildDelegate(t, sim, func(spec *Spec) {
		spec.StepTimeout = 20 * time.Millisecond
	})
	_, err := d.Reset()
	require.NoError(t, err)

	_, err = d.Step(context.Background(), nil)
	var timeout *core.DelegateTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, 20*time.Millisecond, timeout.Timeout)
}

func TestDelegateModelInjection(t *testing.T) {
	sim := newFakeSim("a1", 10)
	buildDelegate(t, sim, func(spec *Spec) {
		spec.Fading = []model.Spec{
			{Target: "ch0", Name: model.AliasRician},
			{Target: "ch0", Name: model.AliasRayleigh}, // last-wins
		}
		spec.Mobility = []model.Spec{
			{Target: "a1", Name: model.AliasRandomWalk},
		}
	})

	require.Len(t, sim.fading, 1)
	assert.IsType(t, &model.Rayleigh{}, sim.fading["ch0"])
	assert.Len(t, sim.mobility, 1)
}

func TestDelegateRejectsOverridesWithoutModelHost(t *testing.T) {
	reg := registry.New()
	reg.Register("bare", func(*registry.BuildContext) (any, error) {
		return Constructor(func(map[string]any) (core.Environment, error) {
			return bareSim{}, nil
		}), nil
	})

	_, err := NewDelegate(Spec{
		Name:      "unit",
		Reference: "bare",
		Fading:    []model.Spec{{Target: "ch0", Name: model.AliasRician}},
	}, reg.NewBuildContext())

	var cfg *core.ConfigurationError
	require.ErrorAs(t, err, &cfg)
}

func TestDelegateRejectsNonConstructorReference(t *testing.T) {
	reg := registry.New()
	reg.Register("wrong", func(*registry.BuildContext) (any, error) {
		return "not a constructor", nil
	})

	_, err := NewDelegate(Spec{Name: "unit", Reference: "wrong"}, reg.NewBuildContext())
	var cfg *core.ConfigurationError
	require.ErrorAs(t, err, &cfg)
}

// bareSim has no model slots.
type bareSim struct{}

func (bareSim) Reset(int64) (core.Transition, error) { return core.Transition{}, nil }
func (bareSim) Step(context.Context, map[string]core.Action) (core.Transition, error) {
	return core.Transition{}, nil
}
