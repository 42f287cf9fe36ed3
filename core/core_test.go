package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionCloneIsolation(t *testing.T) {
	src := Transition{
		Observations: map[string]Observation{
			"a1": {"snr_db": 12.0},
		},
		Rewards: map[string]float64{"a1": 0.5},
		Info:    map[string]any{"delegate": "corridor"},
		Done:    true,
	}

	cp := src.Clone()
	require.Equal(t, src, cp)

	// Mutating the clone never reaches the source, including nested
	// observation maps.
	cp.Observations["a1"]["snr_db"] = -99.0
	cp.Observations["b1"] = Observation{}
	cp.Rewards["a1"] = 0
	cp.Info["delegate"] = "other"

	assert.Equal(t, 12.0, src.Observations["a1"]["snr_db"])
	assert.NotContains(t, src.Observations, "b1")
	assert.Equal(t, 0.5, src.Rewards["a1"])
	assert.Equal(t, "corridor", src.Info["delegate"])
}

func TestTransitionCloneNilMaps(t *testing.T) {
	cp := Transition{Done: true}.Clone()
	assert.True(t, cp.Done)
	assert.Nil(t, cp.Observations)
	assert.Nil(t, cp.Rewards)
	assert.Nil(t, cp.Info)
}

func TestErrorMessages(t *testing.T) {
	assert.EqualError(t,
		&UnknownCapabilityError{Name: "weibull"},
		`unknown capability "weibull"`)
	assert.EqualError(t,
		&AgentIDCollisionError{AgentID: "a", Delegates: [2]string{"x", "y"}},
		`agent "a" claimed by delegates "x" and "y"`)

	res := &ResolutionError{Reference: "lab.m"}
	assert.Contains(t, res.Error(), "lab.m")

	cfg := &ConfigurationError{Field: "max_steps", Reason: "must be > 0"}
	assert.Equal(t, "configuration: max_steps: must be > 0", cfg.Error())
}

func TestErrorUnwrap(t *testing.T) {
	cause := assert.AnError
	assert.ErrorIs(t, &ResolutionError{Reference: "r", Cause: cause}, cause)
	assert.ErrorIs(t, &ConfigurationError{Reason: "r", Cause: cause}, cause)
	assert.ErrorIs(t, &ProposalError{AgentID: "a", Cause: cause}, cause)
	assert.ErrorIs(t, &DelegateStepError{Delegate: "d", Cause: cause}, cause)
}
