package core

import "context"

// Environment is the uniform step contract implemented by concrete delegate
// simulators. Step ordering within an environment is whatever the simulator
// defines; wrappers add no reordering.
type Environment interface {
	// Reset re-initializes episode state. A seed of zero leaves the
	// simulator's randomness unseeded.
	Reset(seed int64) (Transition, error)

	// Step advances the simulation with the provided per-agent actions,
	// restricted to the environment's own agents. A missing entry means the
	// simulator's default no-op policy applies for that agent.
	Step(ctx context.Context, actions map[string]Action) (Transition, error)
}

// LinkState captures the channel inputs a fading model may condition on.
type LinkState struct {
	TimeIndex int
	SNRdB     float64
	DistanceM float64
}

// FadingModel is the sampling capability consumed per channel. Satisfied
// structurally; builtin models and externally registered references meet the
// same contract.
type FadingModel interface {
	// Sample draws a channel gain contribution in dB for the link state.
	Sample(link LinkState) float64
}

// Position is a 3D coordinate in meters.
type Position struct {
	X, Y, Z float64
}

// MobilityModel is the movement-update capability consumed per agent.
type MobilityModel interface {
	// Advance returns the position after dt seconds of motion.
	Advance(pos Position, dt float64) Position
}

// ModelHost is implemented by simulators whose channel and mobility slots can
// be overridden from configuration. The delegate wrapper injects resolved
// model instances through it before the first reset; a later call with the
// same id replaces the earlier model (last-wins).
type ModelHost interface {
	SetFadingModel(channelID string, m FadingModel)
	SetMobilityModel(agentID string, m MobilityModel)
}
