package tool

import (
	"context"
	"math"
)

// PhaseOptimizer refines an RIS phase estimate by damped gradient descent on
// a caller-supplied phase gradient, wrapping the result into [-pi, pi].
type PhaseOptimizer struct {
	LearningRate float64
	Iterations   int
}

// NewPhaseOptimizer creates an optimizer with the original solver's step
// schedule.
func NewPhaseOptimizer() *PhaseOptimizer {
	return &PhaseOptimizer{LearningRate: 0.12, Iterations: 5}
}

// Name implements Tool.
func (p *PhaseOptimizer) Name() string { return "phase_optimizer" }

// Call expects args:
//
//	phase:    float64  current phase in radians
//	gradient: float64  d(objective)/d(phase)
//
// and returns {"phase": float64, "delta": float64}.
func (p *PhaseOptimizer) Call(_ context.Context, args map[string]any) (map[string]any, error) {
	phase := Float(args, "phase", 0.0)
	grad, ok := args["gradient"]
	if !ok {
		return nil, NewError(p.Name(), "gradient is required")
	}
	g := Float(map[string]any{"g": grad}, "g", 0.0)

	start := phase
	lr := p.LearningRate
	for i := 0; i < p.Iterations; i++ {
		phase -= lr * g
		lr *= 0.8
	}
	phase = wrapPhase(phase)

	return map[string]any{
		"phase": phase,
		"delta": phase - start,
	}, nil
}

func wrapPhase(phase float64) float64 {
	for phase > math.Pi {
		phase -= 2 * math.Pi
	}
	for phase < -math.Pi {
		phase += 2 * math.Pi
	}
	return phase
}
