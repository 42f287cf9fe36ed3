package model

import (
	"math"
	"math/rand"
	"time"

	"github.com/acpkit/netmesh/core"
)

// Builtin alias names.
const (
	AliasRician     = "rician"
	AliasRayleigh   = "rayleigh"
	AliasNakagami   = "nakagami"
	AliasRandomWalk = "random_walk"
)

func newRNG(params map[string]float64) *rand.Rand {
	if seed, ok := params["seed"]; ok {
		return rand.New(rand.NewSource(int64(seed)))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func param(params map[string]float64, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		return v
	}
	return def
}

// Rician models LOS-heavy propagation: a deterministic line-of-sight
// component scaled by the K factor plus a Gaussian scatter term.
type Rician struct {
	k     float64
	sigma float64
	rng   *rand.Rand
}

// NewRician builds a Rician model. Parameters: k_factor (>= 0, default 5),
// sigma (> 0, default 2), seed.
func NewRician(params map[string]float64) (*Rician, error) {
	k := param(params, "k_factor", 5.0)
	if k < 0 {
		return nil, &core.InvalidModelParametersError{Model: AliasRician, Param: "k_factor", Reason: "must be >= 0"}
	}
	sigma := param(params, "sigma", 2.0)
	if sigma <= 0 {
		return nil, &core.InvalidModelParametersError{Model: AliasRician, Param: "sigma", Reason: "must be > 0"}
	}
	return &Rician{k: k, sigma: sigma, rng: newRNG(params)}, nil
}

// Sample returns the dB gain contribution for one draw.
func (m *Rician) Sample(core.LinkState) float64 {
	los := math.Sqrt(m.k / (m.k + 1.0))
	nlos := math.Sqrt(1.0/(m.k+1.0)) * m.rng.NormFloat64() * m.sigma
	return los + nlos
}

// Rayleigh models rich-scattering NLoS channels as zero-mean Gaussian dB
// perturbation.
type Rayleigh struct {
	sigma float64
	rng   *rand.Rand
}

// NewRayleigh builds a Rayleigh model. Parameters: sigma (> 0, default 6),
// seed.
func NewRayleigh(params map[string]float64) (*Rayleigh, error) {
	sigma := param(params, "sigma", 6.0)
	if sigma <= 0 {
		return nil, &core.InvalidModelParametersError{Model: AliasRayleigh, Param: "sigma", Reason: "must be > 0"}
	}
	return &Rayleigh{sigma: sigma, rng: newRNG(params)}, nil
}

// Sample returns the dB gain contribution for one draw.
func (m *Rayleigh) Sample(core.LinkState) float64 {
	return m.rng.NormFloat64() * m.sigma
}

// Nakagami models generalized multipath settings; power gain follows a gamma
// distribution with shape m and scale omega/m, converted to a dB impact.
type Nakagami struct {
	m     float64
	omega float64
	rng   *rand.Rand
}

// NewNakagami builds a Nakagami-m model. Required parameters: m_factor (> 0)
// and omega (> 0). Optional: seed.
func NewNakagami(params map[string]float64) (*Nakagami, error) {
	m, ok := params["m_factor"]
	if !ok {
		return nil, &core.InvalidModelParametersError{Model: AliasNakagami, Param: "m_factor", Reason: "is required"}
	}
	if m <= 0 {
		return nil, &core.InvalidModelParametersError{Model: AliasNakagami, Param: "m_factor", Reason: "must be > 0"}
	}
	omega, ok := params["omega"]
	if !ok {
		return nil, &core.InvalidModelParametersError{Model: AliasNakagami, Param: "omega", Reason: "is required"}
	}
	if omega <= 0 {
		return nil, &core.InvalidModelParametersError{Model: AliasNakagami, Param: "omega", Reason: "must be > 0"}
	}
	return &Nakagami{m: m, omega: omega, rng: newRNG(params)}, nil
}

// Sample returns the dB gain contribution for one draw.
func (n *Nakagami) Sample(core.LinkState) float64 {
	gain := gammaVariate(n.rng, n.m, n.omega/n.m)
	return 10.0 * math.Log10(math.Max(gain, 1e-9))
}

// gammaVariate draws from Gamma(shape, scale) using Marsaglia-Tsang, with the
// standard boost for shape < 1.
func gammaVariate(rng *rand.Rand, shape, scale float64) float64 {
	if shape < 1.0 {
		u := rng.Float64()
		return gammaVariate(rng, shape+1.0, scale) * math.Pow(u, 1.0/shape)
	}
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		x := rng.NormFloat64()
		v := 1.0 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1.0-0.0331*x*x*x*x {
			return d * v * scale
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

// RandomWalk perturbs a position by a uniform step in the XY plane.
type RandomWalk struct {
	step float64
	rng  *rand.Rand
}

// NewRandomWalk builds a random walk mobility model. Parameters: step_size
// (> 0, default 0.5) in meters per second, seed.
func NewRandomWalk(params map[string]float64) (*RandomWalk, error) {
	step := param(params, "step_size", 0.5)
	if step <= 0 {
		return nil, &core.InvalidModelParametersError{Model: AliasRandomWalk, Param: "step_size", Reason: "must be > 0"}
	}
	return &RandomWalk{step: step, rng: newRNG(params)}, nil
}

// Advance returns the position after dt seconds of drift.
func (m *RandomWalk) Advance(pos core.Position, dt float64) core.Position {
	pos.X += m.rng.Float64()*2.0*m.step*dt - m.step*dt
	pos.Y += m.rng.Float64()*2.0*m.step*dt - m.step*dt
	return pos
}
