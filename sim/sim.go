package sim

import (
	"math"
	"math/rand"

	"github.com/acpkit/netmesh/core"
)

// base carries the episode plumbing shared by the builtin simulators: step
// accounting, seeded randomness, and the model slots.
type base struct {
	rng      *rand.Rand
	steps    int
	maxSteps int
	fading   map[string]core.FadingModel
	mobility map[string]core.MobilityModel
}

func newBase(maxSteps int) base {
	return base{
		rng:      rand.New(rand.NewSource(1)),
		maxSteps: maxSteps,
		fading:   make(map[string]core.FadingModel),
		mobility: make(map[string]core.MobilityModel),
	}
}

// SetFadingModel implements core.ModelHost. Last-wins per channel id.
func (b *base) SetFadingModel(channelID string, m core.FadingModel) {
	b.fading[channelID] = m
}

// SetMobilityModel implements core.ModelHost. Last-wins per agent id.
func (b *base) SetMobilityModel(agentID string, m core.MobilityModel) {
	b.mobility[agentID] = m
}

func (b *base) seed(seed int64) {
	if seed != 0 {
		b.rng = rand.New(rand.NewSource(seed))
	}
	b.steps = 0
}

// defaultFading installs m only when no override claimed the channel.
func (b *base) defaultFading(channelID string, m core.FadingModel) {
	if _, ok := b.fading[channelID]; !ok {
		b.fading[channelID] = m
	}
}

func (b *base) defaultMobility(agentID string, m core.MobilityModel) {
	if _, ok := b.mobility[agentID]; !ok {
		b.mobility[agentID] = m
	}
}

// fade samples the channel's model, or contributes nothing when the channel
// has no model bound.
func (b *base) fade(channelID string, link core.LinkState) float64 {
	if m, ok := b.fading[channelID]; ok {
		return m.Sample(link)
	}
	return 0
}

// move advances pos through the agent's mobility model, or holds it.
func (b *base) move(agentID string, pos core.Position, dt float64) core.Position {
	if m, ok := b.mobility[agentID]; ok {
		return m.Advance(pos, dt)
	}
	return pos
}

func (b *base) tick() bool {
	b.steps++
	return b.steps >= b.maxSteps
}

// Keyword argument readers shared by the simulator constructors.

func floatArg(args map[string]any, key string, def float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

func strArg(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

func freeSpacePathlossDB(distanceM, freqHz float64) float64 {
	d := math.Max(distanceM, 1e-3)
	fMHz := freqHz / 1e6
	return 32.44 + 20.0*math.Log10(d/1000.0) + 20.0*math.Log10(fMHz)
}
