package sim

import (
	"context"
	"math"

	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/model"
)

// V2I simulates a vehicle driving past a roadside unit on a highway segment.
// The controlling agent trades transmit power against battery drain while the
// link geometry changes every step.
type V2I struct {
	base
	agentID       string
	speedMPS      float64
	segmentM      float64
	noiseFloorDBm float64
	freqHz        float64
	powerCost     float64
	txPowerDBm    float64
	vehicle       core.Position
}

// NewV2I constructs the highway V2I simulator. Recognized args:
//
//	agent_id   string   controlling agent id (default "agent.v2i")
//	max_steps  int      episode horizon (default 240)
//	speed_mps  float64  nominal vehicle speed (default 27.8, ~100 km/h)
//	segment_m  float64  distance from entry to the roadside unit (default 500)
//	noise_floor_dbm, carrier_freq_hz, power_cost
func NewV2I(args map[string]any) (core.Environment, error) {
	maxSteps := intArg(args, "max_steps", 240)
	if maxSteps <= 0 {
		return nil, &core.ConfigurationError{Field: "max_steps", Reason: "must be > 0"}
	}
	speed := floatArg(args, "speed_mps", 27.8)
	if speed <= 0 {
		return nil, &core.ConfigurationError{Field: "speed_mps", Reason: "must be > 0"}
	}
	return &V2I{
		base:          newBase(maxSteps),
		agentID:       strArg(args, "agent_id", "agent.v2i"),
		speedMPS:      speed,
		segmentM:      floatArg(args, "segment_m", 500.0),
		noiseFloorDBm: floatArg(args, "noise_floor_dbm", -92.0),
		freqHz:        floatArg(args, "carrier_freq_hz", 5.9e9),
		powerCost:     floatArg(args, "power_cost", 0.02),
	}, nil
}

// Reset implements core.Environment.
func (s *V2I) Reset(seed int64) (core.Transition, error) {
	s.seed(seed)
	s.txPowerDBm = 23.0
	s.vehicle = core.Position{X: -s.segmentM, Y: 5.0}

	if _, ok := s.fading["v2i.link"]; !ok {
		m, err := model.NewRayleigh(map[string]float64{"seed": float64(seed + 1)})
		if err != nil {
			return core.Transition{}, err
		}
		s.fading["v2i.link"] = m
	}
	if _, ok := s.mobility[s.agentID]; !ok {
		m, err := model.NewRandomWalk(map[string]float64{"step_size": 1.5, "seed": float64(seed + 2)})
		if err != nil {
			return core.Transition{}, err
		}
		s.mobility[s.agentID] = m
	}
	return s.transition(false), nil
}

// Step implements core.Environment. The controlling agent's action may carry
// a "v2i_power_control" payload with "tx_power_dbm" clamped to [0, 33].
func (s *V2I) Step(_ context.Context, actions map[string]core.Action) (core.Transition, error) {
	if act, ok := actions[s.agentID]; ok {
		if ctl, ok := act["v2i_power_control"].(map[string]any); ok {
			s.txPowerDBm = clamp(floatArg(ctl, "tx_power_dbm", s.txPowerDBm), 0.0, 33.0)
		}
	}
	// Forward motion plus lateral jitter from the mobility model.
	s.vehicle.X += s.speedMPS
	s.vehicle = s.move(s.agentID, s.vehicle, 1.0)

	done := s.tick()
	return s.transition(done), nil
}

func (s *V2I) transition(done bool) core.Transition {
	d := math.Hypot(s.vehicle.X, s.vehicle.Y)
	link := core.LinkState{TimeIndex: s.steps, DistanceM: d}
	snr := s.txPowerDBm - freeSpacePathlossDB(d, s.freqHz) - s.noiseFloorDBm + s.fade("v2i.link", link)
	throughput := math.Log2(1.0 + math.Pow(10.0, snr/10.0))
	reward := throughput - s.powerCost*s.txPowerDBm

	obs := core.Observation{
		"tx_power_dbm": s.txPowerDBm,
		"snr_db":       snr,
		"distance_m":   d,
		"throughput":   throughput,
	}
	return core.Transition{
		Observations: map[string]core.Observation{s.agentID: obs},
		Rewards:      map[string]float64{s.agentID: reward},
		Done:         done,
		Info: map[string]any{
			"step":       s.steps,
			"vehicle_x":  s.vehicle.X,
			"distance_m": d,
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
