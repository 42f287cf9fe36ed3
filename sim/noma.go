package sim

import (
	"context"
	"math"

	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/model"
)

// NOMA simulates a two-user downlink cell with power-domain multiplexing and
// successive interference cancellation. The far user decodes its signal while
// treating the near user's share as interference; the near user cancels the
// far signal first and decodes against noise alone.
type NOMA struct {
	base
	agentID       string
	txPowerDBm    float64
	noiseFloorDBm float64
	freqHz        float64
	nearDistM     float64
	farDistM      float64
	nearShare     float64
	farShare      float64
}

// NewNOMA constructs the downlink NOMA simulator. Recognized args:
//
//	agent_id     string  controlling agent id (default "agent.noma")
//	max_steps    int     episode horizon (default 240)
//	near_dist_m, far_dist_m, tx_power_dbm, noise_floor_dbm, carrier_freq_hz
func NewNOMA(args map[string]any) (core.Environment, error) {
	maxSteps := intArg(args, "max_steps", 240)
	if maxSteps <= 0 {
		return nil, &core.ConfigurationError{Field: "max_steps", Reason: "must be > 0"}
	}
	near := floatArg(args, "near_dist_m", 40.0)
	far := floatArg(args, "far_dist_m", 180.0)
	if near <= 0 || far <= near {
		return nil, &core.ConfigurationError{Field: "far_dist_m", Reason: "must exceed near_dist_m > 0"}
	}
	return &NOMA{
		base:          newBase(maxSteps),
		agentID:       strArg(args, "agent_id", "agent.noma"),
		txPowerDBm:    floatArg(args, "tx_power_dbm", 40.0),
		noiseFloorDBm: floatArg(args, "noise_floor_dbm", -94.0),
		freqHz:        floatArg(args, "carrier_freq_hz", 2.6e9),
		nearDistM:     near,
		farDistM:      far,
	}, nil
}

// Reset implements core.Environment.
func (s *NOMA) Reset(seed int64) (core.Transition, error) {
	s.seed(seed)
	// Conventional split: the weaker channel takes the larger share.
	s.nearShare = 0.2
	s.farShare = 0.8

	if _, ok := s.fading["noma.near"]; !ok {
		m, err := model.NewRician(map[string]float64{"seed": float64(seed + 1)})
		if err != nil {
			return core.Transition{}, err
		}
		s.fading["noma.near"] = m
	}
	if _, ok := s.fading["noma.far"]; !ok {
		m, err := model.NewNakagami(map[string]float64{"m_factor": 1.5, "omega": 1.0, "seed": float64(seed + 2)})
		if err != nil {
			return core.Transition{}, err
		}
		s.fading["noma.far"] = m
	}
	return s.transition(false), nil
}

// Step implements core.Environment. The controlling agent's action may carry
// a "noma_resource_plan" payload with "allocation": [near, far] shares that
// sum to at most 1.
func (s *NOMA) Step(_ context.Context, actions map[string]core.Action) (core.Transition, error) {
	if act, ok := actions[s.agentID]; ok {
		if plan, ok := act["noma_resource_plan"].(map[string]any); ok {
			s.applyAllocation(plan)
		}
	}
	done := s.tick()
	return s.transition(done), nil
}

func (s *NOMA) applyAllocation(plan map[string]any) {
	alloc := floats(plan["allocation"])
	if len(alloc) != 2 || alloc[0] < 0 || alloc[1] < 0 {
		return
	}
	total := alloc[0] + alloc[1]
	if total <= 0 {
		return
	}
	s.nearShare = alloc[0] / total
	s.farShare = alloc[1] / total
}

func (s *NOMA) transition(done bool) core.Transition {
	budget := math.Pow(10.0, s.txPowerDBm/10.0) / 1000.0 // watts
	noise := math.Pow(10.0, s.noiseFloorDBm/10.0) / 1000.0

	nearGain := s.linearGain("noma.near", s.nearDistM)
	farGain := s.linearGain("noma.far", s.farDistM)

	// SIC order: far decodes against the near user's share, near decodes
	// clean after cancellation.
	farSINR := s.farShare * budget * farGain / (s.nearShare*budget*farGain + noise)
	nearSINR := s.nearShare * budget * nearGain / noise

	nearRate := math.Log2(1.0 + nearSINR)
	farRate := math.Log2(1.0 + farSINR)

	obs := core.Observation{
		"channel_gains_db": []float64{10.0 * math.Log10(nearGain), 10.0 * math.Log10(farGain)},
		"allocation":       []float64{s.nearShare, s.farShare},
		"near_rate":        nearRate,
		"far_rate":         farRate,
		"sum_rate":         nearRate + farRate,
	}
	return core.Transition{
		Observations: map[string]core.Observation{s.agentID: obs},
		Rewards:      map[string]float64{s.agentID: nearRate + farRate},
		Done:         done,
		Info: map[string]any{
			"step":     s.steps,
			"far_rate": farRate,
		},
	}
}

func (s *NOMA) linearGain(channelID string, distM float64) float64 {
	link := core.LinkState{TimeIndex: s.steps, DistanceM: distM}
	gainDB := -freeSpacePathlossDB(distM, s.freqHz) + s.fade(channelID, link)
	return math.Pow(10.0, gainDB/10.0)
}

func floats(v any) []float64 {
	switch vs := v.(type) {
	case []float64:
		return vs
	case []any:
		out := make([]float64, 0, len(vs))
		for _, e := range vs {
			switch n := e.(type) {
			case float64:
				out = append(out, n)
			case int:
				out = append(out, float64(n))
			}
		}
		return out
	default:
		return nil
	}
}
