package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/model"
)

// RIS simulates a reflecting-surface corridor: a base station serves several
// users through a tile array whose common phase offset the controlling agent
// steers. The optimal offset drifts as the users move, so standing still
// bleeds SNR.
type RIS struct {
	base
	agentID       string
	userCount     int
	tileCount     int
	txPowerDBm    float64
	noiseFloorDBm float64
	freqHz        float64
	phase         float64
	targetPhase   float64
	users         []core.Position
}

// NewRIS constructs the RIS corridor simulator. Recognized args:
//
//	agent_id    string   controlling agent id (default "agent.ris")
//	user_count  int      served users (default 3)
//	tile_count  int      reflecting tiles (default 64)
//	max_steps   int      episode horizon (default 240)
//	tx_power_dbm, noise_floor_dbm, carrier_freq_hz
func NewRIS(args map[string]any) (core.Environment, error) {
	userCount := intArg(args, "user_count", 3)
	if userCount <= 0 {
		return nil, &core.ConfigurationError{Field: "user_count", Reason: "must be > 0"}
	}
	maxSteps := intArg(args, "max_steps", 240)
	if maxSteps <= 0 {
		return nil, &core.ConfigurationError{Field: "max_steps", Reason: "must be > 0"}
	}
	return &RIS{
		base:          newBase(maxSteps),
		agentID:       strArg(args, "agent_id", "agent.ris"),
		userCount:     userCount,
		tileCount:     intArg(args, "tile_count", 64),
		txPowerDBm:    floatArg(args, "tx_power_dbm", 30.0),
		noiseFloorDBm: floatArg(args, "noise_floor_dbm", -94.0),
		freqHz:        floatArg(args, "carrier_freq_hz", 3.5e9),
	}, nil
}

// Reset implements core.Environment.
func (s *RIS) Reset(seed int64) (core.Transition, error) {
	s.seed(seed)
	s.phase = 0
	s.targetPhase = s.rng.Float64()*math.Pi - math.Pi/2

	s.users = make([]core.Position, s.userCount)
	for i := range s.users {
		s.users[i] = core.Position{X: 20.0 + 15.0*float64(i), Y: s.rng.Float64()*6.0 - 3.0}
		ch := s.userChannel(i)
		if _, ok := s.fading[ch]; !ok {
			m, err := model.NewRician(map[string]float64{"seed": float64(seed + int64(i) + 1)})
			if err != nil {
				return core.Transition{}, err
			}
			s.fading[ch] = m
		}
		if _, ok := s.mobility[s.userID(i)]; !ok {
			m, err := model.NewRandomWalk(map[string]float64{"seed": float64(seed + int64(i) + 101)})
			if err != nil {
				return core.Transition{}, err
			}
			s.mobility[s.userID(i)] = m
		}
	}
	return s.transition(false), nil
}

// Step implements core.Environment. The controlling agent's action may carry
// a "ris_phase_update" payload with the new common phase in radians.
func (s *RIS) Step(_ context.Context, actions map[string]core.Action) (core.Transition, error) {
	if act, ok := actions[s.agentID]; ok {
		if upd, ok := act["ris_phase_update"].(map[string]any); ok {
			s.phase = wrap(floatArg(upd, "phase", s.phase))
		}
	}
	for i := range s.users {
		s.users[i] = s.move(s.userID(i), s.users[i], 1.0)
	}
	// The beneficial offset wanders slowly with the scatter geometry.
	s.targetPhase = wrap(s.targetPhase + (s.rng.Float64()-0.5)*0.1)

	done := s.tick()
	return s.transition(done), nil
}

func (s *RIS) transition(done bool) core.Transition {
	snrs := make([]float64, s.userCount)
	var sum, min float64
	min = math.Inf(1)
	for i := range s.users {
		d := math.Hypot(s.users[i].X, s.users[i].Y)
		link := core.LinkState{TimeIndex: s.steps, SNRdB: 0, DistanceM: d}
		snr := s.txPowerDBm - freeSpacePathlossDB(d, s.freqHz) - s.noiseFloorDBm +
			s.arrayGainDB() + s.fade(s.userChannel(i), link)
		snrs[i] = snr
		sum += snr
		if snr < min {
			min = snr
		}
	}
	mean := sum / float64(s.userCount)

	obs := core.Observation{
		"phase":          s.phase,
		"mean_snr_db":    mean,
		"min_snr_db":     min,
		"user_snr_db":    snrs,
		"phase_gradient": math.Sin(s.phase - s.targetPhase),
	}
	return core.Transition{
		Observations: map[string]core.Observation{s.agentID: obs},
		Rewards:      map[string]float64{s.agentID: mean / 30.0},
		Done:         done,
		Info: map[string]any{
			"step":         s.steps,
			"target_phase": s.targetPhase,
		},
	}
}

// arrayGainDB degrades from the full aperture gain as the commanded phase
// departs from the geometry's optimum.
func (s *RIS) arrayGainDB() float64 {
	align := math.Abs(math.Cos((s.phase - s.targetPhase) / 2.0))
	return 20.0 * math.Log10(float64(s.tileCount)*math.Max(align, 1e-3))
}

func (s *RIS) userID(i int) string      { return fmt.Sprintf("user_%d", i) }
func (s *RIS) userChannel(i int) string { return fmt.Sprintf("ris.user_%d", i) }

func wrap(phase float64) float64 {
	for phase > math.Pi {
		phase -= 2 * math.Pi
	}
	for phase < -math.Pi {
		phase += 2 * math.Pi
	}
	return phase
}
