package tool

import (
	"context"
	"math"
)

// PowerAllocator splits a downlink power budget across NOMA users by inverse
// channel quality: weaker channels receive larger shares so successive
// interference cancellation stays decodable at the far user.
type PowerAllocator struct {
	// MinShare floors every user's fraction so no one starves. Default 0.05.
	MinShare float64
}

// NewPowerAllocator creates an allocator with the default floor.
func NewPowerAllocator() *PowerAllocator {
	return &PowerAllocator{MinShare: 0.05}
}

// Name implements Tool.
func (p *PowerAllocator) Name() string { return "power_allocator" }

// Call expects args:
//
//	channel_gains_db: []float64  per-user channel gains
//	power_budget:     float64    total budget (default 1.0)
//
// and returns {"allocation": []float64, "sum_rate_proxy": float64} where
// allocation sums to power_budget.
func (p *PowerAllocator) Call(_ context.Context, args map[string]any) (map[string]any, error) {
	gains := Floats(args, "channel_gains_db")
	if len(gains) == 0 {
		return nil, NewError(p.Name(), "channel_gains_db is required and must be non-empty")
	}
	budget := Float(args, "power_budget", 1.0)
	if budget <= 0 {
		return nil, NewError(p.Name(), "power_budget must be > 0, got %v", budget)
	}

	// Inverse-linear-gain weighting, floored.
	weights := make([]float64, len(gains))
	var total float64
	for i, g := range gains {
		lin := math.Pow(10.0, g/10.0)
		weights[i] = 1.0 / math.Max(lin, 1e-9)
		total += weights[i]
	}
	alloc := make([]float64, len(gains))
	for i, w := range weights {
		alloc[i] = math.Max(w/total, p.MinShare)
	}
	var sum float64
	for _, a := range alloc {
		sum += a
	}
	proxy := 0.0
	for i, g := range gains {
		alloc[i] = alloc[i] / sum * budget
		lin := math.Pow(10.0, g/10.0)
		proxy += math.Log2(1.0 + alloc[i]*lin)
	}

	return map[string]any{
		"allocation":     alloc,
		"sum_rate_proxy": proxy,
	}, nil
}
