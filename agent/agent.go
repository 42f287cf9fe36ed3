package agent

import "github.com/acpkit/netmesh/core"

// Options are shared knobs for the builtin agents.
type Options struct {
	// Weight scales the agent's utility estimate, letting operators bias
	// the coordinator toward one domain. Default 1.0.
	Weight float64
}

func applyOptions(optFns []func(o *Options)) Options {
	opts := Options{Weight: 1.0}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// Observation field readers. Missing or mistyped fields yield the default so
// agents degrade to conservative proposals instead of failing the step.

func obsFloat(obs core.Observation, key string, def float64) float64 {
	switch v := obs[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}

func obsFloats(obs core.Observation, key string) []float64 {
	switch v := obs[key].(type) {
	case []float64:
		return v
	case []any:
		out := make([]float64, 0, len(v))
		for _, e := range v {
			if f, ok := e.(float64); ok {
				out = append(out, f)
			}
		}
		return out
	default:
		return nil
	}
}
