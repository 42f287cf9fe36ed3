package coordinator

import "github.com/acpkit/netmesh/core"

// Result is the outcome of one agent's propose call: either a proposal or
// the failure that excluded the agent from ranking this step. Modeling the
// failure as data keeps exception-style branches out of the ranking policy.
type Result struct {
	AgentID  string
	Proposal core.Proposal
	Err      error
}

// OK reports whether the result carries a usable proposal.
func (r Result) OK() bool { return r.Err == nil }

// SelectionPolicy ranks the per-step result sequence and picks the committed
// entry. Results arrive in registry enumeration order; a deterministic policy
// must produce the same index for the same sequence every time.
type SelectionPolicy interface {
	// Select returns the index of the winning result, or -1 when no result
	// is eligible.
	Select(results []Result) int
}

// MaxUtility is the default policy: commit the successful proposal with the
// highest utility, ties broken by the lower registry enumeration index.
type MaxUtility struct{}

// Select implements SelectionPolicy. Strict comparison keeps the earliest
// index on ties.
func (MaxUtility) Select(results []Result) int {
	best := -1
	for i, r := range results {
		if !r.OK() {
			continue
		}
		if best == -1 || r.Proposal.Utility > results[best].Proposal.Utility {
			best = i
		}
	}
	return best
}
