package env

import (
	"context"

	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/logging"
)

// CompositeOptions configures optional composite behavior.
type CompositeOptions struct {
	Logger logging.Logger

	// SkipFailedDelegates switches the delegate step failure policy from
	// the default (fatal) to holding the failed delegate at its last
	// transition for the remainder of the run. The switch is explicit and
	// every skip is logged; there is no silent variant.
	SkipFailedDelegates bool
}

// Composite fans an action bundle out to its delegates and merges their
// transitions into one. It exposes itself as a single simulator: the merged
// observation/reward mappings union per-delegate mappings (agent ids are
// disjoint by construction), info is keyed by delegate name, and done is true
// as soon as any delegate finishes.
type Composite struct {
	delegates []*Delegate
	byAgent   map[string]*Delegate
	opts      CompositeOptions
}

// NewComposite validates the delegates' agent id partition and builds the
// composite. Overlapping agent id sets fail fast with AgentIDCollisionError.
func NewComposite(delegates []*Delegate, optFns ...func(o *CompositeOptions)) (*Composite, error) {
	opts := CompositeOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	byAgent := make(map[string]*Delegate)
	for _, d := range delegates {
		for _, id := range d.AgentIDs() {
			if prev, ok := byAgent[id]; ok {
				return nil, &core.AgentIDCollisionError{
					AgentID:   id,
					Delegates: [2]string{prev.Name(), d.Name()},
				}
			}
			byAgent[id] = d
		}
	}
	return &Composite{delegates: delegates, byAgent: byAgent, opts: opts}, nil
}

// Delegates returns the composite's delegates in partition order.
func (c *Composite) Delegates() []*Delegate { return c.delegates }

// AgentIDs returns the union of all delegate agent ids in partition order.
func (c *Composite) AgentIDs() []string {
	var out []string
	for _, d := range c.delegates {
		out = append(out, d.AgentIDs()...)
	}
	return out
}

// Reset re-initializes every delegate with its own configured seed and
// returns the merged initial transition.
func (c *Composite) Reset() (core.Transition, error) {
	merged := newMerged()
	for _, d := range c.delegates {
		tr, err := d.Reset()
		if err != nil {
			return core.Transition{}, err
		}
		merge(&merged, d.Name(), tr)
	}
	return merged, nil
}

// Step partitions actions by delegate agent ids and advances every delegate
// exactly once, in fixed partition order. Delegates past their episode
// contribute their held transition without being invoked. A delegate with no
// entries for its agents receives an empty action set; the wrapped
// simulator's no-op policy applies.
func (c *Composite) Step(ctx context.Context, actions map[string]core.Action) (core.Transition, error) {
	merged := newMerged()
	for _, d := range c.delegates {
		if d.Done() {
			held := d.Held()
			if d.Failed() {
				// A parked-on-failure delegate must not trip
				// first-done-wins; the surviving delegates keep running.
				held.Done = false
			}
			merge(&merged, d.Name(), held)
			continue
		}
		tr, err := d.Step(ctx, actions)
		if err != nil {
			if !c.opts.SkipFailedDelegates {
				return core.Transition{}, err
			}
			c.opts.Logger.Warn("delegate failed, holding for remainder of run",
				"delegate", d.Name(), "error", err.Error())
			d.state = stateHeld
			d.failed = true
			held := d.Held()
			held.Done = false
			merge(&merged, d.Name(), held)
			continue
		}
		merge(&merged, d.Name(), tr)
	}
	return merged, nil
}

func newMerged() core.Transition {
	return core.Transition{
		Observations: make(map[string]core.Observation),
		Rewards:      make(map[string]float64),
		Info:         make(map[string]any),
	}
}

func merge(dst *core.Transition, delegateName string, tr core.Transition) {
	for id, obs := range tr.Observations {
		dst.Observations[id] = obs
	}
	for id, r := range tr.Rewards {
		dst.Rewards[id] = r
	}
	// Info nests under the delegate name unflattened so delegates can never
	// collide on info keys.
	dst.Info[delegateName] = tr.Info
	if tr.Done {
		dst.Done = true
	}
}
