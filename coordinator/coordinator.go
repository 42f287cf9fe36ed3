package coordinator

import (
	"context"
	"sync"

	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/logging"
	"github.com/acpkit/netmesh/registry"
)

// Options configures a Coordinator.
type Options struct {
	// Policy ranks collected results. Defaults to MaxUtility.
	Policy SelectionPolicy

	// Defaults maps agent id to the hold action dispatched when the agent
	// is not committed this step. Agents without an entry (and with no
	// DefaultAction fallback) abstain.
	Defaults map[string]core.Action

	// DefaultAction, when non-nil, is the hold action for every
	// non-committed agent missing from Defaults.
	DefaultAction core.Action

	// Workers bounds parallel propose collection. Values <= 1 collect
	// sequentially. Parallelism never affects ranking: results land in
	// their registry-order slots before the policy runs.
	Workers int

	// Logger records proposal failures. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Coordinator solicits proposals from every registered agent, ranks them, and
// builds the committed plan for the step. It never mutates agent-internal
// state; it only reads proposals.
type Coordinator struct {
	reg  *registry.Registry
	opts Options
}

// New creates a coordinator over the registry's agent roster.
func New(reg *registry.Registry, optFns ...func(o *Options)) *Coordinator {
	opts := Options{
		Policy: MaxUtility{},
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Coordinator{reg: reg, opts: opts}
}

// Agents returns the roster in registry enumeration order.
func (c *Coordinator) Agents() []core.Agent { return c.reg.Agents() }

// Step collects proposals against the merged observation and returns the
// committed plan. A proposal failure excludes that agent from ranking for
// this step only; a step with zero successful proposals yields an
// all-default plan, never an error.
func (c *Coordinator) Step(ctx context.Context, step int, observations map[string]core.Observation) core.Plan {
	agents := c.reg.Agents()
	results := c.collect(ctx, step, agents, observations)

	winner := c.opts.Policy.Select(results)

	plan := core.Plan{
		Actions:   make(map[string]core.Action),
		Telemetry: make(map[string]any),
	}

	utilities := make(map[string]float64, len(results))
	var failures []string
	for _, r := range results {
		if !r.OK() {
			failures = append(failures, r.AgentID)
			continue
		}
		utilities[r.AgentID] = r.Proposal.Utility
	}

	if winner >= 0 {
		committed := results[winner]
		plan.Committed = []string{committed.AgentID}
		plan.Actions[committed.AgentID] = committed.Proposal.Action
		plan.Telemetry["selected"] = map[string]any{
			"agent":   committed.AgentID,
			"utility": committed.Proposal.Utility,
		}
	}
	plan.Telemetry["utilities"] = utilities
	if len(failures) > 0 {
		plan.Telemetry["failed"] = failures
	}

	// Non-committed agents receive their configured hold action so
	// delegates that require an entry for them still get one.
	for _, a := range agents {
		if _, ok := plan.Actions[a.ID()]; ok {
			continue
		}
		if def, ok := c.opts.Defaults[a.ID()]; ok {
			plan.Actions[a.ID()] = def
		} else if c.opts.DefaultAction != nil {
			plan.Actions[a.ID()] = c.opts.DefaultAction
		}
	}

	return plan
}

// collect gathers one result per agent into a registry-order sequence.
func (c *Coordinator) collect(ctx context.Context, step int, agents []core.Agent, observations map[string]core.Observation) []Result {
	results := make([]Result, len(agents))

	workers := c.opts.Workers
	if workers <= 1 || len(agents) <= 1 {
		for i, a := range agents {
			results[i] = c.propose(ctx, step, a, observations[a.ID()])
		}
		return results
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, a := range agents {
		wg.Add(1)
		go func(i int, a core.Agent) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = c.propose(ctx, step, a, observations[a.ID()])
		}(i, a)
	}
	wg.Wait()
	return results
}

func (c *Coordinator) propose(ctx context.Context, step int, a core.Agent, obs core.Observation) Result {
	p, err := a.Propose(ctx, obs)
	if err != nil {
		perr := &core.ProposalError{AgentID: a.ID(), Step: step, Cause: err}
		c.opts.Logger.Warn("proposal failed", "agent_id", a.ID(), "step", step, "error", err.Error())
		return Result{AgentID: a.ID(), Err: perr}
	}
	if p.AgentID == "" {
		p.AgentID = a.ID()
	}
	c.opts.Logger.Debug("proposal collected", "agent_id", a.ID(), "step", step, "utility", p.Utility)
	return Result{AgentID: a.ID(), Proposal: p}
}
