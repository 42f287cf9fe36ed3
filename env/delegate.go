package env

import (
	"context"
	"fmt"
	"time"

	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/logging"
	"github.com/acpkit/netmesh/model"
	"github.com/acpkit/netmesh/registry"
)

// lifecycle is the per-delegate episode state machine. The split between
// stateDone (just finished) and stateHeld (finished and at least once asked
// to step again) keeps the stale-hold path observable in tests.
type lifecycle int

const (
	stateActive lifecycle = iota
	stateDone
	stateHeld
)

func (s lifecycle) String() string {
	switch s {
	case stateActive:
		return "active"
	case stateDone:
		return "done"
	case stateHeld:
		return "held"
	default:
		return "unknown"
	}
}

// DelegateOptions configures optional delegate behavior.
type DelegateOptions struct {
	Logger logging.Logger
}

// Delegate wraps one concrete simulator behind the uniform step contract. It
// adds no reordering, only the envelope, the local done short-circuit, and
// the optional per-call deadline.
type Delegate struct {
	spec   Spec
	sim    core.Environment
	state  lifecycle
	failed bool
	last   core.Transition
	steps  int
	logger logging.Logger
}

// NewDelegate builds the wrapped simulator from spec: the reference is
// resolved through the build context, the constructor is invoked with the
// spec's arguments, and resolved fading/mobility overrides are injected into
// the simulator's model slots. All failures here are build-time fatal.
func NewDelegate(spec Spec, build *registry.BuildContext, optFns ...func(o *DelegateOptions)) (*Delegate, error) {
	opts := DelegateOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	v, err := build.Resolve(spec.Reference)
	if err != nil {
		return nil, &core.ConfigurationError{Reason: fmt.Sprintf("delegate %q", spec.Name), Cause: err}
	}
	ctor, ok := v.(Constructor)
	if !ok {
		return nil, &core.ConfigurationError{
			Reason: fmt.Sprintf("delegate %q: reference %q resolved to %T, not an env.Constructor", spec.Name, spec.Reference, v),
		}
	}
	sim, err := ctor(spec.Args)
	if err != nil {
		return nil, &core.ConfigurationError{Reason: fmt.Sprintf("delegate %q: constructing simulator", spec.Name), Cause: err}
	}

	if err := injectModels(spec, sim, model.NewResolver(build)); err != nil {
		return nil, err
	}

	return &Delegate{spec: spec, sim: sim, logger: opts.Logger}, nil
}

// injectModels resolves the spec's overrides and installs them. Entries are
// deduplicated by target first (last-wins) so a replaced override is never
// even constructed.
func injectModels(spec Spec, sim core.Environment, resolver *model.Resolver) error {
	if len(spec.Fading) == 0 && len(spec.Mobility) == 0 {
		return nil
	}
	host, ok := sim.(core.ModelHost)
	if !ok {
		return &core.ConfigurationError{
			Reason: fmt.Sprintf("delegate %q: simulator %T declares model overrides but has no model slots", spec.Name, sim),
		}
	}
	for _, ms := range lastWins(spec.Fading) {
		m, err := resolver.Fading(ms)
		if err != nil {
			return &core.ConfigurationError{Reason: fmt.Sprintf("delegate %q: fading model for %q", spec.Name, ms.Target), Cause: err}
		}
		host.SetFadingModel(ms.Target, m)
	}
	for _, ms := range lastWins(spec.Mobility) {
		m, err := resolver.Mobility(ms)
		if err != nil {
			return &core.ConfigurationError{Reason: fmt.Sprintf("delegate %q: mobility model for %q", spec.Name, ms.Target), Cause: err}
		}
		host.SetMobilityModel(ms.Target, m)
	}
	return nil
}

func lastWins(specs []model.Spec) []model.Spec {
	byTarget := make(map[string]int, len(specs))
	var out []model.Spec
	for _, s := range specs {
		if i, ok := byTarget[s.Target]; ok {
			out[i] = s
			continue
		}
		byTarget[s.Target] = len(out)
		out = append(out, s)
	}
	return out
}

// Name returns the delegate's configured name.
func (d *Delegate) Name() string { return d.spec.Name }

// AgentIDs returns the agents this delegate serves.
func (d *Delegate) AgentIDs() []string { return d.spec.AgentIDs }

// Done reports whether the wrapped episode has terminated.
func (d *Delegate) Done() bool { return d.state != stateActive }

// Failed reports whether the delegate was parked by the composite's
// skip-failed policy rather than finishing its episode.
func (d *Delegate) Failed() bool { return d.failed }

// Steps returns the number of completed step calls since the last reset.
func (d *Delegate) Steps() int { return d.steps }

// Reset re-initializes the wrapped simulator with the spec's seed and arms
// the lifecycle back to Active.
func (d *Delegate) Reset() (core.Transition, error) {
	tr, err := d.sim.Reset(d.spec.Seed)
	if err != nil {
		return core.Transition{}, &core.ConfigurationError{Reason: fmt.Sprintf("delegate %q: reset", d.spec.Name), Cause: err}
	}
	d.state = stateActive
	d.failed = false
	d.steps = 0
	d.last = tr.Clone()
	return tr, nil
}

// Step advances the wrapped simulator with the actions for this delegate's
// agents. After the episode has terminated, Step returns the last produced
// transition unmodified with done=true and never touches the simulator again
// (stale-hold); this is a policy, not an error.
func (d *Delegate) Step(ctx context.Context, actions map[string]core.Action) (core.Transition, error) {
	if d.state != stateActive {
		d.state = stateHeld
		return d.Held(), nil
	}

	own := make(map[string]core.Action, len(d.spec.AgentIDs))
	for _, id := range d.spec.AgentIDs {
		if a, ok := actions[id]; ok {
			own[id] = a
		}
	}

	start := time.Now()
	tr, err := d.stepSim(ctx, own)
	if err != nil {
		return core.Transition{}, err
	}
	d.logger.Debug("delegate stepped",
		"delegate", d.spec.Name, "step", d.steps, "duration", time.Since(start), "done", tr.Done)

	d.last = tr.Clone()
	d.steps++
	if tr.Done {
		d.state = stateDone
	}
	return tr, nil
}

// stepSim invokes the wrapped simulator, enforcing the optional per-call
// deadline. A delegate step is atomic: on timeout the in-flight call is
// abandoned, not interrupted, and its eventual result is discarded.
func (d *Delegate) stepSim(ctx context.Context, actions map[string]core.Action) (core.Transition, error) {
	if d.spec.StepTimeout <= 0 {
		tr, err := d.sim.Step(ctx, actions)
		if err != nil {
			return core.Transition{}, &core.DelegateStepError{Delegate: d.spec.Name, Step: d.steps, Cause: err}
		}
		return tr, nil
	}

	type result struct {
		tr  core.Transition
		err error
	}
	ch := make(chan result, 1)
	go func() {
		tr, err := d.sim.Step(ctx, actions)
		ch <- result{tr: tr, err: err}
	}()

	timer := time.NewTimer(d.spec.StepTimeout)
	defer timer.Stop()
	select {
	case res := <-ch:
		if res.err != nil {
			return core.Transition{}, &core.DelegateStepError{Delegate: d.spec.Name, Step: d.steps, Cause: res.err}
		}
		return res.tr, nil
	case <-timer.C:
		return core.Transition{}, &core.DelegateTimeoutError{Delegate: d.spec.Name, Step: d.steps, Timeout: d.spec.StepTimeout}
	}
}

// Held returns the stale-hold contribution: the last produced transition,
// cloned, with done forced true.
func (d *Delegate) Held() core.Transition {
	tr := d.last.Clone()
	tr.Done = true
	return tr
}
