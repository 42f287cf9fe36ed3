package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/acpkit/netmesh/coordinator"
	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/env"
	"github.com/acpkit/netmesh/history"
	"github.com/acpkit/netmesh/logging"
	"github.com/acpkit/netmesh/telemetry"
)

// Status is the orchestrator state machine: Idle -> Running -> {Completed,
// Aborted}. Per-agent proposal failures never leave Running; only
// construction-time configuration errors, delegate step/timeout failures,
// and cancellation abort a run.
type Status int

const (
	// StatusIdle means no run has started (or Reset was called).
	StatusIdle Status = iota
	// StatusRunning means a run is in flight.
	StatusRunning
	// StatusCompleted means the run finished normally.
	StatusCompleted
	// StatusAborted means the run stopped on an unrecoverable error or
	// cancellation.
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Reason explains why a run completed.
type Reason string

const (
	// ReasonHorizonExhausted: the configured max step count ran out.
	ReasonHorizonExhausted Reason = "horizon-exhausted"
	// ReasonDelegateDone: a delegate finished its episode first.
	ReasonDelegateDone Reason = "delegate-done"
)

// Result is the terminal report of one run. History holds every tick's
// record even when the run aborted partway.
type Result struct {
	RunID   string
	Status  Status
	Reason  Reason
	Steps   int
	History []history.Record
	Err     error
}

// Options configures an Orchestrator.
type Options struct {
	// MaxSteps bounds the run. Required, must be positive.
	MaxSteps int

	// Sink receives exactly one telemetry record per tick. Defaults to an
	// in-memory sink.
	Sink telemetry.Sink

	// History persists run records. Defaults to an in-memory store.
	History history.Store

	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Orchestrator owns RunState for one invocation at a time.
type Orchestrator struct {
	coord *coordinator.Coordinator
	comp  *env.Composite
	opts  Options

	mu     sync.Mutex
	status Status
}

// New creates an orchestrator over a coordinator and a composite
// environment.
func New(coord *coordinator.Coordinator, comp *env.Composite, optFns ...func(o *Options)) (*Orchestrator, error) {
	opts := Options{
		MaxSteps: 0,
		Sink:     telemetry.NewMemorySink(),
		History:  history.NewInMemoryStore(),
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxSteps <= 0 {
		return nil, &core.ConfigurationError{Reason: fmt.Sprintf("max steps must be positive, got %d", opts.MaxSteps)}
	}
	return &Orchestrator{coord: coord, comp: comp, opts: opts, status: StatusIdle}, nil
}

// Status returns the current state machine position.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Reset returns a finished orchestrator to Idle so it can run again.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status == StatusRunning {
		return fmt.Errorf("cannot reset while running")
	}
	o.status = StatusIdle
	return nil
}

func (o *Orchestrator) setStatus(s Status) {
	o.mu.Lock()
	o.status = s
	o.mu.Unlock()
}

// Run executes the coordination loop until a delegate finishes, the horizon
// is exhausted, the context is cancelled at a tick boundary, or an
// unrecoverable delegate error surfaces. The returned Result is always
// non-nil and carries the history accumulated so far; the error mirrors
// Result.Err for Aborted runs.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	o.mu.Lock()
	if o.status != StatusIdle {
		defer o.mu.Unlock()
		return nil, fmt.Errorf("orchestrator is %s, not idle", o.status)
	}
	o.status = StatusRunning
	o.mu.Unlock()

	runID := uuid.NewString()
	log := o.opts.Logger
	log.Info("run starting", "run_id", runID, "max_steps", o.opts.MaxSteps)

	res := &Result{RunID: runID, Status: StatusRunning}

	tr, err := o.comp.Reset()
	if err != nil {
		return o.abort(res, err)
	}

	for step := 0; step < o.opts.MaxSteps; step++ {
		// Tick boundary: the only cancellation point. History so far
		// stays valid and retrievable.
		if err := ctx.Err(); err != nil {
			log.Info("run cancelled", "run_id", runID, "step", step)
			return o.abort(res, err)
		}

		plan := o.coord.Step(ctx, step, tr.Observations)

		next, err := o.comp.Step(ctx, plan.Actions)
		if err != nil {
			return o.abort(res, err)
		}

		rec := history.Record{Step: step, Plan: plan, Transition: next}
		res.History = append(res.History, rec)
		res.Steps = step + 1
		// History lands before telemetry is handed to the external sink.
		if err := o.opts.History.Append(runID, rec); err != nil {
			log.Warn("history append failed", "run_id", runID, "step", step, "error", err.Error())
		}
		if err := o.opts.Sink.Emit(telemetry.Record{
			RunID:        runID,
			StepIndex:    step,
			Plan:         telemetry.Summarize(plan),
			Observations: next.Observations,
			Rewards:      next.Rewards,
			Done:         next.Done,
		}); err != nil {
			log.Warn("telemetry emit failed", "run_id", runID, "step", step, "error", err.Error())
		}

		o.feedback(next)

		tr = next
		if tr.Done {
			res.Status = StatusCompleted
			res.Reason = ReasonDelegateDone
			o.setStatus(StatusCompleted)
			log.Info("run completed", "run_id", runID, "steps", res.Steps, "reason", string(res.Reason))
			return res, nil
		}
	}

	res.Status = StatusCompleted
	res.Reason = ReasonHorizonExhausted
	o.setStatus(StatusCompleted)
	log.Info("run completed", "run_id", runID, "steps", res.Steps, "reason", string(res.Reason))
	return res, nil
}

func (o *Orchestrator) abort(res *Result, err error) (*Result, error) {
	res.Status = StatusAborted
	res.Err = err
	o.setStatus(StatusAborted)
	o.opts.Logger.Error("run aborted", "run_id", res.RunID, "steps", res.Steps, "error", err.Error())
	return res, err
}

// feedback distributes the merged transition to agents that opted in.
func (o *Orchestrator) feedback(tr core.Transition) {
	for _, a := range o.coordAgents() {
		if fr, ok := a.(core.FeedbackReceiver); ok {
			fr.Feedback(tr)
		}
	}
}

func (o *Orchestrator) coordAgents() []core.Agent {
	return o.coord.Agents()
}
