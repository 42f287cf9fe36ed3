package core

import (
	"fmt"
	"time"
)

// Error taxonomy. Build-time failures (UnknownCapabilityError,
// ResolutionError, InvalidModelParametersError, AgentIDCollisionError,
// ConfigurationError) are fatal and abort before any step runs. ProposalError
// is per-agent and per-step, recorded and skipped. DelegateStepError and
// DelegateTimeoutError surface mid-run and abort by default.

// UnknownCapabilityError reports resolution of a builtin alias that was never
// registered.
type UnknownCapabilityError struct {
	Name string
}

func (e *UnknownCapabilityError) Error() string {
	return fmt.Sprintf("unknown capability %q", e.Name)
}

// ResolutionError reports a qualified reference that could not be located or
// whose constructor failed.
type ResolutionError struct {
	Reference string
	Cause     error
}

func (e *ResolutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resolving %q: %v", e.Reference, e.Cause)
	}
	return fmt.Sprintf("reference %q cannot be located", e.Reference)
}

func (e *ResolutionError) Unwrap() error { return e.Cause }

// InvalidModelParametersError reports a model spec whose parameters are
// missing or outside their domain.
type InvalidModelParametersError struct {
	Model  string
	Param  string
	Reason string
}

func (e *InvalidModelParametersError) Error() string {
	return fmt.Sprintf("model %s: parameter %q %s", e.Model, e.Param, e.Reason)
}

// AgentIDCollisionError reports an agent id claimed by two delegates.
// Per-delegate agent id sets must be disjoint; violated configurations fail
// fast at build time.
type AgentIDCollisionError struct {
	AgentID   string
	Delegates [2]string
}

func (e *AgentIDCollisionError) Error() string {
	return fmt.Sprintf("agent %q claimed by delegates %q and %q",
		e.AgentID, e.Delegates[0], e.Delegates[1])
}

// ConfigurationError wraps any fatal build-time failure that is not covered
// by a more specific type. Field names the offending document field or
// constructor argument when one can be identified.
type ConfigurationError struct {
	Field  string
	Reason string
	Cause  error
}

func (e *ConfigurationError) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("configuration: %s: %v", msg, e.Cause)
	}
	return "configuration: " + msg
}

func (e *ConfigurationError) Unwrap() error { return e.Cause }

// ProposalError records a single agent's propose failure for one step. It is
// logged and the agent is excluded from that step's ranking; the run
// continues.
type ProposalError struct {
	AgentID string
	Step    int
	Cause   error
}

func (e *ProposalError) Error() string {
	return fmt.Sprintf("agent %s propose failed at step %d: %v", e.AgentID, e.Step, e.Cause)
}

func (e *ProposalError) Unwrap() error { return e.Cause }

// DelegateStepError reports a delegate's internal step failure. The default
// policy treats it as fatal because a failed delegate invalidates the merged
// transition's consistency; the composite offers an explicit opt-in skip
// policy instead.
type DelegateStepError struct {
	Delegate string
	Step     int
	Cause    error
}

func (e *DelegateStepError) Error() string {
	return fmt.Sprintf("delegate %s step %d failed: %v", e.Delegate, e.Step, e.Cause)
}

func (e *DelegateStepError) Unwrap() error { return e.Cause }

// DelegateTimeoutError reports a delegate step that overran its configured
// per-call deadline. Fatal, same tier as DelegateStepError.
type DelegateTimeoutError struct {
	Delegate string
	Step     int
	Timeout  time.Duration
}

func (e *DelegateTimeoutError) Error() string {
	return fmt.Sprintf("delegate %s step %d exceeded deadline of %s", e.Delegate, e.Step, e.Timeout)
}
