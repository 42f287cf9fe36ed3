package env

import (
	"time"

	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/model"
)

// Constructor builds a concrete simulator from keyword arguments. Environment
// references registered in the capability registry must resolve to a
// Constructor; resolution caches the constructor, not the instance, so two
// delegates may share a reference without sharing simulator state.
type Constructor func(args map[string]any) (core.Environment, error)

// Spec describes one delegate: which simulator to build, which agents it
// serves, and its model overrides. Created at configuration load, consumed
// once by NewDelegate, never mutated afterward.
type Spec struct {
	// Name identifies the delegate in merged info payloads and errors.
	Name string

	// Reference names the environment constructor in the registry.
	Reference string

	// AgentIDs lists the agents whose actions this delegate consumes.
	// Agent id sets must be disjoint across the delegates of a composite.
	AgentIDs []string

	// Args are keyword constructor arguments forwarded to the simulator.
	Args map[string]any

	// Seed seeds the simulator on reset; zero leaves it unseeded.
	Seed int64

	// Fading holds per-channel fading overrides, keyed by Spec.Target.
	// Later entries with the same target replace earlier ones (last-wins).
	Fading []model.Spec

	// Mobility holds per-agent mobility overrides, same replacement rule.
	Mobility []model.Spec

	// StepTimeout, when positive, bounds each wrapped step call. An overrun
	// surfaces as DelegateTimeoutError and aborts the run.
	StepTimeout time.Duration
}
