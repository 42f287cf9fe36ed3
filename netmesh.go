// Package netmesh provides a high-level façade over the coordination engine:
// capability registry, delegate environments, coordinator, and orchestrator.
// Most applications interact with this package by:
//  1. Creating a NetMesh via New() (builtin simulators and solver tools are
//     pre-registered)
//  2. Registering custom environments, models, or agents as needed
//  3. Building an orchestrator from a config document and calling Run
//
// All defaults are safe for local development: telemetry stays in memory and
// logging is disabled unless the config asks otherwise.
package netmesh

import (
	"fmt"
	"os"

	"github.com/acpkit/netmesh/agent"
	"github.com/acpkit/netmesh/config"
	"github.com/acpkit/netmesh/coordinator"
	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/env"
	"github.com/acpkit/netmesh/kb"
	"github.com/acpkit/netmesh/llm"
	"github.com/acpkit/netmesh/logging"
	"github.com/acpkit/netmesh/model"
	"github.com/acpkit/netmesh/orchestrator"
	"github.com/acpkit/netmesh/registry"
	"github.com/acpkit/netmesh/sim"
	"github.com/acpkit/netmesh/telemetry"
	"github.com/acpkit/netmesh/tool"
)

// Options configures the NetMesh instance.
type Options struct {
	// Logger overrides the config document's logging block entirely.
	Logger logging.Logger

	// Reasoner backs agents declared with kind "reasoner". Required only
	// when the config uses that kind.
	Reasoner llm.Reasoner

	// Knowledge is handed to reasoner agents for prompt grounding.
	Knowledge *kb.Store

	// SkipFailedDelegates switches the composite from fail-fast to parking
	// failed delegates at their last transition.
	SkipFailedDelegates bool
}

// NetMesh is the façade aggregating the capability registry and the builders
// that turn a config document into a runnable orchestrator.
type NetMesh struct {
	opts Options
	reg  *registry.Registry
}

// New creates a NetMesh with the builtin simulators ("ris", "noma", "v2i")
// and solver tools pre-registered.
func New(optFns ...func(o *Options)) *NetMesh {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	m := &NetMesh{opts: opts, reg: registry.New()}
	m.RegisterEnvironment("ris", sim.NewRIS)
	m.RegisterEnvironment("noma", sim.NewNOMA)
	m.RegisterEnvironment("v2i", sim.NewV2I)
	m.RegisterTool(tool.NewPowerAllocator())
	m.RegisterTool(tool.NewPhaseOptimizer())
	return m
}

// Registry exposes the capability registry for advanced wiring.
func (m *NetMesh) Registry() *registry.Registry { return m.reg }

// RegisterEnvironment makes a simulator constructor resolvable by name.
func (m *NetMesh) RegisterEnvironment(name string, ctor env.Constructor) {
	m.reg.Register(name, func(*registry.BuildContext) (any, error) {
		return ctor, nil
	})
}

// RegisterModel makes a fading/mobility model constructor resolvable by name.
func (m *NetMesh) RegisterModel(name string, ctor model.Constructor) {
	m.reg.Register(name, func(*registry.BuildContext) (any, error) {
		return ctor, nil
	})
}

// RegisterTool makes a solver tool resolvable by its own name.
func (m *NetMesh) RegisterTool(t tool.Tool) {
	m.reg.Register(t.Name(), func(*registry.BuildContext) (any, error) {
		return t, nil
	})
}

// RegisterAgent adds an agent to the coordination roster directly, bypassing
// the config document's roster block.
func (m *NetMesh) RegisterAgent(a core.Agent) { m.reg.RegisterAgent(a) }

// BuildFromConfig turns a validated document into a ready-to-run
// orchestrator. All build failures are fatal and surface before any step.
func (m *NetMesh) BuildFromConfig(doc *config.Document) (*orchestrator.Orchestrator, error) {
	logger := m.logger(doc)

	for _, a := range doc.Agents {
		built, err := m.buildAgent(a)
		if err != nil {
			return nil, err
		}
		m.reg.RegisterAgent(built)
	}

	build := m.reg.NewBuildContext()
	specs := doc.EnvSpecs()
	delegates := make([]*env.Delegate, 0, len(specs))
	for _, spec := range specs {
		d, err := env.NewDelegate(spec, build, func(o *env.DelegateOptions) {
			o.Logger = logger
		})
		if err != nil {
			return nil, err
		}
		delegates = append(delegates, d)
	}

	comp, err := env.NewComposite(delegates, func(o *env.CompositeOptions) {
		o.Logger = logger
		o.SkipFailedDelegates = m.opts.SkipFailedDelegates
	})
	if err != nil {
		return nil, err
	}

	coord := coordinator.New(m.reg, func(o *coordinator.Options) {
		o.Workers = doc.Coordinator.Workers
		o.Defaults = doc.DefaultActions()
		o.Logger = logger
	})

	return orchestrator.New(coord, comp, func(o *orchestrator.Options) {
		o.MaxSteps = doc.MaxSteps
		o.Sink = m.sink(doc)
		o.Logger = logger
	})
}

func (m *NetMesh) buildAgent(a config.Agent) (core.Agent, error) {
	weight := a.Weight
	if weight == 0 {
		weight = 1.0
	}
	withWeight := func(o *agent.Options) { o.Weight = weight }

	switch a.Kind {
	case "ris":
		return agent.NewRIS(a.ID, withWeight), nil
	case "noma":
		return agent.NewNOMA(a.ID, withWeight), nil
	case "v2i":
		return agent.NewV2I(a.ID, withWeight), nil
	case "reasoner":
		if m.opts.Reasoner == nil {
			return nil, &core.ConfigurationError{
				Field:  "agents",
				Reason: fmt.Sprintf("agent %q has kind reasoner but no Reasoner was supplied", a.ID),
			}
		}
		return agent.NewReasoner(a.ID, m.opts.Reasoner, func(o *agent.ReasonerOptions) {
			o.Weight = weight
			o.Knowledge = m.opts.Knowledge
		}), nil
	default:
		// Qualified kinds resolve through the registry and must produce a
		// core.Agent directly.
		v, err := m.reg.NewBuildContext().Resolve(a.Kind)
		if err != nil {
			return nil, err
		}
		built, ok := v.(core.Agent)
		if !ok {
			return nil, &core.ConfigurationError{
				Field:  "agents",
				Reason: fmt.Sprintf("agent kind %q resolved to %T, not a core.Agent", a.Kind, v),
			}
		}
		return built, nil
	}
}

func (m *NetMesh) logger(doc *config.Document) logging.Logger {
	if m.opts.Logger != nil {
		return m.opts.Logger
	}
	if doc.Logging.Level == "" && doc.Logging.Format == "" {
		return logging.NoOpLogger{}
	}
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(doc.Logging.Level),
		Format: doc.Logging.Format,
		Output: os.Stderr,
	})
}

func (m *NetMesh) sink(doc *config.Document) telemetry.Sink {
	if doc.Telemetry.Path == "" {
		return telemetry.NewMemorySink()
	}
	return telemetry.NewJSONLSink(doc.Telemetry.Path, func(o *telemetry.JSONLOptions) {
		if doc.Telemetry.MaxSizeMB > 0 {
			o.MaxSizeMB = doc.Telemetry.MaxSizeMB
		}
		if doc.Telemetry.MaxBackups > 0 {
			o.MaxBackups = doc.Telemetry.MaxBackups
		}
	})
}
