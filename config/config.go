package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/acpkit/netmesh/core"
	"github.com/acpkit/netmesh/env"
	"github.com/acpkit/netmesh/model"
)

// Document is the full YAML run description.
type Document struct {
	// MaxSteps is the global horizon. Required, > 0.
	MaxSteps int `yaml:"max_steps"`

	// Seed is the base seed; delegates without their own seed derive from
	// it by position.
	Seed int64 `yaml:"seed"`

	Logging     Logging    `yaml:"logging"`
	Telemetry   Telemetry  `yaml:"telemetry"`
	Coordinator Coord      `yaml:"coordinator"`
	Agents      []Agent    `yaml:"agents"`
	Delegates   []Delegate `yaml:"delegates"`
}

// Logging selects level and format for the run logger.
type Logging struct {
	Level  string `yaml:"level"`  // debug|info|warn|error, default info
	Format string `yaml:"format"` // json|text, default json
}

// Telemetry selects the per-step record sink.
type Telemetry struct {
	// Path of the JSONL output file. Empty keeps telemetry in memory.
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Coord carries coordinator settings.
type Coord struct {
	// Workers bounds concurrent proposal collection. Zero means sequential.
	Workers int `yaml:"workers"`

	// DefaultActions maps agent id to the hold action applied when that
	// agent's proposal is not committed.
	DefaultActions map[string]map[string]any `yaml:"default_actions"`
}

// Agent describes one roster entry.
type Agent struct {
	// ID is the stable agent identifier. Required, unique.
	ID string `yaml:"id"`

	// Kind selects the implementation: a builtin ("ris", "noma", "v2i",
	// "reasoner") or a qualified registry reference.
	Kind string `yaml:"kind"`

	// Weight scales the agent's utility estimates. Default 1.0.
	Weight float64 `yaml:"weight"`
}

// Delegate describes one simulator block.
type Delegate struct {
	Name          string          `yaml:"name"`
	Reference     string          `yaml:"reference"`
	AgentIDs      []string        `yaml:"agent_ids"`
	Args          map[string]any  `yaml:"args"`
	Seed          int64           `yaml:"seed"`
	StepTimeoutMS int             `yaml:"step_timeout_ms"`
	Fading        []ModelOverride `yaml:"fading_models"`
	Mobility      []ModelOverride `yaml:"mobility_models"`
}

// ModelOverride binds a fading or mobility model to a channel or agent.
type ModelOverride struct {
	Target string             `yaml:"target"`
	Kind   string             `yaml:"kind"` // builtin|reference, default builtin
	Name   string             `yaml:"name"`
	Params map[string]float64 `yaml:"params"`
}

// Load reads and validates the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &core.ConfigurationError{Field: "path", Reason: err.Error()}
	}
	return Parse(data)
}

// Parse decodes and validates a YAML document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &core.ConfigurationError{Field: "yaml", Reason: err.Error()}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks structural constraints the engine relies on. It returns the
// first violation as a ConfigurationError.
func (d *Document) Validate() error {
	if d.MaxSteps <= 0 {
		return &core.ConfigurationError{Field: "max_steps", Reason: "must be > 0"}
	}
	if len(d.Delegates) == 0 {
		return &core.ConfigurationError{Field: "delegates", Reason: "at least one delegate is required"}
	}

	seenAgents := map[string]bool{}
	for i, a := range d.Agents {
		if a.ID == "" {
			return &core.ConfigurationError{Field: fmt.Sprintf("agents[%d].id", i), Reason: "must not be empty"}
		}
		if seenAgents[a.ID] {
			return &core.ConfigurationError{Field: fmt.Sprintf("agents[%d].id", i), Reason: fmt.Sprintf("duplicate agent id %q", a.ID)}
		}
		seenAgents[a.ID] = true
		if a.Kind == "" {
			return &core.ConfigurationError{Field: fmt.Sprintf("agents[%d].kind", i), Reason: "must not be empty"}
		}
	}

	seenDelegates := map[string]bool{}
	claimed := map[string]string{}
	for i, del := range d.Delegates {
		if del.Name == "" {
			return &core.ConfigurationError{Field: fmt.Sprintf("delegates[%d].name", i), Reason: "must not be empty"}
		}
		if seenDelegates[del.Name] {
			return &core.ConfigurationError{Field: fmt.Sprintf("delegates[%d].name", i), Reason: fmt.Sprintf("duplicate delegate name %q", del.Name)}
		}
		seenDelegates[del.Name] = true
		if del.Reference == "" {
			return &core.ConfigurationError{Field: fmt.Sprintf("delegates[%d].reference", i), Reason: "must not be empty"}
		}
		for _, id := range del.AgentIDs {
			if owner, ok := claimed[id]; ok {
				return &core.ConfigurationError{
					Field:  fmt.Sprintf("delegates[%d].agent_ids", i),
					Reason: fmt.Sprintf("agent id %q already claimed by delegate %q", id, owner),
				}
			}
			claimed[id] = del.Name
		}
		for j, m := range del.Fading {
			if err := m.validate(fmt.Sprintf("delegates[%d].fading_models[%d]", i, j)); err != nil {
				return err
			}
		}
		for j, m := range del.Mobility {
			if err := m.validate(fmt.Sprintf("delegates[%d].mobility_models[%d]", i, j)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m ModelOverride) validate(field string) error {
	if m.Target == "" {
		return &core.ConfigurationError{Field: field + ".target", Reason: "must not be empty"}
	}
	if m.Name == "" {
		return &core.ConfigurationError{Field: field + ".name", Reason: "must not be empty"}
	}
	switch m.Kind {
	case "", string(model.KindBuiltin), string(model.KindReference):
		return nil
	default:
		return &core.ConfigurationError{Field: field + ".kind", Reason: fmt.Sprintf("unknown kind %q", m.Kind)}
	}
}

// EnvSpecs converts the delegate blocks into build-ready specs. Delegates
// without an explicit seed derive one from the document seed and their
// position, so distinct delegates never share a stream by accident.
func (d *Document) EnvSpecs() []env.Spec {
	specs := make([]env.Spec, 0, len(d.Delegates))
	for i, del := range d.Delegates {
		seed := del.Seed
		if seed == 0 && d.Seed != 0 {
			seed = d.Seed + int64(i)
		}
		specs = append(specs, env.Spec{
			Name:        del.Name,
			Reference:   del.Reference,
			AgentIDs:    append([]string(nil), del.AgentIDs...),
			Args:        del.Args,
			Seed:        seed,
			Fading:      toModelSpecs(del.Fading),
			Mobility:    toModelSpecs(del.Mobility),
			StepTimeout: time.Duration(del.StepTimeoutMS) * time.Millisecond,
		})
	}
	return specs
}

func toModelSpecs(overrides []ModelOverride) []model.Spec {
	if len(overrides) == 0 {
		return nil
	}
	out := make([]model.Spec, 0, len(overrides))
	for _, m := range overrides {
		out = append(out, model.Spec{
			Target: m.Target,
			Kind:   model.Kind(m.Kind),
			Name:   m.Name,
			Params: m.Params,
		})
	}
	return out
}

// DefaultActions converts the coordinator default-action block.
func (d *Document) DefaultActions() map[string]core.Action {
	if len(d.Coordinator.DefaultActions) == 0 {
		return nil
	}
	out := make(map[string]core.Action, len(d.Coordinator.DefaultActions))
	for id, act := range d.Coordinator.DefaultActions {
		out[id] = core.Action(act)
	}
	return out
}
