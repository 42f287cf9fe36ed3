package registry

import (
	"strings"
	"sync"

	"github.com/acpkit/netmesh/core"
)

// Factory constructs a capability instance. A factory runs at most once per
// BuildContext per name; the constructed instance is cached and returned on
// repeat resolution.
type Factory func(b *BuildContext) (any, error)

// Registry holds named capability factories and the ordered set of control
// agents participating in a run. Registration is thread-safe; entries persist
// for the registry's lifetime with no eviction.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	agents    []core.Agent
	agentIdx  map[string]int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		agentIdx:  make(map[string]int),
	}
}

// Register makes a factory available under name. Registering the same name
// again replaces the earlier factory; already-built instances held by
// existing BuildContexts are unaffected.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// RegisterAgent adds an agent to the coordination roster. Enumeration order
// is insertion order and stays stable across a run; re-registering an id
// replaces the instance but keeps its original position, so tie-break
// semantics do not shift underneath a configured run.
func (r *Registry) RegisterAgent(a core.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.agentIdx[a.ID()]; ok {
		r.agents[idx] = a
		return
	}
	r.agentIdx[a.ID()] = len(r.agents)
	r.agents = append(r.agents, a)
}

// Agents returns the registered agents in insertion order.
func (r *Registry) Agents() []core.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Agent, len(r.agents))
	copy(out, r.agents)
	return out
}

// AgentIndex reports the enumeration index of an agent id.
func (r *Registry) AgentIndex(id string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.agentIdx[id]
	return idx, ok
}

func (r *Registry) lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// NewBuildContext starts a construction pass with an empty resolution cache.
func (r *Registry) NewBuildContext() *BuildContext {
	return &BuildContext{
		reg:     r,
		entries: make(map[string]*buildEntry),
	}
}

// BuildContext resolves capability names to constructed instances, building
// each name at most once. Reads of the cache may happen concurrently from
// multiple delegate constructions; first resolution of a name is mutually
// exclusive per name so a factory never runs twice.
type BuildContext struct {
	reg     *Registry
	mu      sync.Mutex
	entries map[string]*buildEntry
}

type buildEntry struct {
	once sync.Once
	val  any
	err  error
}

// Resolve returns the instance registered under nameOrRef, constructing it on
// first use. Names containing a dot or slash are treated as qualified
// references and fail with ResolutionError when absent; bare names are
// builtin aliases and fail with UnknownCapabilityError. A factory error is
// always reported as a ResolutionError and is sticky: repeat calls return the
// same failure without re-running the factory.
func (b *BuildContext) Resolve(nameOrRef string) (any, error) {
	f, ok := b.reg.lookup(nameOrRef)
	if !ok {
		if isQualified(nameOrRef) {
			return nil, &core.ResolutionError{Reference: nameOrRef}
		}
		return nil, &core.UnknownCapabilityError{Name: nameOrRef}
	}

	b.mu.Lock()
	e, ok := b.entries[nameOrRef]
	if !ok {
		e = &buildEntry{}
		b.entries[nameOrRef] = e
	}
	b.mu.Unlock()

	e.once.Do(func() {
		e.val, e.err = f(b)
		if e.err != nil {
			e.err = &core.ResolutionError{Reference: nameOrRef, Cause: e.err}
		}
	})
	return e.val, e.err
}

func isQualified(name string) bool {
	return strings.ContainsAny(name, "./")
}
