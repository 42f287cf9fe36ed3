// Package registry implements the capability registry: named factories for
// agents, tools, simulators, and channel models, plus an explicit
// BuildContext that caches resolution results for one construction pass.
// Keeping the cache on a context value rather than in process-global state
// preserves the construct-once guarantee without hidden singletons.
package registry
