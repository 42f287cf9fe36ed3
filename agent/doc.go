// Package agent ships the builtin proposal agents. The heuristic agents pair
// one delegate domain with one solver tool (RIS with the phase optimizer,
// NOMA with the power allocator, V2I with a power-control rule); Reasoner
// delegates proposal synthesis to a language model with a deterministic
// fallback when the model output cannot be parsed.
package agent
