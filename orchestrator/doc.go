// Package orchestrator drives the per-step coordination protocol: observe,
// propose, rank and commit, step the composite environment, record telemetry.
// A run advances single-threaded and step-synchronous; all delegates move
// exactly once per tick before the coordinator acts on the merged result.
// Cancellation is cooperative and only honored at tick boundaries - a
// delegate step is atomic.
package orchestrator
