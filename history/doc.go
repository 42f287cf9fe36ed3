// Package history stores per-run step records so run state survives beyond
// the orchestrator loop that produced it: a cancelled or aborted run's
// accumulated history stays retrievable by run id.
package history
