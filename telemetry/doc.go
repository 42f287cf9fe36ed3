// Package telemetry defines the per-step record surface the orchestrator
// produces for external persistence: exactly one record per tick, in step
// order, with no gaps or duplicates. The JSONL sink writes newline-delimited
// JSON through a size-rotated file; the memory sink backs tests and demos.
package telemetry
