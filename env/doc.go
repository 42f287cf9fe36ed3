// Package env adapts concrete simulators to the engine's uniform step
// contract and composes them. A Delegate wraps one simulator, owns its local
// episode lifecycle (Active -> Done -> Held), and injects configured
// fading/mobility overrides at build time. A Composite fans an action bundle
// out to its delegates in fixed partition order, merges their transitions,
// and terminates the instant any delegate finishes (first-done-wins).
package env
