// Package coordinator collects competing proposals from the registered agents
// each step and commits a single plan. Collection produces a result sequence
// in registry enumeration order regardless of how proposals were gathered, so
// the ranking policy sees a stable input and evaluation order can never
// change the outcome.
package coordinator
