// Package config loads and validates the YAML run description: horizon and
// seed, coordinator settings, the agent roster, and one block per delegate
// with its simulator reference, arguments, and model overrides. Validation
// happens at load so a bad document fails before any simulator is built.
package config
