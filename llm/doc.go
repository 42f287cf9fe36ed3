// Package llm defines the provider-agnostic reasoning surface agents use for
// proposal synthesis. Providers (Anthropic, OpenAI) implement the Reasoner
// interface from this package so agents remain decoupled from vendor SDKs;
// Mock keeps tests and examples offline.
package llm
