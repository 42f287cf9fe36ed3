// Package model resolves channel model specifications into ready-to-sample
// instances. A Spec is a closed tagged variant: either a builtin alias
// (rician, rayleigh, nakagami, random_walk) or a qualified reference located
// through the capability registry. Resolution is a pure mapping from spec to
// instance; resolving the same spec twice yields instances drawn from the
// same parameterized family.
package model
