// Package tool implements the solver capabilities agents invoke while
// estimating proposals: structured call-in, structured result-out, consistent
// error reporting. Tools are registered in the capability registry and
// resolved by name at build time.
package tool
