// Package logging provides a small abstraction over slog so the rest of the
// engine depends on a minimal Logger interface while callers can plug any
// structured logger. It also offers a RunLogger with contextual helpers
// (run id, delegate, agent) and domain specific helpers for proposal
// collection and delegate stepping.
package logging
