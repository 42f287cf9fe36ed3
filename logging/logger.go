package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger is the minimal logging interface used throughout netmesh. Args are
// slog-style alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoOpLogger discards all log messages. It is the default wherever a Logger
// option is left nil.
type NoOpLogger struct{}

// Debug discards a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info discards an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn discards a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error discards an error message.
func (NoOpLogger) Error(string, ...any) {}

// SlogAdapter exposes a *slog.Logger through the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// NewSlogAdapter wraps an existing *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{Logger: logger}
}

// ParseLevel maps a config-file level name to a slog level. Unknown names
// fall back to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config controls construction of a RunLogger.
type Config struct {
	Level  slog.Level
	Format string // "json" (default) or "text"
	Output io.Writer
}

// New builds a RunLogger from cfg, substituting defaults for zero fields.
func New(cfg Config) *RunLogger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	return &RunLogger{logger: slog.New(handler)}
}

// RunLogger wraps slog with cheap contextual cloning (run id, component) and
// domain helpers. The zero value is not usable; construct via New.
type RunLogger struct {
	logger *slog.Logger
	attrs  []slog.Attr
}

func (l *RunLogger) with(attrs ...slog.Attr) *RunLogger {
	nl := &RunLogger{logger: l.logger}
	nl.attrs = append(append([]slog.Attr{}, l.attrs...), attrs...)
	return nl
}

// WithRun attaches the run identifier to every subsequent entry.
func (l *RunLogger) WithRun(runID string) *RunLogger {
	return l.with(slog.String("run_id", runID))
}

// WithComponent sets the logical component (coordinator, composite, delegate).
func (l *RunLogger) WithComponent(c string) *RunLogger {
	return l.with(slog.String("component", c))
}

func (l *RunLogger) log(level slog.Level, msg string, args []any) {
	if !l.logger.Enabled(context.Background(), level) {
		return
	}
	rec := l.logger.With(argsToAny(l.attrs)...)
	rec.Log(context.Background(), level, msg, args...)
}

func argsToAny(attrs []slog.Attr) []any {
	out := make([]any, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a)
	}
	return out
}

// Debug logs at debug level.
func (l *RunLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }

// Info logs at info level.
func (l *RunLogger) Info(msg string, args ...any) { l.log(slog.LevelInfo, msg, args) }

// Warn logs at warn level.
func (l *RunLogger) Warn(msg string, args ...any) { l.log(slog.LevelWarn, msg, args) }

// Error logs at error level.
func (l *RunLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

// LogProposal records the outcome of one agent's propose call.
func (l *RunLogger) LogProposal(agentID string, step int, utility float64, err error) {
	if err != nil {
		l.Warn("proposal failed", "agent_id", agentID, "step", step, "error", err.Error())
		return
	}
	l.Debug("proposal collected", "agent_id", agentID, "step", step, "utility", utility)
}

// LogDelegateStep records latency and termination state for a delegate step.
func (l *RunLogger) LogDelegateStep(delegate string, step int, dur time.Duration, done bool, err error) {
	if err != nil {
		l.Error("delegate step failed", "delegate", delegate, "step", step, "duration", dur, "error", err.Error())
		return
	}
	l.Debug("delegate stepped", "delegate", delegate, "step", step, "duration", dur, "done", done)
}
