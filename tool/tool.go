package tool

import (
	"context"
	"fmt"
)

// Tool is the numeric-solver capability surface. Implementations should be
// deterministic for a given argument set and thread-safe if shared.
type Tool interface {
	// Name returns the unique identifier the registry knows this tool by.
	Name() string

	// Call executes the tool with structured arguments.
	Call(ctx context.Context, args map[string]any) (map[string]any, error)
}

// Error reports a tool invocation failure with enough context to trace it
// back to the argument set that caused it.
type Error struct {
	Tool    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("tool %s: %s", e.Tool, e.Message)
}

// NewError creates a tool error.
func NewError(tool, format string, args ...any) *Error {
	return &Error{Tool: tool, Message: fmt.Sprintf(format, args...)}
}

// Func adapts a plain function into a Tool.
type Func struct {
	name string
	fn   func(ctx context.Context, args map[string]any) (map[string]any, error)
}

// NewFunc wraps fn as a named tool.
func NewFunc(name string, fn func(ctx context.Context, args map[string]any) (map[string]any, error)) *Func {
	return &Func{name: name, fn: fn}
}

// Name implements Tool.
func (f *Func) Name() string { return f.name }

// Call implements Tool.
func (f *Func) Call(ctx context.Context, args map[string]any) (map[string]any, error) {
	return f.fn(ctx, args)
}

// Float reads a float argument with a default.
func Float(args map[string]any, key string, def float64) float64 {
	v, ok := args[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}

// Floats reads a float-slice argument, coercing []any elements.
func Floats(args map[string]any, key string) []float64 {
	switch v := args[key].(type) {
	case []float64:
		return v
	case []any:
		out := make([]float64, 0, len(v))
		for _, e := range v {
			switch n := e.(type) {
			case float64:
				out = append(out, n)
			case int:
				out = append(out, float64(n))
			}
		}
		return out
	default:
		return nil
	}
}
