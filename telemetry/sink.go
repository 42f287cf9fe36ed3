package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/acpkit/netmesh/core"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Record is the per-step telemetry payload handed to the sink.
type Record struct {
	RunID        string                      `json:"run_id"`
	StepIndex    int                         `json:"step_index"`
	Plan         PlanSummary                 `json:"plan"`
	Observations map[string]core.Observation `json:"observations"`
	Rewards      map[string]float64          `json:"rewards"`
	Done         bool                        `json:"done"`
}

// PlanSummary is the compact view of a committed plan.
type PlanSummary struct {
	Committed []string           `json:"committed"`
	Utilities map[string]float64 `json:"utilities,omitempty"`
}

// Summarize extracts a PlanSummary from a plan's telemetry payload.
func Summarize(plan core.Plan) PlanSummary {
	s := PlanSummary{Committed: plan.Committed}
	if u, ok := plan.Telemetry["utilities"].(map[string]float64); ok {
		s.Utilities = u
	}
	return s
}

// Sink receives one record per orchestrator tick.
type Sink interface {
	Emit(rec Record) error
	Close() error
}

// MemorySink buffers records in memory. Safe for concurrent use.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink { return &MemorySink{} }

// Emit appends the record.
func (s *MemorySink) Emit(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Close is a no-op.
func (s *MemorySink) Close() error { return nil }

// Records returns a copy of the emitted records in emission order.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// JSONLOptions configures the JSONL file sink.
type JSONLOptions struct {
	// MaxSizeMB rotates the file after it exceeds this size. Default 50.
	MaxSizeMB int

	// MaxBackups caps retained rotated files. Default 3.
	MaxBackups int

	// Writer overrides the rotated file entirely; useful for tests.
	Writer io.WriteCloser
}

// JSONLSink appends one JSON object per record to a rotating file.
type JSONLSink struct {
	mu sync.Mutex
	w  io.WriteCloser
}

// NewJSONLSink creates a sink writing newline-delimited JSON to path.
func NewJSONLSink(path string, optFns ...func(o *JSONLOptions)) *JSONLSink {
	opts := JSONLOptions{MaxSizeMB: 50, MaxBackups: 3}
	for _, fn := range optFns {
		fn(&opts)
	}
	w := opts.Writer
	if w == nil {
		w = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
	}
	return &JSONLSink{w: w}
}

// Emit marshals and writes the record as one line.
func (s *JSONLSink) Emit(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling telemetry record: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing telemetry record: %w", err)
	}
	return nil
}

// Close closes the underlying writer.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Close()
}
