package llm

import (
	"context"
	"fmt"
	"sync"
)

// Request captures one reasoning turn: a system framing plus a single user
// prompt. Agents serialize their observation into Prompt and expect a JSON
// proposal back.
type Request struct {
	System      string  `json:"system,omitempty"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int64   `json:"max_tokens,omitempty"`
}

// Response is the completed reasoning result.
type Response struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// Reasoner is the minimal interface agents need to drive generation.
type Reasoner interface {
	Reason(ctx context.Context, req Request) (Response, error)
}

// Mock is a lightweight in-memory Reasoner for tests and examples. Canned
// responses are matched by exact prompt; unmatched prompts get an echo.
type Mock struct {
	mu        sync.Mutex
	responses map[string]string
	calls     []Request
	err       error
}

// NewMock constructs an empty mock reasoner.
func NewMock() *Mock {
	return &Mock{responses: make(map[string]string)}
}

// AddResponse registers a deterministic canned completion for a prompt.
func (m *Mock) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Fail makes every subsequent Reason call return err.
func (m *Mock) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the requests seen so far.
func (m *Mock) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// Reason implements Reasoner.
func (m *Mock) Reason(_ context.Context, req Request) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if m.err != nil {
		return Response{}, m.err
	}
	text, ok := m.responses[req.Prompt]
	if !ok {
		text = fmt.Sprintf("Mock response to: %s", req.Prompt)
	}
	return Response{Text: text, Model: "mock"}, nil
}
