package greeter

import (
	"context"
	"fmt"
	"sync"
)

// Mock implements Service for tests. It records every call and answers with
// the configured greeting or error. When Gate is set, Greet blocks until a
// value is sent on it or the context ends.
type Mock struct {
	mu    sync.Mutex
	calls []string

	Greeting string
	Err      error
	Gate     chan struct{}
	// Started, when set, receives the name as soon as Greet is entered.
	Started chan string
}

// NewMock returns a Mock that answers "Hello, <name>!".
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Greet(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	gate := m.Gate
	started := m.Started
	m.mu.Unlock()

	if started != nil {
		started <- name
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", NewCallError(CallErrorKindTimeout, 0, ctx.Err())
		}
	}

	if m.Err != nil {
		return "", m.Err
	}
	if m.Greeting != "" {
		return m.Greeting, nil
	}
	return fmt.Sprintf(DefaultFormat, name), nil
}

// Calls returns the names passed to Greet, in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Compile-time interface check
var _ Service = (*Mock)(nil)
