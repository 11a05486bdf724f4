package notifier

import (
	"context"
	"sync"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	NotifyJobFinishedFunc func(event JobEvent) error

	// Call records
	NotifyJobFinishedCalls []JobEvent
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifyJobFinishedCalls = nil
}

func (m *Mock) NotifyJobFinished(ctx context.Context, event JobEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifyJobFinishedCalls = append(m.NotifyJobFinishedCalls, event)
	if m.NotifyJobFinishedFunc != nil {
		return m.NotifyJobFinishedFunc(event)
	}
	return nil
}

// Events returns a copy of the recorded events.
func (m *Mock) Events() []JobEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]JobEvent(nil), m.NotifyJobFinishedCalls...)
}
