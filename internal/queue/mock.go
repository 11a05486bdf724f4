package queue

import (
	"context"
	"fmt"
	"sync"
)

var _ Service = (*Mock)(nil)

// EnqueueCall records one Enqueue invocation.
type EnqueueCall struct {
	CalcType CalcType
	ScopeID  *int64
}

// Mock is a mock implementation of the Service interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	EnqueueFunc   func(calcType CalcType, scopeID *int64) (string, error)
	GetStatusFunc func() (*StatusSnapshot, error)
	GetJobFunc    func(jobID string) (*Job, error)

	// Call records
	EnqueueCalls []EnqueueCall
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnqueueCalls = nil
}

func (m *Mock) Enqueue(ctx context.Context, calcType CalcType, scopeID *int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnqueueCalls = append(m.EnqueueCalls, EnqueueCall{CalcType: calcType, ScopeID: scopeID})
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(calcType, scopeID)
	}
	return fmt.Sprintf("job-%d", len(m.EnqueueCalls)), nil
}

func (m *Mock) GetStatus(ctx context.Context) (*StatusSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetStatusFunc != nil {
		return m.GetStatusFunc()
	}
	return &StatusSnapshot{Pending: []Job{}, RecentCompleted: []Job{}, RecentFailed: []Job{}}, nil
}

func (m *Mock) GetJob(ctx context.Context, jobID string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetJobFunc != nil {
		return m.GetJobFunc(jobID)
	}
	return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
}
