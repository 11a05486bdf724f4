package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	jobsEnqueued     map[string]int
	jobsDeduplicated map[string]int
	jobsCompleted    map[string]int
	jobsFailed       map[string]int
	jobDurations     []float64
	pendingJobs      int
	recalcDurations  []float64
	matchesProcessed map[string]int
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		jobsEnqueued:     make(map[string]int),
		jobsDeduplicated: make(map[string]int),
		jobsCompleted:    make(map[string]int),
		jobsFailed:       make(map[string]int),
		matchesProcessed: make(map[string]int),
	}
}

func (m *Mock) IncJobsEnqueued(calcType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobsEnqueued[calcType]++
}

func (m *Mock) IncJobsDeduplicated(calcType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobsDeduplicated[calcType]++
}

func (m *Mock) IncJobsCompleted(calcType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobsCompleted[calcType]++
}

func (m *Mock) IncJobsFailed(calcType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobsFailed[calcType]++
}

func (m *Mock) ObserveJobDuration(calcType string, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobDurations = append(m.jobDurations, duration)
}

func (m *Mock) SetPendingJobs(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingJobs = n
}

func (m *Mock) ObserveRecalcDuration(calcType string, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recalcDurations = append(m.recalcDurations, duration)
}

func (m *Mock) AddMatchesProcessed(calcType string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesProcessed[calcType] += n
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// JobsEnqueued returns how many jobs of calcType were created.
func (m *Mock) JobsEnqueued(calcType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobsEnqueued[calcType]
}

// JobsDeduplicated returns how many enqueues of calcType were merged.
func (m *Mock) JobsDeduplicated(calcType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobsDeduplicated[calcType]
}

func (m *Mock) JobsCompleted(calcType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobsCompleted[calcType]
}

func (m *Mock) JobsFailed(calcType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobsFailed[calcType]
}

// PendingJobs returns the last value passed to SetPendingJobs.
func (m *Mock) PendingJobs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingJobs
}

// RecalcRuns returns the number of observed pipeline runs.
func (m *Mock) RecalcRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recalcDurations)
}

func (m *Mock) MatchesProcessed(calcType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesProcessed[calcType]
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
