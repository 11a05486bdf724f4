package queue

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrJobNotFound    = errors.New("job not found")
	ErrNotStarted     = errors.New("queue is not started")
	ErrNoRecalculator = errors.New("queue requires a recalculator")
	ErrInvalidScope   = errors.New("invalid recalculation scope")
)

// store is the SQL-backed JobStore.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Terminal reports whether the job can no longer change.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CalcType is the kind of scope a job rebuilds.
type CalcType string

const (
	CalcGlobal CalcType = "global"
	CalcLeague CalcType = "league"
	CalcSeason CalcType = "season"
)

// ParseCalcType converts user input into a CalcType.
func ParseCalcType(s string) (CalcType, error) {
	switch CalcType(s) {
	case CalcGlobal, CalcLeague, CalcSeason:
		return CalcType(s), nil
	default:
		return "", fmt.Errorf("%w: unknown calc type %q", ErrInvalidScope, s)
	}
}

// Validate checks that scopeID is nil for global jobs and set for every other kind.
func (c CalcType) Validate(scopeID *int64) error {
	switch c {
	case CalcGlobal:
		if scopeID != nil {
			return fmt.Errorf("%w: global jobs take no scope id", ErrInvalidScope)
		}
	case CalcLeague, CalcSeason:
		if scopeID == nil {
			return fmt.Errorf("%w: %s jobs need a scope id", ErrInvalidScope, c)
		}
	default:
		return fmt.Errorf("%w: unknown calc type %q", ErrInvalidScope, c)
	}
	return nil
}

// Job is one persisted recalculation request.
type Job struct {
	ID           string     `json:"id"`
	CalcType     CalcType   `json:"calc_type"`
	ScopeID      *int64     `json:"scope_id"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// Scope renders the job's scope as "global" or "<calc_type>:<id>".
func (j Job) Scope() string {
	if j.ScopeID == nil {
		return string(j.CalcType)
	}
	return fmt.Sprintf("%s:%d", j.CalcType, *j.ScopeID)
}

// StatusSnapshot is the observable state of the queue.
type StatusSnapshot struct {
	Running         *Job  `json:"running"`
	Pending         []Job `json:"pending"`
	RecentCompleted []Job `json:"recent_completed"`
	RecentFailed    []Job `json:"recent_failed"`
}

// Options tunes the worker.
type Options struct {
	// PollInterval is how often an idle worker looks for PENDING jobs it was not woken for.
	PollInterval time.Duration
	// JobTimeout bounds a single run through its context. Zero disables it.
	JobTimeout time.Duration
	// RecentLimit caps the completed and failed lists in GetStatus.
	RecentLimit int
}

const (
	defaultPollInterval = 5 * time.Second
	defaultRecentLimit  = 10
	restartMessage      = "interrupted by restart"
)

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.RecentLimit <= 0 {
		o.RecentLimit = defaultRecentLimit
	}
	return o
}
