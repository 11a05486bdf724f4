package queue

import (
	"context"
	"time"
)

// Recalculator performs the rebuild a job asks for.
type Recalculator interface {
	RecalculateGlobal(ctx context.Context) error
	RecalculateLeague(ctx context.Context, leagueID int64) error
	RecalculateSeason(ctx context.Context, seasonID int64) error
}

// Enqueuer accepts recalculation requests.
type Enqueuer interface {
	Enqueue(ctx context.Context, calcType CalcType, scopeID *int64) (string, error)
}

// Service is the queue as seen by the HTTP layer.
type Service interface {
	Enqueuer
	GetStatus(ctx context.Context) (*StatusSnapshot, error)
	GetJob(ctx context.Context, jobID string) (*Job, error)
}

// JobStore persists jobs. Callers serialise state decisions themselves.
type JobStore interface {
	Insert(ctx context.Context, job *Job) error
	Get(ctx context.Context, jobID string) (*Job, error)
	// FindActive returns the oldest PENDING or RUNNING job for the scope, or nil.
	FindActive(ctx context.Context, calcType CalcType, scopeID *int64) (*Job, error)
	HasRunning(ctx context.Context) (bool, error)
	// ClaimOldestPending moves the oldest PENDING job to RUNNING and returns it, or nil.
	ClaimOldestPending(ctx context.Context, now time.Time) (*Job, error)
	MarkCompleted(ctx context.Context, jobID string, now time.Time) error
	MarkFailed(ctx context.Context, jobID, message string, now time.Time) error
	// List returns jobs with the given status. Active jobs come oldest first, terminal jobs newest first.
	// A limit of zero means no limit.
	List(ctx context.Context, status Status, limit int) ([]Job, error)
	Count(ctx context.Context, status Status) (int, error)
}
