// Package queue schedules recalculation jobs so that at most one runs at a time and
// repeated requests for the same scope collapse into one job.
package queue

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/padel-ratings/internal/metrics"
	"github.com/mauv0809/padel-ratings/internal/notifier"
)

var _ Service = (*Queue)(nil)

// Queue is a persistent single-flight job scheduler with one background worker.
type Queue struct {
	store    JobStore
	recalc   Recalculator
	notifier notifier.Notifier
	metrics  metrics.Metrics
	opts     Options
	now      func() time.Time

	// mu makes "is anything RUNNING" plus the following insert or claim one decision.
	// Each Start creates fresh channels; a worker only uses the ones it was started with.
	mu       sync.Mutex
	started  bool
	dispatch chan *Job
	wake     chan struct{}
	stop     chan struct{}
	done     chan struct{}
}

// New creates a Queue. The notifier and metrics may be nil.
func New(store JobStore, recalc Recalculator, n notifier.Notifier, m metrics.Metrics, opts Options) (*Queue, error) {
	if recalc == nil {
		return nil, ErrNoRecalculator
	}
	if n == nil {
		n = notifier.NewLogNotifier()
	}
	return &Queue{
		store:    store,
		recalc:   recalc,
		notifier: n,
		metrics:  m,
		opts:     opts.withDefaults(),
		now:      time.Now,
	}, nil
}

// Start recovers jobs left RUNNING by a previous process and launches the worker.
// Each interrupted job is marked FAILED and its scope is queued again as a new job.
func (q *Queue) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started {
		return nil
	}
	if err := q.recoverInterrupted(ctx); err != nil {
		return err
	}

	q.dispatch = make(chan *Job, 1)
	q.wake = make(chan struct{}, 1)
	q.stop = make(chan struct{})
	q.done = make(chan struct{})
	q.started = true

	go q.run(q.dispatch, q.wake, q.stop, q.done)
	q.signal()
	log.Info("Recalculation queue started", "pollInterval", q.opts.PollInterval, "jobTimeout", q.opts.JobTimeout)
	return nil
}

func (q *Queue) recoverInterrupted(ctx context.Context) error {
	stale, err := q.store.List(ctx, StatusRunning, 0)
	if err != nil {
		return fmt.Errorf("failed to load interrupted jobs: %w", err)
	}
	for _, job := range stale {
		if err := q.store.MarkFailed(ctx, job.ID, restartMessage, q.now()); err != nil {
			return fmt.Errorf("failed to fail interrupted job %s: %w", job.ID, err)
		}
		log.Warn("Failed job interrupted by restart", "jobID", job.ID, "scope", job.Scope())
		q.countFailed(job.CalcType)

		existing, err := q.store.FindActive(ctx, job.CalcType, job.ScopeID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		replacement := &Job{
			ID:        uuid.NewString(),
			CalcType:  job.CalcType,
			ScopeID:   job.ScopeID,
			Status:    StatusPending,
			CreatedAt: q.now(),
		}
		if err := q.store.Insert(ctx, replacement); err != nil {
			return fmt.Errorf("failed to requeue interrupted job %s: %w", job.ID, err)
		}
		log.Info("Requeued interrupted job", "jobID", replacement.ID, "previousJobID", job.ID, "scope", job.Scope())
		q.countEnqueued(job.CalcType)
	}
	return nil
}

// Stop stops accepting jobs and waits for the in-flight job to finish or ctx to expire.
// PENDING jobs stay in storage and are picked up by the next Start.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return nil
	}
	q.started = false
	close(q.stop)
	done := q.done
	q.mu.Unlock()

	select {
	case <-done:
		log.Info("Recalculation queue stopped")
		return nil
	case <-ctx.Done():
		log.Warn("Recalculation queue did not stop in time; the running job will be recovered on restart")
		return ctx.Err()
	}
}

// Enqueue requests a rebuild of one scope and returns the id of the job that will serve it.
// It returns the id of an existing PENDING or RUNNING job for the same scope when there is one.
// It never waits for the rebuild itself.
func (q *Queue) Enqueue(ctx context.Context, calcType CalcType, scopeID *int64) (string, error) {
	if err := calcType.Validate(scopeID); err != nil {
		return "", err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.started {
		return "", ErrNotStarted
	}

	existing, err := q.store.FindActive(ctx, calcType, scopeID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		log.Debug("Merged recalculation request into existing job", "jobID", existing.ID, "scope", existing.Scope(), "status", existing.Status)
		if q.metrics != nil {
			q.metrics.IncJobsDeduplicated(string(calcType))
		}
		return existing.ID, nil
	}

	running, err := q.store.HasRunning(ctx)
	if err != nil {
		return "", err
	}

	now := q.now()
	job := &Job{
		ID:        uuid.NewString(),
		CalcType:  calcType,
		ScopeID:   scopeID,
		Status:    StatusPending,
		CreatedAt: now,
	}
	if !running {
		job.Status = StatusRunning
		job.StartedAt = &now
	}
	if err := q.store.Insert(ctx, job); err != nil {
		return "", err
	}
	q.countEnqueued(calcType)

	if job.Status == StatusRunning {
		// Nothing is RUNNING, so the worker is idle and the buffer is free.
		q.dispatch <- job
		log.Info("Dispatched recalculation job", "jobID", job.ID, "scope", job.Scope())
	} else {
		q.signal()
		q.reportPending(ctx)
		log.Info("Queued recalculation job", "jobID", job.ID, "scope", job.Scope())
	}
	return job.ID, nil
}

// GetStatus returns the running job, the pending jobs in dispatch order and the most recent
// completed and failed jobs.
func (q *Queue) GetStatus(ctx context.Context) (*StatusSnapshot, error) {
	snapshot := &StatusSnapshot{}

	running, err := q.store.List(ctx, StatusRunning, 1)
	if err != nil {
		return nil, err
	}
	if len(running) > 0 {
		snapshot.Running = &running[0]
	}
	if snapshot.Pending, err = q.store.List(ctx, StatusPending, 0); err != nil {
		return nil, err
	}
	if snapshot.RecentCompleted, err = q.store.List(ctx, StatusCompleted, q.opts.RecentLimit); err != nil {
		return nil, err
	}
	if snapshot.RecentFailed, err = q.store.List(ctx, StatusFailed, q.opts.RecentLimit); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// GetJob returns one job or ErrJobNotFound.
func (q *Queue) GetJob(ctx context.Context, jobID string) (*Job, error) {
	return q.store.Get(ctx, jobID)
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) run(dispatch <-chan *Job, wake <-chan struct{}, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(q.opts.PollInterval)
	defer ticker.Stop()

	for {
		var job *Job
		select {
		case <-stop:
			// A job dispatched just before Stop was already accepted; finish it.
			select {
			case job = <-dispatch:
				q.execute(job, stop)
			default:
			}
			return
		case job = <-dispatch:
		case <-wake:
			job = q.claimNext(stop)
		case <-ticker.C:
			job = q.claimNext(stop)
		}

		for job != nil {
			job = q.execute(job, stop)
		}
	}
}

// claimNext promotes the oldest PENDING job when nothing is RUNNING.
func (q *Queue) claimNext(stop <-chan struct{}) *Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.claimLocked(stop)
}

// claimLocked never claims for a worker whose stop channel is closed.
func (q *Queue) claimLocked(stop <-chan struct{}) *Job {
	select {
	case <-stop:
		return nil
	default:
	}
	ctx := context.Background()

	running, err := q.store.HasRunning(ctx)
	if err != nil {
		log.Error("Failed to check for running jobs", "error", err)
		return nil
	}
	if running {
		return nil
	}
	job, err := q.store.ClaimOldestPending(ctx, q.now())
	if err != nil {
		log.Error("Failed to claim pending job", "error", err)
		return nil
	}
	if job != nil {
		log.Info("Claimed pending recalculation job", "jobID", job.ID, "scope", job.Scope())
		q.reportPending(ctx)
	}
	return job
}

// execute runs one RUNNING job to its terminal state and returns the next job to run, if any.
func (q *Queue) execute(job *Job, stop <-chan struct{}) *Job {
	start := q.now()
	log.Info("Starting recalculation job", "jobID", job.ID, "calcType", job.CalcType, "scopeID", job.ScopeID)

	runErr := q.invoke(job)
	finished := q.now()
	ctx := context.Background()

	q.mu.Lock()
	event := notifier.JobEvent{
		JobID:      job.ID,
		CalcType:   string(job.CalcType),
		ScopeID:    job.ScopeID,
		Status:     string(StatusCompleted),
		Duration:   finished.Sub(start),
		FinishedAt: finished,
	}
	var storeErr error
	if runErr != nil {
		event.Status = string(StatusFailed)
		event.Error = runErr.Error()
		storeErr = q.store.MarkFailed(ctx, job.ID, runErr.Error(), finished)
	} else {
		storeErr = q.store.MarkCompleted(ctx, job.ID, finished)
	}
	var next *Job
	if storeErr == nil {
		next = q.claimLocked(stop)
	}
	q.mu.Unlock()

	if storeErr != nil {
		// The job stays RUNNING and blocks the queue until the next restart recovers it.
		log.Error("Failed to record job outcome", "jobID", job.ID, "error", storeErr)
		return nil
	}

	if runErr != nil {
		log.Error("Recalculation job failed", "jobID", job.ID, "scope", job.Scope(), "error", runErr, "duration", event.Duration)
		q.countFailed(job.CalcType)
	} else {
		log.Info("Recalculation job completed", "jobID", job.ID, "scope", job.Scope(), "duration", event.Duration)
		if q.metrics != nil {
			q.metrics.IncJobsCompleted(string(job.CalcType))
		}
	}
	if q.metrics != nil {
		q.metrics.ObserveJobDuration(string(job.CalcType), event.Duration.Seconds())
	}
	if err := q.notifier.NotifyJobFinished(ctx, event); err != nil {
		log.Warn("Failed to deliver job notification", "jobID", job.ID, "error", err)
	}
	return next
}

// invoke calls the recalculator for the job's scope. Panics become errors.
func (q *Queue) invoke(job *Job) (err error) {
	ctx := context.Background()
	if q.opts.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.opts.JobTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered panic in recalculation job", "jobID", job.ID, "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic during recalculation: %v", r)
		}
	}()

	switch job.CalcType {
	case CalcGlobal:
		err = q.recalc.RecalculateGlobal(ctx)
	case CalcLeague:
		err = q.recalc.RecalculateLeague(ctx, *job.ScopeID)
	case CalcSeason:
		err = q.recalc.RecalculateSeason(ctx, *job.ScopeID)
	default:
		err = fmt.Errorf("%w: unknown calc type %q", ErrInvalidScope, job.CalcType)
	}
	return err
}

func (q *Queue) reportPending(ctx context.Context) {
	if q.metrics == nil {
		return
	}
	n, err := q.store.Count(ctx, StatusPending)
	if err != nil {
		log.Warn("Failed to count pending jobs", "error", err)
		return
	}
	q.metrics.SetPendingJobs(n)
}

func (q *Queue) countEnqueued(calcType CalcType) {
	if q.metrics != nil {
		q.metrics.IncJobsEnqueued(string(calcType))
	}
}

func (q *Queue) countFailed(calcType CalcType) {
	if q.metrics != nil {
		q.metrics.IncJobsFailed(string(calcType))
	}
}
