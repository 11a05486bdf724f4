package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-ratings/internal/database"
)

// NewStore creates a new JobStore.
func NewStore(db *sql.DB) JobStore {
	return &store{
		db: db,
	}
}

const jobColumns = "id, calc_type, scope_id, status, created_at, started_at, completed_at, error_message"

// Job timestamps are stored as unix milliseconds.
func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64).UTC()
	return &t
}

func scanJob(scanner interface{ Scan(...any) error }) (*Job, error) {
	var job Job
	var scopeID, startedAt, completedAt sql.NullInt64
	var createdAt int64
	var errorMessage sql.NullString

	if err := scanner.Scan(&job.ID, &job.CalcType, &scopeID, &job.Status, &createdAt, &startedAt, &completedAt, &errorMessage); err != nil {
		return nil, err
	}
	if scopeID.Valid {
		id := scopeID.Int64
		job.ScopeID = &id
	}
	job.CreatedAt = time.UnixMilli(createdAt).UTC()
	job.StartedAt = fromMillis(startedAt)
	job.CompletedAt = fromMillis(completedAt)
	job.ErrorMessage = errorMessage.String
	return &job, nil
}

func nullScope(scopeID *int64) sql.NullInt64 {
	if scopeID == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *scopeID, Valid: true}
}

func nullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*t), Valid: true}
}

func (s *store) Insert(ctx context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recalculation_jobs (id, calc_type, scope_id, status, created_at, started_at, completed_at, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL)`,
		job.ID, string(job.CalcType), nullScope(job.ScopeID), string(job.Status),
		toMillis(job.CreatedAt), nullTime(job.StartedAt), nullTime(job.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	log.Debug("Inserted recalculation job", "jobID", job.ID, "scope", job.Scope(), "status", job.Status)
	return nil
}

func (s *store) Get(ctx context.Context, jobID string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+jobColumns+" FROM recalculation_jobs WHERE id = ?", jobID)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (s *store) FindActive(ctx context.Context, calcType CalcType, scopeID *int64) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+jobColumns+` FROM recalculation_jobs
		WHERE calc_type = ? AND scope_id IS ? AND status IN ('PENDING', 'RUNNING')
		ORDER BY created_at ASC, rowid ASC LIMIT 1`, string(calcType), nullScope(scopeID))
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active job: %w", err)
	}
	return job, nil
}

func (s *store) HasRunning(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var running bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM recalculation_jobs WHERE status = 'RUNNING')").Scan(&running)
	if err != nil {
		return false, fmt.Errorf("failed to check for running jobs: %w", err)
	}
	return running, nil
}

func (s *store) ClaimOldestPending(ctx context.Context, now time.Time) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var claimed *Job
	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, "SELECT "+jobColumns+` FROM recalculation_jobs
			WHERE status = 'PENDING' ORDER BY created_at ASC, rowid ASC LIMIT 1`)
		job, err := scanJob(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}
		_, err = tx.ExecContext(ctx, "UPDATE recalculation_jobs SET status = 'RUNNING', started_at = ? WHERE id = ? AND status = 'PENDING'",
			toMillis(now), job.ID)
		if err != nil {
			return err
		}
		started := time.UnixMilli(toMillis(now)).UTC()
		job.Status = StatusRunning
		job.StartedAt = &started
		claimed = job
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending job: %w", err)
	}
	return claimed, nil
}

func (s *store) MarkCompleted(ctx context.Context, jobID string, now time.Time) error {
	return s.finish(ctx, jobID, StatusCompleted, sql.NullString{}, now)
}

func (s *store) MarkFailed(ctx context.Context, jobID, message string, now time.Time) error {
	return s.finish(ctx, jobID, StatusFailed, sql.NullString{String: message, Valid: true}, now)
}

func (s *store) finish(ctx context.Context, jobID string, status Status, message sql.NullString, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE recalculation_jobs SET status = ?, completed_at = ?, error_message = ?
		WHERE id = ? AND status = 'RUNNING'`, string(status), toMillis(now), message, jobID)
	if err != nil {
		return fmt.Errorf("failed to mark job %s %s: %w", jobID, status, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: no running job %s", ErrJobNotFound, jobID)
	}
	return nil
}

func (s *store) List(ctx context.Context, status Status, limit int) ([]Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order := "created_at ASC, rowid ASC"
	if status.Terminal() {
		order = "completed_at DESC, rowid DESC"
	}
	query := "SELECT " + jobColumns + " FROM recalculation_jobs WHERE status = ? ORDER BY " + order
	args := []any{string(status)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s jobs: %w", status, err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (s *store) Count(ctx context.Context, status Status) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM recalculation_jobs WHERE status = ?", string(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s jobs: %w", status, err)
	}
	return n, nil
}
