package processor

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-ratings/internal/queue"
)

// New creates a new Processor.
func New(store Store, q queue.Enqueuer) *Processor {
	return &Processor{
		store: store,
		queue: q,
	}
}

// HandleSessionLockIn enqueues the rebuilds a locked-in session affects: always the global
// scope and, when the session sits in a league season, that league. Sessions that are not
// SUBMITTED or EDITED are ignored. It returns the ids of the jobs serving the request.
func (p *Processor) HandleSessionLockIn(ctx context.Context, sessionID int64) ([]string, error) {
	session, err := p.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Status.IsLockedIn() {
		log.Info("Ignoring session that is not locked in", "sessionID", sessionID, "status", session.Status)
		return nil, nil
	}

	globalJob, err := p.queue.Enqueue(ctx, queue.CalcGlobal, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue global recalculation: %w", err)
	}
	jobIDs := []string{globalJob}

	if session.LeagueID != nil {
		leagueJob, err := p.queue.Enqueue(ctx, queue.CalcLeague, session.LeagueID)
		if err != nil {
			return jobIDs, fmt.Errorf("failed to enqueue league %d recalculation: %w", *session.LeagueID, err)
		}
		jobIDs = append(jobIDs, leagueJob)
	}

	log.Info("Session locked in, recalculation requested", "sessionID", sessionID, "status", session.Status, "jobs", jobIDs)
	return jobIDs, nil
}
