package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// JobEvent describes a recalculation job that reached a terminal state.
type JobEvent struct {
	JobID      string        `msgpack:"job_id" json:"job_id"`
	CalcType   string        `msgpack:"calc_type" json:"calc_type"`
	ScopeID    *int64        `msgpack:"scope_id" json:"scope_id"`
	Status     string        `msgpack:"status" json:"status"`
	Error      string        `msgpack:"error,omitempty" json:"error,omitempty"`
	Duration   time.Duration `msgpack:"duration" json:"duration"`
	FinishedAt time.Time     `msgpack:"finished_at" json:"finished_at"`
}

// Failed reports whether the job ended in FAILED.
func (e JobEvent) Failed() bool {
	return e.Status == "FAILED"
}

// Scope renders the job's scope as "global" or "<calc_type>:<id>".
func (e JobEvent) Scope() string {
	if e.ScopeID == nil {
		return e.CalcType
	}
	return fmt.Sprintf("%s:%d", e.CalcType, *e.ScopeID)
}

// Notifier defines a high-level interface for reporting recalculation outcomes.
// This decouples the queue from the specific notification provider (e.g., Slack, Pub/Sub).
type Notifier interface {
	NotifyJobFinished(ctx context.Context, event JobEvent) error
}

type fanout []Notifier

// Fanout delivers each event to every notifier. A failing notifier does not stop the others.
func Fanout(notifiers ...Notifier) Notifier {
	return fanout(notifiers)
}

func (f fanout) NotifyJobFinished(ctx context.Context, event JobEvent) error {
	var errs []error
	for _, n := range f {
		if err := n.NotifyJobFinished(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type logNotifier struct{}

// NewLogNotifier returns a Notifier that only writes events to the log.
func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) NotifyJobFinished(ctx context.Context, event JobEvent) error {
	if event.Failed() {
		log.Warn("Recalculation job failed", "jobID", event.JobID, "scope", event.Scope(), "error", event.Error, "duration", event.Duration)
		return nil
	}
	log.Info("Recalculation job finished", "jobID", event.JobID, "scope", event.Scope(), "status", event.Status, "duration", event.Duration)
	return nil
}
