package processor

import (
	"github.com/mauv0809/padel-ratings/internal/queue"
)

// Processor turns club events into recalculation jobs.
type Processor struct {
	store Store
	queue queue.Enqueuer
}
