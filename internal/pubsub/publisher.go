package pubsub

import (
	"context"

	"github.com/mauv0809/padel-ratings/internal/notifier"
)

var _ notifier.Notifier = (*JobPublisher)(nil)

// JobPublisher forwards every job outcome to the recalculation-finished topic.
type JobPublisher struct {
	client PubSubClient
}

// NewJobPublisher creates a JobPublisher.
func NewJobPublisher(client PubSubClient) *JobPublisher {
	return &JobPublisher{client: client}
}

func (p *JobPublisher) NotifyJobFinished(ctx context.Context, event notifier.JobEvent) error {
	return p.client.SendMessage(ctx, EventRecalculationFinished, event)
}
