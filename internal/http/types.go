package http

import (
	"net/http"

	"github.com/mauv0809/padel-ratings/internal/processor"
	"github.com/mauv0809/padel-ratings/internal/pubsub"
	"github.com/mauv0809/padel-ratings/internal/queue"
	"github.com/mauv0809/padel-ratings/internal/stats"
)

type Server struct {
	Queue          queue.Service
	Stats          stats.Store
	Processor      *processor.Processor
	Decoder        pubsub.Decoder
	MetricsHandler http.Handler
	Router         *http.ServeMux
}

// pushEnvelope is the body Pub/Sub push subscriptions POST to an endpoint.
type pushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data      string `json:"data"`
		MessageID string `json:"messageId"`
	} `json:"message"`
}

type enqueueResponse struct {
	JobID string `json:"job_id"`
}

type sessionLockedResponse struct {
	SessionID int64    `json:"session_id"`
	JobIDs    []string `json:"job_ids"`
}

type errorResponse struct {
	Error string `json:"error"`
}
