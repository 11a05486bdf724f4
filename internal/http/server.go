package http

import (
	"net/http"

	"github.com/mauv0809/padel-ratings/internal/processor"
	"github.com/mauv0809/padel-ratings/internal/pubsub"
	"github.com/mauv0809/padel-ratings/internal/queue"
	"github.com/mauv0809/padel-ratings/internal/stats"
)

func NewServer(q queue.Service, statsStore stats.Store, proc *processor.Processor, decoder pubsub.Decoder, metricsHandler http.Handler) *Server {
	if decoder == nil {
		decoder = pubsub.NewDecoder()
	}
	server := &Server{
		Queue:          q,
		Stats:          statsStore,
		Processor:      proc,
		Decoder:        decoder,
		MetricsHandler: metricsHandler,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), requestIDMiddleware, paramsMiddleware, authMiddleware)
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("POST /recalc/enqueue", Chain(s.EnqueueHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("GET /recalc/status", Chain(s.StatusHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("GET /recalc/jobs/{id}", Chain(s.JobHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("GET /leaderboard", Chain(s.LeaderboardHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("GET /players/{id}/partners", Chain(s.PartnershipsHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("GET /players/{id}/opponents", Chain(s.OpponentsHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("GET /players/{id}/history", Chain(s.RatingHistoryHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("POST /events/session-locked", Chain(s.SessionLockedHandler(), requestIDMiddleware, paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
