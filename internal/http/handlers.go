package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-ratings/internal/club"
	"github.com/mauv0809/padel-ratings/internal/pubsub"
	"github.com/mauv0809/padel-ratings/internal/queue"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// EnqueueHandler accepts ?type=global|league|season&id=N and answers 202 with the job id.
func (s *Server) EnqueueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		calcType, err := queue.ParseCalcType(r.URL.Query().Get("type"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		scopeID, err := parseID(r.URL.Query().Get("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		jobID, err := s.Queue.Enqueue(r.Context(), calcType, scopeID)
		switch {
		case errors.Is(err, queue.ErrInvalidScope):
			writeError(w, http.StatusBadRequest, err)
			return
		case errors.Is(err, queue.ErrNotStarted):
			writeError(w, http.StatusServiceUnavailable, err)
			return
		case err != nil:
			log.Error("Failed to enqueue recalculation", "error", err, "calcType", calcType)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusAccepted, enqueueResponse{JobID: jobID})
	}
}

func (s *Server) StatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := s.Queue.GetStatus(r.Context())
		if err != nil {
			log.Error("Failed to load queue status", "error", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}

func (s *Server) JobHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := s.Queue.GetJob(r.Context(), r.PathValue("id"))
		if errors.Is(err, queue.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		if err != nil {
			log.Error("Failed to load job", "error", err, "jobID", r.PathValue("id"))
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := parseScope(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		board, err := s.Stats.Leaderboard(r.Context(), scope)
		if err != nil {
			log.Error("Failed to load leaderboard", "error", err, "scope", scope.String())
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, board)
	}
}

func (s *Server) PartnershipsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, playerID, err := scopeAndPlayer(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		pairs, err := s.Stats.Partnerships(r.Context(), scope, playerID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, pairs)
	}
}

func (s *Server) OpponentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, playerID, err := scopeAndPlayer(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		pairs, err := s.Stats.Opponents(r.Context(), scope, playerID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, pairs)
	}
}

func (s *Server) RatingHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := pathPlayerID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		history, err := s.Stats.RatingHistory(r.Context(), playerID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, history)
	}
}

func scopeAndPlayer(r *http.Request) (club.Scope, int64, error) {
	playerID, err := pathPlayerID(r)
	if err != nil {
		return club.Scope{}, 0, err
	}
	scope, err := parseScope(r)
	return scope, playerID, err
}

// SessionLockedHandler receives session lock-in events from a Pub/Sub push subscription.
// Unknown sessions are acknowledged so Pub/Sub stops redelivering them.
func (s *Server) SessionLockedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received session locked message", "body", string(bodyBytes))

		var envelope pushEnvelope
		if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		var event pubsub.SessionLockedEvent
		if err := s.Decoder.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}

		jobIDs, err := s.Processor.HandleSessionLockIn(r.Context(), event.SessionID)
		if errors.Is(err, club.ErrSessionNotFound) {
			log.Warn("Dropping event for unknown session", "sessionID", event.SessionID, "messageID", envelope.Message.MessageID)
			writeJSON(w, http.StatusOK, sessionLockedResponse{SessionID: event.SessionID, JobIDs: []string{}})
			return
		}
		if err != nil {
			log.Error("Failed to handle session lock-in", "error", err, "sessionID", event.SessionID)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if jobIDs == nil {
			jobIDs = []string{}
		}
		writeJSON(w, http.StatusOK, sessionLockedResponse{SessionID: event.SessionID, JobIDs: jobIDs})
	}
}
