package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-ratings/internal/club"
)

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// parseID reads an optional int64 query parameter.
func parseID(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: id %q is not a number", errBadRequest, raw)
	}
	return &id, nil
}

// parseScope reads ?scope=global|league|season&id=N. The scope defaults to global.
func parseScope(r *http.Request) (club.Scope, error) {
	kind := club.ScopeKind(r.URL.Query().Get("scope"))
	if kind == "" {
		kind = club.ScopeGlobal
	}
	id, err := parseID(r.URL.Query().Get("id"))
	if err != nil {
		return club.Scope{}, err
	}

	switch kind {
	case club.ScopeGlobal:
		return club.GlobalScope(), nil
	case club.ScopeLeague, club.ScopeSeason:
		if id == nil {
			return club.Scope{}, fmt.Errorf("%w: scope %s needs an id", errBadRequest, kind)
		}
		return club.Scope{Kind: kind, ID: *id}, nil
	default:
		return club.Scope{}, fmt.Errorf("%w: unknown scope %q", errBadRequest, kind)
	}
}

func pathPlayerID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: player id %q is not a number", errBadRequest, r.PathValue("id"))
	}
	return id, nil
}
