package club

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mauv0809/padel-ratings/internal/rating"
)

var (
	ErrLeagueNotFound  = errors.New("league not found")
	ErrSeasonNotFound  = errors.New("season not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrMatchNotFound   = errors.New("match not found")
)

// store handles all database operations for the club.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// SessionStatus is the lifecycle state of a play session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "ACTIVE"
	SessionSubmitted SessionStatus = "SUBMITTED"
	SessionEdited    SessionStatus = "EDITED"
)

// IsLockedIn reports whether matches of a session in this state count towards ratings.
func (s SessionStatus) IsLockedIn() bool {
	return s == SessionSubmitted || s == SessionEdited
}

// ScopeKind is the granularity of a recalculation.
type ScopeKind string

const (
	ScopeGlobal ScopeKind = "global"
	ScopeLeague ScopeKind = "league"
	ScopeSeason ScopeKind = "season"
)

// Scope selects a set of matches. ID is zero for the global scope.
type Scope struct {
	Kind ScopeKind
	ID   int64
}

func GlobalScope() Scope         { return Scope{Kind: ScopeGlobal} }
func LeagueScope(id int64) Scope { return Scope{Kind: ScopeLeague, ID: id} }
func SeasonScope(id int64) Scope { return Scope{Kind: ScopeSeason, ID: id} }

func (s Scope) String() string {
	if s.Kind == ScopeGlobal {
		return string(s.Kind)
	}
	return fmt.Sprintf("%s:%d", s.Kind, s.ID)
}

// Player represents a player in the store.
type Player struct {
	ID   int64
	Name string
}

// League groups seasons.
type League struct {
	ID   int64
	Name string
}

// Season belongs to exactly one league.
type Season struct {
	ID       int64
	LeagueID int64
	Name     string
}

// Session is a block of matches played together. Sessions outside a season only count globally.
type Session struct {
	ID        int64
	SeasonID  *int64
	LeagueID  *int64 // resolved through the season
	Name      string
	Status    SessionStatus
	CreatedAt time.Time
}

// Match is a doubles result between team 1 (Team1P1, Team1P2) and team 2 (Team2P1, Team2P2).
type Match struct {
	ID         int64
	SessionID  *int64
	SeasonID   *int64 // resolved through the session
	Date       time.Time
	Team1P1    int64
	Team1P2    int64
	Team2P1    int64
	Team2P2    int64
	Team1Score int
	Team2Score int
	IsRanked   bool
}

// Winner derives the winning side from the scores.
func (m Match) Winner() rating.Winner {
	return rating.DetermineWinner(m.Team1Score, m.Team2Score)
}

// Players returns the four player ids in team order.
func (m Match) Players() [4]int64 {
	return [4]int64{m.Team1P1, m.Team1P2, m.Team2P1, m.Team2P2}
}

// HasDistinctPlayers reports whether all four slots hold different players.
func (m Match) HasDistinctPlayers() bool {
	p := m.Players()
	for i := 0; i < len(p); i++ {
		for j := i + 1; j < len(p); j++ {
			if p[i] == p[j] {
				return false
			}
		}
	}
	return true
}
