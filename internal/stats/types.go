package stats

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/mauv0809/padel-ratings/internal/club"
)

// ErrInvalidMatch is returned when a match cannot be aggregated.
var ErrInvalidMatch = errors.New("invalid match")

// store persists derived statistics.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// TrajectoryPoint is a player's rating right after one match.
type TrajectoryPoint struct {
	MatchID     int64
	RatingAfter float64
	RatingDelta float64
	Date        time.Time
}

// PlayerSummary is the persisted per-scope summary row of one player.
type PlayerSummary struct {
	PlayerID      int64   `json:"player_id"`
	Name          string  `json:"name,omitempty"`
	CurrentRating float64 `json:"current_rating"`
	Games         int     `json:"games"`
	Wins          int     `json:"wins"`
	Points        int     `json:"points"`
	WinRate       float64 `json:"win_rate"`
	AvgPointDiff  float64 `json:"avg_point_diff"`
}

// PairStats is a player's record with (partnership) or against (opponent) another player.
type PairStats struct {
	PlayerID      int64   `json:"player_id"`
	OtherPlayerID int64   `json:"other_player_id"`
	Games         int     `json:"games"`
	Wins          int     `json:"wins"`
	Points        int     `json:"points"`
	WinRate       float64 `json:"win_rate"`
	AvgPointDiff  float64 `json:"avg_point_diff"`
}

// PartnershipStats is keyed by (player, partner).
type PartnershipStats = PairStats

// OpponentStats is keyed by (player, opponent).
type OpponentStats = PairStats

// RatingHistory is one (player, match) rating row.
type RatingHistory struct {
	PlayerID    int64     `json:"player_id"`
	MatchID     int64     `json:"match_id"`
	RatingAfter float64   `json:"rating_after"`
	RatingDelta float64   `json:"rating_delta"`
	Date        time.Time `json:"date"`
}

// Snapshot is the full derived state of one scope, ready to replace what is persisted.
type Snapshot struct {
	Scope         club.Scope
	MatchCount    int
	Players       []PlayerSummary
	Partnerships  []PartnershipStats
	Opponents     []OpponentStats
	RatingHistory []RatingHistory
}

// PlayerCount is the number of players that appeared in the scope.
func (s Snapshot) PlayerCount() int {
	return len(s.Players)
}
