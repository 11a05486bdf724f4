package stats

import (
	"context"

	"github.com/mauv0809/padel-ratings/internal/club"
)

// Store persists derived statistics. Every Replace call swaps a scope's rows atomically.
type Store interface {
	ReplaceGlobal(ctx context.Context, snap Snapshot) error
	// ReplaceLeague rewrites the league scope and each given season scope in one transaction.
	ReplaceLeague(ctx context.Context, leagueID int64, league Snapshot, seasons map[int64]Snapshot) error
	ReplaceSeason(ctx context.Context, seasonID int64, snap Snapshot) error

	Leaderboard(ctx context.Context, scope club.Scope) ([]PlayerSummary, error)
	Partnerships(ctx context.Context, scope club.Scope, playerID int64) ([]PartnershipStats, error)
	Opponents(ctx context.Context, scope club.Scope, playerID int64) ([]OpponentStats, error)
	RatingHistory(ctx context.Context, playerID int64) ([]RatingHistory, error)
}
