package club

import "context"

// ClubStore defines the interface for interacting with the club's data.
// Recalculation only reads; the write methods serve seeding, tooling and tests.
type ClubStore interface {
	EligibleMatches(ctx context.Context, scope Scope) ([]Match, error)
	GetLeague(ctx context.Context, leagueID int64) (*League, error)
	GetSeason(ctx context.Context, seasonID int64) (*Season, error)
	SeasonsForLeague(ctx context.Context, leagueID int64) ([]Season, error)
	GetSession(ctx context.Context, sessionID int64) (*Session, error)

	AddPlayer(ctx context.Context, playerID int64, name string) error
	GetAllPlayers(ctx context.Context) ([]Player, error)
	CreateLeague(ctx context.Context, name string) (int64, error)
	CreateSeason(ctx context.Context, leagueID int64, name string) (int64, error)
	CreateSession(ctx context.Context, seasonID *int64, name string, status SessionStatus) (int64, error)
	UpdateSessionStatus(ctx context.Context, sessionID int64, status SessionStatus) error
	InsertMatch(ctx context.Context, match *Match) (int64, error)
	DeleteMatch(ctx context.Context, matchID int64) error
}
