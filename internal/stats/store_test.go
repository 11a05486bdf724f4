package stats_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/mauv0809/padel-ratings/internal/club"
	"github.com/mauv0809/padel-ratings/internal/database"
	"github.com/mauv0809/padel-ratings/internal/rating"
	"github.com/mauv0809/padel-ratings/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (stats.Store, *sql.DB) {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	players := club.New(db)
	for id, name := range map[int64]string{1: "Ana", 2: "Ben", 3: "Cleo", 4: "Dan", 5: "Eve"} {
		require.NoError(t, players.AddPlayer(context.Background(), id, name))
	}
	return stats.NewStore(db), db
}

func countRows(t *testing.T, db *sql.DB, table, scopeType string, scopeID int64) int {
	t.Helper()
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE scope_type = ? AND scope_id = ?", scopeType, scopeID).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestReplaceGlobal(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	snap, err := stats.Build(rating.DefaultModel(), club.GlobalScope(), []club.Match{
		match(1, 1, [4]int64{1, 2, 3, 4}, 21, 19),
	})
	require.NoError(t, err)
	require.NoError(t, store.ReplaceGlobal(ctx, snap))

	assert.Equal(t, 4, countRows(t, db, "player_stats", "global", 0))
	assert.Equal(t, 4, countRows(t, db, "partnership_stats", "global", 0))
	assert.Equal(t, 8, countRows(t, db, "opponent_stats", "global", 0))

	board, err := store.Leaderboard(ctx, club.GlobalScope())
	require.NoError(t, err)
	require.Len(t, board, 4)
	assert.Equal(t, int64(1), board[0].PlayerID)
	assert.Equal(t, "Ana", board[0].Name)
	assert.Equal(t, board[0].CurrentRating, board[1].CurrentRating)
	assert.Greater(t, board[0].CurrentRating, board[2].CurrentRating)

	partners, err := store.Partnerships(ctx, club.GlobalScope(), 1)
	require.NoError(t, err)
	require.Len(t, partners, 1)
	assert.Equal(t, int64(2), partners[0].OtherPlayerID)
	assert.Equal(t, 1, partners[0].Wins)
	assert.Equal(t, 2.0, partners[0].AvgPointDiff)

	opponents, err := store.Opponents(ctx, club.GlobalScope(), 3)
	require.NoError(t, err)
	require.Len(t, opponents, 2)
	assert.Equal(t, []int64{1, 2}, []int64{opponents[0].OtherPlayerID, opponents[1].OtherPlayerID})
	assert.Equal(t, -2.0, opponents[0].AvgPointDiff)

	history, err := store.RatingHistory(ctx, 4)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, int64(1), history[0].MatchID)
	assert.Negative(t, history[0].RatingDelta)
	assert.True(t, history[0].Date.Equal(match(1, 1, [4]int64{}, 0, 0).Date))

	t.Run("empty snapshot clears rows", func(t *testing.T) {
		empty, err := stats.Build(rating.DefaultModel(), club.GlobalScope(), nil)
		require.NoError(t, err)
		require.NoError(t, store.ReplaceGlobal(ctx, empty))

		assert.Zero(t, countRows(t, db, "player_stats", "global", 0))
		assert.Zero(t, countRows(t, db, "partnership_stats", "global", 0))
		assert.Zero(t, countRows(t, db, "opponent_stats", "global", 0))
		history, err := store.RatingHistory(ctx, 4)
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}

func TestReplaceLeagueIsolatesScopes(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()
	model := rating.DefaultModel()

	global, err := stats.Build(model, club.GlobalScope(), []club.Match{match(1, 1, [4]int64{1, 2, 3, 4}, 6, 2)})
	require.NoError(t, err)
	require.NoError(t, store.ReplaceGlobal(ctx, global))

	s1 := []club.Match{match(2, 2, [4]int64{1, 2, 3, 4}, 6, 2)}
	s2 := []club.Match{match(3, 3, [4]int64{1, 5, 3, 4}, 6, 4)}
	league, err := stats.Build(model, club.LeagueScope(9), append(append([]club.Match{}, s1...), s2...))
	require.NoError(t, err)
	season1, err := stats.Build(model, club.SeasonScope(11), s1)
	require.NoError(t, err)
	season2, err := stats.Build(model, club.SeasonScope(12), s2)
	require.NoError(t, err)

	require.NoError(t, store.ReplaceLeague(ctx, 9, league, map[int64]stats.Snapshot{11: season1, 12: season2}))

	assert.Equal(t, 5, countRows(t, db, "player_stats", "league", 9))
	assert.Equal(t, 4, countRows(t, db, "player_stats", "season", 11))
	assert.Equal(t, 4, countRows(t, db, "player_stats", "season", 12))
	assert.Equal(t, 4, countRows(t, db, "player_stats", "global", 0), "league rebuild leaves the global scope alone")

	partners, err := store.Partnerships(ctx, club.SeasonScope(11), 1)
	require.NoError(t, err)
	require.Len(t, partners, 1)
	assert.Equal(t, int64(2), partners[0].OtherPlayerID)

	partners, err = store.Partnerships(ctx, club.SeasonScope(12), 1)
	require.NoError(t, err)
	require.Len(t, partners, 1)
	assert.Equal(t, int64(5), partners[0].OtherPlayerID)

	t.Run("season rebuild only touches its season", func(t *testing.T) {
		empty, err := stats.Build(model, club.SeasonScope(12), nil)
		require.NoError(t, err)
		require.NoError(t, store.ReplaceSeason(ctx, 12, empty))

		assert.Zero(t, countRows(t, db, "player_stats", "season", 12))
		assert.Zero(t, countRows(t, db, "opponent_stats", "season", 12))
		assert.Equal(t, 4, countRows(t, db, "player_stats", "season", 11))
		assert.Equal(t, 5, countRows(t, db, "player_stats", "league", 9))
	})
}

func TestReplaceRollsBackOnError(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	good, err := stats.Build(rating.DefaultModel(), club.SeasonScope(1), []club.Match{match(1, 1, [4]int64{1, 2, 3, 4}, 6, 2)})
	require.NoError(t, err)
	require.NoError(t, store.ReplaceSeason(ctx, 1, good))

	bad := good
	bad.Players = append([]stats.PlayerSummary{}, good.Players...)
	bad.Players = append(bad.Players, good.Players[0])

	err = store.ReplaceSeason(ctx, 1, bad)
	require.Error(t, err)
	assert.Equal(t, 4, countRows(t, db, "player_stats", "season", 1))
	assert.Equal(t, 8, countRows(t, db, "opponent_stats", "season", 1))
}
