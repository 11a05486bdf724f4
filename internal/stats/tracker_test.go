package stats_test

import (
	"testing"
	"time"

	"github.com/mauv0809/padel-ratings/internal/club"
	"github.com/mauv0809/padel-ratings/internal/rating"
	"github.com/mauv0809/padel-ratings/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func match(id int64, day int, players [4]int64, s1, s2 int) club.Match {
	return club.Match{
		ID:         id,
		Date:       time.Date(2026, 3, day, 19, 0, 0, 0, time.UTC),
		Team1P1:    players[0],
		Team1P2:    players[1],
		Team2P1:    players[2],
		Team2P2:    players[3],
		Team1Score: s1,
		Team2Score: s2,
		IsRanked:   true,
	}
}

func TestTrackerSingleMatch(t *testing.T) {
	tracker := stats.NewTracker(rating.DefaultModel())
	require.NoError(t, tracker.ProcessMatch(match(1, 1, [4]int64{1, 2, 3, 4}, 6, 3)))

	for _, id := range []int64{1, 2} {
		p, ok := tracker.Player(id)
		require.True(t, ok)
		assert.InDelta(t, 1216.0, p.Rating, 1e-9)
		assert.Equal(t, 1, p.GameCount)
		assert.Equal(t, 1, p.WinCount)
		assert.Equal(t, 3, p.TotalPointDiff)
		assert.Equal(t, 3, p.Points())
		assert.Equal(t, 1.0, p.WinRate())
	}
	for _, id := range []int64{3, 4} {
		p, ok := tracker.Player(id)
		require.True(t, ok)
		assert.InDelta(t, 1184.0, p.Rating, 1e-9)
		assert.Equal(t, 0, p.WinCount)
		assert.Equal(t, -3, p.TotalPointDiff)
		assert.Equal(t, 1, p.Points())
		assert.Equal(t, 0.0, p.WinRate())
	}

	p1, _ := tracker.Player(1)
	assert.Equal(t, 1, p1.GamesWith[2])
	assert.Equal(t, 1, p1.WinsWith[2])
	assert.Equal(t, 1, p1.GamesAgainst[3])
	assert.Equal(t, 1, p1.GamesAgainst[4])
	assert.Zero(t, p1.GamesWith[3])
	require.Len(t, p1.Trajectory, 1)
	assert.Equal(t, int64(1), p1.Trajectory[0].MatchID)
	assert.InDelta(t, 16.0, p1.Trajectory[0].RatingDelta, 1e-9)
}

func TestTrackerZeroSum(t *testing.T) {
	model := rating.DefaultModel()
	model.PointDiff = true
	tracker := stats.NewTracker(model)

	matches := []club.Match{
		match(1, 1, [4]int64{1, 2, 3, 4}, 6, 4),
		match(2, 2, [4]int64{1, 3, 2, 4}, 2, 6),
		match(3, 3, [4]int64{4, 1, 2, 5}, 7, 5),
		match(4, 4, [4]int64{5, 3, 1, 2}, 6, 6),
	}
	require.NoError(t, tracker.ProcessAll(matches))

	total := 0.0
	for _, p := range tracker.Players() {
		total += p.Rating
	}
	assert.InDelta(t, 5*rating.DefaultInitialRating, total, 1e-9)
}

func TestTrackerTie(t *testing.T) {
	tracker := stats.NewTracker(rating.DefaultModel())
	require.NoError(t, tracker.ProcessMatch(match(1, 1, [4]int64{1, 2, 3, 4}, 5, 5)))

	for _, p := range tracker.Players() {
		assert.Equal(t, rating.DefaultInitialRating, p.Rating)
		assert.Equal(t, 1, p.GameCount)
		assert.Equal(t, 0, p.WinCount)
		assert.Equal(t, 1, p.Points())
	}
}

func TestTrackerPairSymmetry(t *testing.T) {
	tracker := stats.NewTracker(rating.DefaultModel())
	require.NoError(t, tracker.ProcessAll([]club.Match{
		match(1, 1, [4]int64{1, 2, 3, 4}, 6, 1),
		match(2, 2, [4]int64{1, 3, 2, 4}, 6, 4),
		match(3, 3, [4]int64{1, 4, 2, 3}, 3, 6),
	}))

	for _, a := range tracker.Players() {
		for other, games := range a.GamesWith {
			b, ok := tracker.Player(other)
			require.True(t, ok)
			assert.Equal(t, games, b.GamesWith[a.PlayerID])
			assert.Equal(t, a.WinsWith[other], b.WinsWith[a.PlayerID])
			assert.Equal(t, a.PointDiffWith[other], b.PointDiffWith[a.PlayerID])
		}
		for other, games := range a.GamesAgainst {
			b, ok := tracker.Player(other)
			require.True(t, ok)
			assert.Equal(t, games, b.GamesAgainst[a.PlayerID])
			assert.Equal(t, games-a.WinsAgainst[other], b.WinsAgainst[a.PlayerID])
			assert.Equal(t, a.PointDiffAgainst[other], -b.PointDiffAgainst[a.PlayerID])
		}
	}

	p1, _ := tracker.Player(1)
	assert.Equal(t, 3, p1.GameCount)
	assert.Equal(t, 2, p1.GamesAgainst[3])
	assert.Equal(t, 1, p1.GamesWith[3])
}

func TestTrackerRejectsInvalidMatches(t *testing.T) {
	t.Run("duplicate player", func(t *testing.T) {
		tracker := stats.NewTracker(rating.DefaultModel())
		err := tracker.ProcessMatch(match(1, 1, [4]int64{1, 2, 2, 4}, 6, 3))
		assert.ErrorIs(t, err, stats.ErrInvalidMatch)
		assert.Empty(t, tracker.Players())
	})

	t.Run("out of order", func(t *testing.T) {
		tracker := stats.NewTracker(rating.DefaultModel())
		require.NoError(t, tracker.ProcessMatch(match(2, 2, [4]int64{1, 2, 3, 4}, 6, 3)))
		err := tracker.ProcessMatch(match(1, 1, [4]int64{1, 2, 3, 4}, 6, 3))
		assert.ErrorIs(t, err, stats.ErrInvalidMatch)
	})

	t.Run("unranked ignored", func(t *testing.T) {
		tracker := stats.NewTracker(rating.DefaultModel())
		m := match(1, 1, [4]int64{1, 2, 3, 4}, 6, 3)
		m.IsRanked = false
		require.NoError(t, tracker.ProcessMatch(m))
		assert.Zero(t, tracker.MatchCount())
		assert.Empty(t, tracker.Players())
	})
}

func TestBuildIsDeterministic(t *testing.T) {
	matches := []club.Match{
		match(3, 2, [4]int64{2, 4, 1, 3}, 6, 2),
		match(1, 1, [4]int64{1, 2, 3, 4}, 6, 3),
		match(2, 1, [4]int64{1, 3, 2, 4}, 4, 6),
	}
	reversed := []club.Match{matches[2], matches[1], matches[0]}

	first, err := stats.Build(rating.DefaultModel(), club.GlobalScope(), matches)
	require.NoError(t, err)
	second, err := stats.Build(rating.DefaultModel(), club.GlobalScope(), reversed)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 3, first.MatchCount)
	assert.Equal(t, 4, first.PlayerCount())
	assert.Len(t, first.RatingHistory, 12)

	// Input slice must not be reordered.
	assert.Equal(t, int64(3), matches[0].ID)

	for i := 1; i < len(first.Players); i++ {
		assert.Less(t, first.Players[i-1].PlayerID, first.Players[i].PlayerID)
	}
	// Same-day matches resolve by id: match 1 is applied before match 2.
	assert.Equal(t, int64(1), first.RatingHistory[0].MatchID)
	assert.Equal(t, int64(2), first.RatingHistory[1].MatchID)
}

func TestBuildEmpty(t *testing.T) {
	snap, err := stats.Build(rating.DefaultModel(), club.SeasonScope(7), nil)
	require.NoError(t, err)
	assert.Equal(t, club.SeasonScope(7), snap.Scope)
	assert.Zero(t, snap.MatchCount)
	assert.Empty(t, snap.Players)
	assert.NotNil(t, snap.Players)
}
