package club_test

import (
	"context"
	"testing"
	"time"

	"github.com/mauv0809/padel-ratings/internal/club"
	"github.com/mauv0809/padel-ratings/internal/database"
	"github.com/mauv0809/padel-ratings/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database with four players for testing.
func setupTestDB(t *testing.T) (club.ClubStore, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	store := club.New(db)
	ctx := context.Background()
	for id, name := range map[int64]string{1: "Ana", 2: "Ben", 3: "Cleo", 4: "Dan", 5: "Eve"} {
		require.NoError(t, store.AddPlayer(ctx, id, name))
	}
	return store, teardown
}

func newMatch(session *int64, day int, s1, s2 int) *club.Match {
	return &club.Match{
		SessionID:  session,
		Date:       time.Date(2026, 1, day, 18, 0, 0, 0, time.UTC),
		Team1P1:    1,
		Team1P2:    2,
		Team2P1:    3,
		Team2P2:    4,
		Team1Score: s1,
		Team2Score: s2,
		IsRanked:   true,
	}
}

func matchIDs(matches []club.Match) []int64 {
	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestEligibleMatches(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	leagueID, err := store.CreateLeague(ctx, "Tuesday League")
	require.NoError(t, err)
	otherLeague, err := store.CreateLeague(ctx, "Weekend League")
	require.NoError(t, err)
	s1, err := store.CreateSeason(ctx, leagueID, "Spring")
	require.NoError(t, err)
	s2, err := store.CreateSeason(ctx, leagueID, "Autumn")
	require.NoError(t, err)
	s3, err := store.CreateSeason(ctx, otherLeague, "Open")
	require.NoError(t, err)

	submitted, err := store.CreateSession(ctx, &s1, "week 1", club.SessionSubmitted)
	require.NoError(t, err)
	edited, err := store.CreateSession(ctx, &s2, "week 1", club.SessionEdited)
	require.NoError(t, err)
	active, err := store.CreateSession(ctx, &s1, "week 2", club.SessionActive)
	require.NoError(t, err)
	otherSession, err := store.CreateSession(ctx, &s3, "open day", club.SessionSubmitted)
	require.NoError(t, err)

	mSubmitted, err := store.InsertMatch(ctx, newMatch(&submitted, 3, 21, 19))
	require.NoError(t, err)
	mEdited, err := store.InsertMatch(ctx, newMatch(&edited, 2, 21, 15))
	require.NoError(t, err)
	_, err = store.InsertMatch(ctx, newMatch(&active, 1, 21, 10))
	require.NoError(t, err)
	mNoSession, err := store.InsertMatch(ctx, newMatch(nil, 1, 10, 21))
	require.NoError(t, err)
	unranked := newMatch(&submitted, 4, 21, 0)
	unranked.IsRanked = false
	_, err = store.InsertMatch(ctx, unranked)
	require.NoError(t, err)
	mOther, err := store.InsertMatch(ctx, newMatch(&otherSession, 5, 21, 18))
	require.NoError(t, err)

	t.Run("global includes sessionless and locked-in matches in date order", func(t *testing.T) {
		matches, err := store.EligibleMatches(ctx, club.GlobalScope())
		require.NoError(t, err)
		assert.Equal(t, []int64{mNoSession, mEdited, mSubmitted, mOther}, matchIDs(matches))
	})

	t.Run("league covers all of its seasons", func(t *testing.T) {
		matches, err := store.EligibleMatches(ctx, club.LeagueScope(leagueID))
		require.NoError(t, err)
		assert.Equal(t, []int64{mEdited, mSubmitted}, matchIDs(matches))
		require.NotNil(t, matches[0].SeasonID)
		assert.Equal(t, s2, *matches[0].SeasonID)
	})

	t.Run("season is isolated", func(t *testing.T) {
		matches, err := store.EligibleMatches(ctx, club.SeasonScope(s1))
		require.NoError(t, err)
		assert.Equal(t, []int64{mSubmitted}, matchIDs(matches))
	})

	t.Run("same date falls back to id order", func(t *testing.T) {
		a, err := store.InsertMatch(ctx, newMatch(&otherSession, 9, 21, 1))
		require.NoError(t, err)
		b, err := store.InsertMatch(ctx, newMatch(&otherSession, 9, 21, 2))
		require.NoError(t, err)
		matches, err := store.EligibleMatches(ctx, club.SeasonScope(s3))
		require.NoError(t, err)
		assert.Equal(t, []int64{mOther, a, b}, matchIDs(matches))
	})
}

func TestMatchFields(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	m := newMatch(nil, 7, 18, 21)
	_, err := store.InsertMatch(ctx, m)
	require.NoError(t, err)

	matches, err := store.EligibleMatches(ctx, club.GlobalScope())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	got := matches[0]
	assert.Equal(t, m.Date, got.Date)
	assert.Equal(t, [4]int64{1, 2, 3, 4}, got.Players())
	assert.Equal(t, rating.Team2, got.Winner())
	assert.True(t, got.IsRanked)
	assert.Nil(t, got.SessionID)
	assert.True(t, got.HasDistinctPlayers())
}

func TestSessionsAndLookups(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	leagueID, err := store.CreateLeague(ctx, "League")
	require.NoError(t, err)
	seasonID, err := store.CreateSeason(ctx, leagueID, "S1")
	require.NoError(t, err)
	sessionID, err := store.CreateSession(ctx, &seasonID, "week 1", club.SessionActive)
	require.NoError(t, err)
	loose, err := store.CreateSession(ctx, nil, "friendly", club.SessionActive)
	require.NoError(t, err)

	t.Run("session resolves league through season", func(t *testing.T) {
		session, err := store.GetSession(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, club.SessionActive, session.Status)
		require.NotNil(t, session.LeagueID)
		assert.Equal(t, leagueID, *session.LeagueID)
	})

	t.Run("session without season has no league", func(t *testing.T) {
		session, err := store.GetSession(ctx, loose)
		require.NoError(t, err)
		assert.Nil(t, session.SeasonID)
		assert.Nil(t, session.LeagueID)
	})

	t.Run("status update", func(t *testing.T) {
		require.NoError(t, store.UpdateSessionStatus(ctx, sessionID, club.SessionSubmitted))
		session, err := store.GetSession(ctx, sessionID)
		require.NoError(t, err)
		assert.True(t, session.Status.IsLockedIn())
		assert.ErrorIs(t, store.UpdateSessionStatus(ctx, 999, club.SessionEdited), club.ErrSessionNotFound)
	})

	t.Run("not found errors", func(t *testing.T) {
		_, err := store.GetLeague(ctx, 404)
		assert.ErrorIs(t, err, club.ErrLeagueNotFound)
		_, err = store.GetSeason(ctx, 404)
		assert.ErrorIs(t, err, club.ErrSeasonNotFound)
		_, err = store.GetSession(ctx, 404)
		assert.ErrorIs(t, err, club.ErrSessionNotFound)
		assert.ErrorIs(t, store.DeleteMatch(ctx, 404), club.ErrMatchNotFound)
	})

	t.Run("seasons for league", func(t *testing.T) {
		second, err := store.CreateSeason(ctx, leagueID, "S2")
		require.NoError(t, err)
		seasons, err := store.SeasonsForLeague(ctx, leagueID)
		require.NoError(t, err)
		require.Len(t, seasons, 2)
		assert.Equal(t, seasonID, seasons[0].ID)
		assert.Equal(t, second, seasons[1].ID)
	})
}

func TestAddPlayerRenames(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, store.AddPlayer(ctx, 1, "Ana Maria"))
	players, err := store.GetAllPlayers(ctx)
	require.NoError(t, err)
	assert.Len(t, players, 5)
	assert.Equal(t, "Ana Maria", players[0].Name)
}
