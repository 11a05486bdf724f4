package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	tables := []string{
		"players", "leagues", "seasons", "sessions", "matches",
		"player_stats", "partnership_stats", "opponent_stats", "rating_history",
		"recalculation_jobs",
	}
	for _, table := range tables {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_RejectsDuplicatePlayersInMatch(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()

	_, err = db.Exec(`INSERT INTO players (id, name) VALUES (1, 'A'), (2, 'B'), (3, 'C')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO matches (played_at, team1_p1, team1_p2, team2_p1, team2_p2, team1_score, team2_score)
		VALUES (0, 1, 2, 3, 1, 21, 10)`)
	assert.Error(t, err, "a player cannot appear twice in one match")
}

func TestWithTransaction(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		err := WithTransaction(ctx, db, func(tx *sql.Tx) error {
			_, err := tx.Exec(`INSERT INTO players (id, name) VALUES (1, 'Committed')`)
			return err
		})
		require.NoError(t, err)

		var count int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM players WHERE id = 1`).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := WithTransaction(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(`INSERT INTO players (id, name) VALUES (2, 'Rolled back')`); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		var count int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM players WHERE id = 2`).Scan(&count))
		assert.Equal(t, 0, count)
	})
}
