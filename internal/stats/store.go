package stats

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-ratings/internal/club"
	"github.com/mauv0809/padel-ratings/internal/database"
)

// NewStore creates a new Store.
func NewStore(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// pairTables maps each pair table to the column holding the other player.
var pairTables = []struct {
	table  string
	column string
}{
	{"partnership_stats", "partner_id"},
	{"opponent_stats", "opponent_id"},
}

func scopeKey(scope club.Scope) (string, int64) {
	if scope.Kind == club.ScopeGlobal {
		return string(club.ScopeGlobal), 0
	}
	return string(scope.Kind), scope.ID
}

func (s *store) ReplaceGlobal(ctx context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := replaceScope(ctx, tx, club.GlobalScope(), snap); err != nil {
			return err
		}
		return replaceRatingHistory(ctx, tx, snap.RatingHistory)
	})
	if err != nil {
		return fmt.Errorf("failed to replace global stats: %w", err)
	}
	log.Debug("Replaced global stats", "players", snap.PlayerCount(), "history", len(snap.RatingHistory), "duration", time.Since(start))
	return nil
}

func (s *store) ReplaceLeague(ctx context.Context, leagueID int64, league Snapshot, seasons map[int64]Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seasonIDs := make([]int64, 0, len(seasons))
	for id := range seasons {
		seasonIDs = append(seasonIDs, id)
	}
	slices.Sort(seasonIDs)

	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := replaceScope(ctx, tx, club.LeagueScope(leagueID), league); err != nil {
			return err
		}
		for _, id := range seasonIDs {
			if err := replaceScope(ctx, tx, club.SeasonScope(id), seasons[id]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace league %d stats: %w", leagueID, err)
	}
	return nil
}

func (s *store) ReplaceSeason(ctx context.Context, seasonID int64, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		return replaceScope(ctx, tx, club.SeasonScope(seasonID), snap)
	})
	if err != nil {
		return fmt.Errorf("failed to replace season %d stats: %w", seasonID, err)
	}
	return nil
}

// replaceScope deletes every summary, partnership and opponent row of the scope and inserts snap.
func replaceScope(ctx context.Context, tx *sql.Tx, scope club.Scope, snap Snapshot) error {
	scopeType, scopeID := scopeKey(scope)

	if _, err := tx.ExecContext(ctx, "DELETE FROM player_stats WHERE scope_type = ? AND scope_id = ?", scopeType, scopeID); err != nil {
		return fmt.Errorf("failed to clear player stats for %s: %w", scope, err)
	}
	for _, pt := range pairTables {
		query := fmt.Sprintf("DELETE FROM %s WHERE scope_type = ? AND scope_id = ?", pt.table)
		if _, err := tx.ExecContext(ctx, query, scopeType, scopeID); err != nil {
			return fmt.Errorf("failed to clear %s for %s: %w", pt.table, scope, err)
		}
	}

	if len(snap.Players) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO player_stats (scope_type, scope_id, player_id, current_rating, games, wins, points, win_rate, avg_point_diff)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare player stats insert: %w", err)
		}
		defer stmt.Close()
		for _, p := range snap.Players {
			if _, err := stmt.ExecContext(ctx, scopeType, scopeID, p.PlayerID, p.CurrentRating, p.Games, p.Wins, p.Points, p.WinRate, p.AvgPointDiff); err != nil {
				return fmt.Errorf("failed to insert player stats for player %d: %w", p.PlayerID, err)
			}
		}
	}

	if err := insertPairs(ctx, tx, pairTables[0].table, pairTables[0].column, scopeType, scopeID, snap.Partnerships); err != nil {
		return err
	}
	return insertPairs(ctx, tx, pairTables[1].table, pairTables[1].column, scopeType, scopeID, snap.Opponents)
}

func insertPairs(ctx context.Context, tx *sql.Tx, table, column, scopeType string, scopeID int64, pairs []PairStats) error {
	if len(pairs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (scope_type, scope_id, player_id, %s, games, wins, points, win_rate, avg_point_diff)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, table, column))
	if err != nil {
		return fmt.Errorf("failed to prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for _, p := range pairs {
		if _, err := stmt.ExecContext(ctx, scopeType, scopeID, p.PlayerID, p.OtherPlayerID, p.Games, p.Wins, p.Points, p.WinRate, p.AvgPointDiff); err != nil {
			return fmt.Errorf("failed to insert %s row (%d, %d): %w", table, p.PlayerID, p.OtherPlayerID, err)
		}
	}
	return nil
}

func replaceRatingHistory(ctx context.Context, tx *sql.Tx, history []RatingHistory) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM rating_history"); err != nil {
		return fmt.Errorf("failed to clear rating history: %w", err)
	}
	if len(history) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rating_history (player_id, match_id, rating_after, rating_delta, played_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare rating history insert: %w", err)
	}
	defer stmt.Close()

	for _, h := range history {
		if _, err := stmt.ExecContext(ctx, h.PlayerID, h.MatchID, h.RatingAfter, h.RatingDelta, h.Date.Unix()); err != nil {
			return fmt.Errorf("failed to insert rating history (%d, %d): %w", h.PlayerID, h.MatchID, err)
		}
	}
	return nil
}

// Leaderboard returns the scope's players by rating, highest first.
func (s *store) Leaderboard(ctx context.Context, scope club.Scope) ([]PlayerSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scopeType, scopeID := scopeKey(scope)
	rows, err := s.db.QueryContext(ctx, `
		SELECT ps.player_id, COALESCE(p.name, ''), ps.current_rating, ps.games, ps.wins, ps.points, ps.win_rate, ps.avg_point_diff
		FROM player_stats ps
		LEFT JOIN players p ON p.id = ps.player_id
		WHERE ps.scope_type = ? AND ps.scope_id = ?
		ORDER BY ps.current_rating DESC, ps.player_id ASC`, scopeType, scopeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard for %s: %w", scope, err)
	}
	defer rows.Close()

	players := []PlayerSummary{}
	for rows.Next() {
		var p PlayerSummary
		if err := rows.Scan(&p.PlayerID, &p.Name, &p.CurrentRating, &p.Games, &p.Wins, &p.Points, &p.WinRate, &p.AvgPointDiff); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) Partnerships(ctx context.Context, scope club.Scope, playerID int64) ([]PartnershipStats, error) {
	return s.pairs(ctx, pairTables[0].table, pairTables[0].column, scope, playerID)
}

func (s *store) Opponents(ctx context.Context, scope club.Scope, playerID int64) ([]OpponentStats, error) {
	return s.pairs(ctx, pairTables[1].table, pairTables[1].column, scope, playerID)
}

func (s *store) pairs(ctx context.Context, table, column string, scope club.Scope, playerID int64) ([]PairStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scopeType, scopeID := scopeKey(scope)
	query := fmt.Sprintf(`
		SELECT player_id, %s, games, wins, points, win_rate, avg_point_diff
		FROM %s
		WHERE scope_type = ? AND scope_id = ? AND player_id = ?
		ORDER BY %s`, column, table, column)
	rows, err := s.db.QueryContext(ctx, query, scopeType, scopeID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	pairs := []PairStats{}
	for rows.Next() {
		var p PairStats
		if err := rows.Scan(&p.PlayerID, &p.OtherPlayerID, &p.Games, &p.Wins, &p.Points, &p.WinRate, &p.AvgPointDiff); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// RatingHistory returns a player's global rating trajectory in match order.
func (s *store) RatingHistory(ctx context.Context, playerID int64) ([]RatingHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id, match_id, rating_after, rating_delta, played_at
		FROM rating_history
		WHERE player_id = ?
		ORDER BY played_at ASC, match_id ASC`, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating history: %w", err)
	}
	defer rows.Close()

	history := []RatingHistory{}
	for rows.Next() {
		var h RatingHistory
		var playedAt int64
		if err := rows.Scan(&h.PlayerID, &h.MatchID, &h.RatingAfter, &h.RatingDelta, &playedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating history row: %w", err)
		}
		h.Date = time.Unix(playedAt, 0).UTC()
		history = append(history, h)
	}
	return history, rows.Err()
}
