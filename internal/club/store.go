package club

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db: db,
	}
}

const eligibleMatchesQuery = `
	SELECT m.id, m.session_id, s.season_id, m.played_at,
		m.team1_p1, m.team1_p2, m.team2_p1, m.team2_p2,
		m.team1_score, m.team2_score, m.is_ranked
	FROM matches m
	LEFT JOIN sessions s ON s.id = m.session_id
	LEFT JOIN seasons se ON se.id = s.season_id
	WHERE m.is_ranked = 1
		AND (m.session_id IS NULL OR s.status IN ('SUBMITTED', 'EDITED'))`

// EligibleMatches returns the ranked, locked-in matches of a scope in processing order
// (date, then id). Matches of ACTIVE sessions are provisional and never returned.
func (s *store) EligibleMatches(ctx context.Context, scope Scope) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := eligibleMatchesQuery
	var args []any
	switch scope.Kind {
	case ScopeGlobal:
	case ScopeLeague:
		query += " AND se.league_id = ?"
		args = append(args, scope.ID)
	case ScopeSeason:
		query += " AND s.season_id = ?"
		args = append(args, scope.ID)
	default:
		return nil, fmt.Errorf("unknown scope kind %q", scope.Kind)
	}
	query += " ORDER BY m.played_at ASC, m.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible matches for %s: %w", scope, err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, *match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate eligible matches: %w", err)
	}
	log.Debug("Loaded eligible matches", "scope", scope.String(), "count", len(matches))
	return matches, nil
}

// scanMatch is a helper function to scan a single match row.
func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var match Match
	var sessionID, seasonID sql.NullInt64
	var playedAt int64

	err := scanner.Scan(
		&match.ID, &sessionID, &seasonID, &playedAt,
		&match.Team1P1, &match.Team1P2, &match.Team2P1, &match.Team2P2,
		&match.Team1Score, &match.Team2Score, &match.IsRanked,
	)
	if err != nil {
		return nil, err
	}
	match.Date = time.Unix(playedAt, 0).UTC()
	match.SessionID = nullableID(sessionID)
	match.SeasonID = nullableID(seasonID)
	return &match, nil
}

func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

func toNullInt64(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func (s *store) GetLeague(ctx context.Context, leagueID int64) (*League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var league League
	err := s.db.QueryRowContext(ctx, "SELECT id, name FROM leagues WHERE id = ?", leagueID).Scan(&league.ID, &league.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", ErrLeagueNotFound, leagueID)
		}
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return &league, nil
}

func (s *store) GetSeason(ctx context.Context, seasonID int64) (*Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var season Season
	err := s.db.QueryRowContext(ctx, "SELECT id, league_id, name FROM seasons WHERE id = ?", seasonID).
		Scan(&season.ID, &season.LeagueID, &season.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", ErrSeasonNotFound, seasonID)
		}
		return nil, fmt.Errorf("failed to get season: %w", err)
	}
	return &season, nil
}

// SeasonsForLeague returns every season of a league ordered by id.
func (s *store) SeasonsForLeague(ctx context.Context, leagueID int64) ([]Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, league_id, name FROM seasons WHERE league_id = ? ORDER BY id", leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query seasons: %w", err)
	}
	defer rows.Close()

	var seasons []Season
	for rows.Next() {
		var season Season
		if err := rows.Scan(&season.ID, &season.LeagueID, &season.Name); err != nil {
			return nil, fmt.Errorf("failed to scan season row: %w", err)
		}
		seasons = append(seasons, season)
	}
	return seasons, rows.Err()
}

// GetSession returns a session with its league resolved through the season.
func (s *store) GetSession(ctx context.Context, sessionID int64) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var session Session
	var seasonID, leagueID sql.NullInt64
	var createdAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT s.id, s.season_id, se.league_id, s.name, s.status, s.created_at
		FROM sessions s
		LEFT JOIN seasons se ON se.id = s.season_id
		WHERE s.id = ?`, sessionID).
		Scan(&session.ID, &seasonID, &leagueID, &session.Name, &session.Status, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	session.SeasonID = nullableID(seasonID)
	session.LeagueID = nullableID(leagueID)
	session.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &session, nil
}

// AddPlayer inserts a player or renames an existing one.
func (s *store) AddPlayer(ctx context.Context, playerID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`, playerID, name)
	if err != nil {
		log.Error("Failed to add player", "error", err, "playerID", playerID)
		return fmt.Errorf("failed to add player: %w", err)
	}
	log.Debug("Upserted player", "playerID", playerID, "name", name)
	return nil
}

func (s *store) GetAllPlayers(ctx context.Context) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM players ORDER BY name")
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) CreateLeague(ctx context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "INSERT INTO leagues (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("failed to create league: %w", err)
	}
	return res.LastInsertId()
}

func (s *store) CreateSeason(ctx context.Context, leagueID int64, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "INSERT INTO seasons (league_id, name) VALUES (?, ?)", leagueID, name)
	if err != nil {
		return 0, fmt.Errorf("failed to create season: %w", err)
	}
	return res.LastInsertId()
}

func (s *store) CreateSession(ctx context.Context, seasonID *int64, name string, status SessionStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "INSERT INTO sessions (season_id, name, status, created_at) VALUES (?, ?, ?, ?)",
		toNullInt64(seasonID), name, string(status), time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}
	return res.LastInsertId()
}

// UpdateSessionStatus transitions a session to a new state.
func (s *store) UpdateSessionStatus(ctx context.Context, sessionID int64, status SessionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE sessions SET status = ? WHERE id = ?", string(status), sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrSessionNotFound, sessionID)
	}
	return nil
}

// InsertMatch stores a match. A zero match.ID lets the database assign one.
func (s *store) InsertMatch(ctx context.Context, match *Match) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id any
	if match.ID != 0 {
		id = match.ID
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO matches (id, session_id, played_at, team1_p1, team1_p2, team2_p1, team2_p2, team1_score, team2_score, is_ranked)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, toNullInt64(match.SessionID), match.Date.Unix(),
		match.Team1P1, match.Team1P2, match.Team2P1, match.Team2P2,
		match.Team1Score, match.Team2Score, match.IsRanked,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert match: %w", err)
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	match.ID = newID
	return newID, nil
}

func (s *store) DeleteMatch(ctx context.Context, matchID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM matches WHERE id = ?", matchID)
	if err != nil {
		log.Error("Failed to delete match", "error", err, "matchID", matchID)
		return fmt.Errorf("failed to delete match: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
	}
	return nil
}
