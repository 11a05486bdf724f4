package stats

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/mauv0809/padel-ratings/internal/club"
	"github.com/mauv0809/padel-ratings/internal/rating"
)

// Tracker replays an ordered match history into per-player statistics.
// It is an in-memory, single-goroutine pass and never touches storage.
type Tracker struct {
	model      rating.Model
	players    map[int64]*PlayerStats
	matchCount int

	lastDate    time.Time
	lastMatchID int64
}

// NewTracker creates an empty tracker for the given rating model.
func NewTracker(model rating.Model) *Tracker {
	return &Tracker{
		model:   model,
		players: make(map[int64]*PlayerStats),
	}
}

// SortMatches orders matches by date, then id. This is the only order the tracker accepts.
func SortMatches(matches []club.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].Date.Equal(matches[j].Date) {
			return matches[i].Date.Before(matches[j].Date)
		}
		return matches[i].ID < matches[j].ID
	})
}

// ProcessAll sorts a copy of matches and processes each in turn.
func (t *Tracker) ProcessAll(matches []club.Match) error {
	ordered := slices.Clone(matches)
	SortMatches(ordered)
	for _, m := range ordered {
		if err := t.ProcessMatch(m); err != nil {
			return err
		}
	}
	return nil
}

// ProcessMatch applies one match. Matches must arrive in ascending (date, id) order.
// Unranked matches are ignored.
func (t *Tracker) ProcessMatch(m club.Match) error {
	if !m.IsRanked {
		return nil
	}
	if !m.HasDistinctPlayers() {
		return fmt.Errorf("%w: match %d lists a player more than once", ErrInvalidMatch, m.ID)
	}
	if t.matchCount > 0 && (m.Date.Before(t.lastDate) || (m.Date.Equal(t.lastDate) && m.ID <= t.lastMatchID)) {
		return fmt.Errorf("%w: match %d is out of order", ErrInvalidMatch, m.ID)
	}

	ids := m.Players()
	var p [4]*PlayerStats
	minGames := -1
	for i, id := range ids {
		p[i] = t.player(id)
		if minGames == -1 || p[i].GameCount < minGames {
			minGames = p[i].GameCount
		}
	}

	out := t.model.Rate(
		rating.Team{Rating1: p[0].Rating, Rating2: p[1].Rating},
		rating.Team{Rating1: p[2].Rating, Rating2: p[3].Rating},
		m.Team1Score, m.Team2Score, minGames,
	)

	margin := m.Team1Score - m.Team2Score
	team1, team2 := [2]*PlayerStats{p[0], p[1]}, [2]*PlayerStats{p[2], p[3]}
	t.recordTeam(team1, team2, out.Winner == rating.Team1, margin)
	t.recordTeam(team2, team1, out.Winner == rating.Team2, -margin)

	for i, ps := range p {
		delta := out.Delta1
		if i >= 2 {
			delta = out.Delta2
		}
		ps.Trajectory = append(ps.Trajectory, TrajectoryPoint{
			MatchID:     m.ID,
			RatingAfter: ps.Rating + delta,
			RatingDelta: delta,
			Date:        m.Date,
		})
		ps.Rating += delta
	}

	t.matchCount++
	t.lastDate = m.Date
	t.lastMatchID = m.ID
	return nil
}

// recordTeam updates game counts, partner maps and opponent maps from one team's side.
func (t *Tracker) recordTeam(team, opponents [2]*PlayerStats, won bool, margin int) {
	for i, ps := range team {
		ps.GameCount++
		ps.TotalPointDiff += margin
		if won {
			ps.WinCount++
		}

		partner := team[1-i]
		ps.GamesWith[partner.PlayerID]++
		ps.PointDiffWith[partner.PlayerID] += margin
		if won {
			ps.WinsWith[partner.PlayerID]++
		}

		for _, opp := range opponents {
			ps.GamesAgainst[opp.PlayerID]++
			ps.PointDiffAgainst[opp.PlayerID] += margin
			if won {
				ps.WinsAgainst[opp.PlayerID]++
			}
		}
	}
}

func (t *Tracker) player(id int64) *PlayerStats {
	ps, ok := t.players[id]
	if !ok {
		ps = NewPlayerStats(id, t.model.InitialRating)
		t.players[id] = ps
	}
	return ps
}

// Player returns the running statistics of one player.
func (t *Tracker) Player(id int64) (*PlayerStats, bool) {
	ps, ok := t.players[id]
	return ps, ok
}

// MatchCount is the number of matches applied so far.
func (t *Tracker) MatchCount() int {
	return t.matchCount
}

// Players returns every player seen so far ordered by id.
func (t *Tracker) Players() []*PlayerStats {
	players := make([]*PlayerStats, 0, len(t.players))
	for _, ps := range t.players {
		players = append(players, ps)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].PlayerID < players[j].PlayerID })
	return players
}

// Snapshot materialises the tracker into persisted-row shapes, in a deterministic order.
func (t *Tracker) Snapshot(scope club.Scope) Snapshot {
	snap := Snapshot{
		Scope:         scope,
		MatchCount:    t.matchCount,
		Players:       []PlayerSummary{},
		Partnerships:  []PartnershipStats{},
		Opponents:     []OpponentStats{},
		RatingHistory: []RatingHistory{},
	}
	for _, ps := range t.Players() {
		snap.Players = append(snap.Players, ps.Summary())

		for _, other := range sortedKeys(ps.GamesWith) {
			snap.Partnerships = append(snap.Partnerships,
				pairStats(ps.PlayerID, other, ps.GamesWith[other], ps.WinsWith[other], ps.PointDiffWith[other]))
		}
		for _, other := range sortedKeys(ps.GamesAgainst) {
			snap.Opponents = append(snap.Opponents,
				pairStats(ps.PlayerID, other, ps.GamesAgainst[other], ps.WinsAgainst[other], ps.PointDiffAgainst[other]))
		}
		for _, point := range ps.Trajectory {
			snap.RatingHistory = append(snap.RatingHistory, RatingHistory{
				PlayerID:    ps.PlayerID,
				MatchID:     point.MatchID,
				RatingAfter: point.RatingAfter,
				RatingDelta: point.RatingDelta,
				Date:        point.Date,
			})
		}
	}
	return snap
}

// Build runs a fresh tracker over matches and returns its snapshot.
func Build(model rating.Model, scope club.Scope, matches []club.Match) (Snapshot, error) {
	tracker := NewTracker(model)
	if err := tracker.ProcessAll(matches); err != nil {
		return Snapshot{}, err
	}
	return tracker.Snapshot(scope), nil
}

func sortedKeys(m map[int64]int) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
